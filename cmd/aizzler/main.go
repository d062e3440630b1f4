package main

import (
	"os"

	"github.com/saulo-duarte/aizzler/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
