package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/saulo-duarte/aizzler/internal/config"
	"github.com/saulo-duarte/aizzler/internal/container"
)

var adapter *httpadapter.HandlerAdapter

func init() {
	config.Init()
	log := config.Logger()

	settings, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.WithError(err).Fatal("Failed to load settings")
	}

	c, err := container.New(context.Background(), settings)
	if err != nil {
		log.WithError(err).Fatal("Failed to build container")
	}
	adapter = httpadapter.New(c.Handler())
}

func main() {
	lambda.Start(adapter.ProxyWithContext)
}
