package config

import (
	"context"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type logCtxKey struct{}

var logger = logrus.New()

// Init configures the process-wide logger from LOG_LEVEL and LOG_FORMAT.
func Init() {
	logger.SetOutput(os.Stdout)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func Logger() *logrus.Logger {
	return logger
}

// WithUserID stores the authenticated user id so WithContext can tag log lines with it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, logCtxKey{}, userID)
}

func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logger)
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	if userID, ok := ctx.Value(logCtxKey{}).(string); ok && userID != "" {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}
