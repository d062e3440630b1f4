package container

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/saulo-duarte/aizzler/internal/aiquiz"
	"github.com/saulo-duarte/aizzler/internal/auth"
	"github.com/saulo-duarte/aizzler/internal/config"
	"github.com/saulo-duarte/aizzler/internal/quiz"
	"github.com/saulo-duarte/aizzler/internal/router"
	"github.com/saulo-duarte/aizzler/internal/user"
)

type Container struct {
	Settings        config.Settings
	UserContainer   *user.UserContainer
	AIQuizContainer *aiquiz.AIQuizContainer
	QuizContainer   *quiz.QuizContainer
	AuthHandler     *auth.Handler
	Hub             *auth.Hub

	redis *redis.Client
}

// New wires every feature against the process-wide database handle.
func New(ctx context.Context, settings config.Settings) (*Container, error) {
	log := config.WithContext(ctx)

	if err := auth.Configure(settings.Auth.JWTSecret); err != nil {
		return nil, fmt.Errorf("JWT_SECRET: %w", err)
	}

	if err := config.Connect(ctx, settings.Database.Driver, settings.Database.DSN); err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	c := &Container{Settings: settings, Hub: auth.NewHub()}

	if settings.Redis.Addr != "" {
		client, err := config.ConnectRedis(ctx, settings.Redis.Addr, settings.Redis.Password, settings.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.redis = client
		auth.SetRevoker(auth.NewRedisRevoker(client))
	} else {
		log.Warn("REDIS_ADDR is not set; revoked tokens are tracked in memory only")
		auth.SetRevoker(auth.NewMemoryRevoker())
	}

	genCfg := aiquiz.DefaultGenerationConfig()
	genCfg.Model = settings.Gemini.Model
	if settings.Gemini.Temperature != nil {
		genCfg.Temperature = *settings.Gemini.Temperature
	}
	genCfg.MaxOutputTokens = settings.Gemini.MaxOutputTokens

	c.UserContainer = user.NewUserContainer(config.DB, settings.TokenTTL())
	c.QuizContainer = quiz.NewQuizContainer(config.DB)
	c.AIQuizContainer = aiquiz.NewAIQuizContainer(ctx, settings.Gemini.APIKey, genCfg)
	c.AuthHandler = auth.NewHandler(c.Hub)

	return c, nil
}

func (c *Container) Handler() http.Handler {
	return router.New(router.RouterConfig{
		UserHandler:    c.UserContainer.Handler,
		AuthHandler:    c.AuthHandler,
		AIQuizHandler:  c.AIQuizContainer.Handler,
		QuizHandler:    c.QuizContainer.Handler,
		AllowedOrigins: c.Settings.Server.AllowedOrigins,
	})
}

func (c *Container) Close() error {
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if config.DB != nil {
		if sqlDB, err := config.DB.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}

// Migrate creates or updates the tables of every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&user.User{}, &quiz.SavedQuiz{})
}
