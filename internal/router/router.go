package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/saulo-duarte/aizzler/docs"
	"github.com/saulo-duarte/aizzler/internal/aiquiz"
	"github.com/saulo-duarte/aizzler/internal/auth"
	"github.com/saulo-duarte/aizzler/internal/config"
	"github.com/saulo-duarte/aizzler/internal/middlewares"
	"github.com/saulo-duarte/aizzler/internal/quiz"
	"github.com/saulo-duarte/aizzler/internal/user"
)

type RouterConfig struct {
	UserHandler    *user.Handler
	AuthHandler    *auth.Handler
	AIQuizHandler  *aiquiz.Handler
	QuizHandler    *quiz.Handler
	AllowedOrigins []string
}

//go:generate swag init -d ../.. -g internal/router/router.go -o ../../docs --outputTypes go --parseInternal

// New builds the root router.
//
// @title                       aizzler API
// @version                     1.0
// @description                 Generates quizzes from study text with Gemini and stores finished attempts per user.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger(config.Logger(), "token"))
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Cors(cfg.AllowedOrigins))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/generate-quiz", func(r chi.Router) {
		r.Mount("/", aiquiz.Routes(cfg.AIQuizHandler))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", cfg.UserHandler.SignUp)
		r.Post("/login", cfg.UserHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/events", cfg.AuthHandler.Events)
		})
	})

	r.Mount("/users", user.Routes(cfg.UserHandler))
	r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
	return r
}
