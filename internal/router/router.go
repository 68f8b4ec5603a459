package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/container"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/middlewares"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/quiz"
	"github.com/JoachimHamraoui/bibliomania/internal/quizgen"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
	"github.com/JoachimHamraoui/bibliomania/internal/vote"
)

type RouterConfig struct {
	Container   *container.Container
	CORSOrigins []string
}

func New(cfg RouterConfig) *chi.Mux {
	c := cfg.Container
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Cors(cfg.CORSOrigins))
	r.Use(c.Metrics.Middleware)

	var sqlDB *sql.DB
	if db, err := c.DB.DB(); err == nil {
		sqlDB = db
	}

	r.Get("/health", health(sqlDB))
	r.Handle("/metrics", c.Metrics.Handler(sqlDB))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	user.PublicRoutes(r, c.UserContainer.Handler)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(c.Tokens))

		user.Routes(r, c.UserContainer.Handler)
		group.Routes(r, c.GroupContainer.Handler)
		book.Routes(r, c.BookContainer.Handler)
		progress.Routes(r, c.ProgressContainer.Handler)
		vote.Routes(r, c.VoteContainer.Handler)
		quiz.Routes(r, c.QuizContainer.Handler)
		quizgen.Routes(r, c.QuizGenContainer.Handler)
	})
	return r
}

func health(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			config.WithContext(r.Context()).WithError(err).Error("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
