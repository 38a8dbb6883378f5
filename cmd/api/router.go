package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/devhub/devconnect/internal/config"
	"github.com/devhub/devconnect/internal/github"
	"github.com/devhub/devconnect/internal/handlers"
	"github.com/devhub/devconnect/internal/middleware"
	"github.com/devhub/devconnect/internal/repo"
	"github.com/devhub/devconnect/internal/token"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full HTTP surface: public register/login/profile reads,
// token-gated everything else, plus health and metrics.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(database)
	profileRepo := repo.NewProfileRepo(database)
	postRepo := repo.NewPostRepo(database)

	tokens := token.NewService([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)

	authHandler := &handlers.AuthHandler{Users: userRepo, Tokens: tokens}
	profileHandler := &handlers.ProfileHandler{Profiles: profileRepo, Users: userRepo, Posts: postRepo}
	postHandler := &handlers.PostHandler{Posts: postRepo, Users: userRepo}
	githubHandler := &handlers.GithubHandler{
		Client: github.NewClient(github.Config{ClientID: cfg.GithubClientID, Secret: cfg.GithubSecret}),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(false))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Prometheus)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authLimiter := middleware.AuthRateLimiter()

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBytes(0))

		// Public
		r.With(authLimiter.Middleware).Post("/users", authHandler.Register)
		r.With(authLimiter.Middleware).Post("/auth", authHandler.Login)
		r.Get("/profile", profileHandler.List)
		r.Get("/profile/user/{user_id}", profileHandler.GetByUserID)
		r.Get("/profile/github/{username}", githubHandler.Repos)

		// Private
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens))

			r.Get("/auth", authHandler.Me)

			r.Get("/profile/me", profileHandler.Me)
			r.Post("/profile", profileHandler.Upsert)
			r.Delete("/profile", profileHandler.DeleteAccount)
			r.Put("/profile/experience", profileHandler.AddExperience)
			r.Delete("/profile/experience/{exp_id}", profileHandler.RemoveExperience)
			r.Put("/profile/education", profileHandler.AddEducation)
			r.Delete("/profile/education/{edu_id}", profileHandler.RemoveEducation)

			r.Post("/posts", postHandler.Create)
			r.Get("/posts", postHandler.List)
			r.Get("/posts/{id}", postHandler.Get)
			r.Delete("/posts/{id}", postHandler.Delete)
			r.Put("/posts/like/{id}", postHandler.Like)
			r.Put("/posts/unlike/{id}", postHandler.Unlike)
			r.Post("/posts/comment/{id}", postHandler.AddComment)
			r.Delete("/posts/comment/{id}/{comment_id}", postHandler.DeleteComment)
		})
	})

	return r
}
