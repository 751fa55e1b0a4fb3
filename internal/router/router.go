// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router assembles the chi route tree: global middleware, the
// /api surface, and static serving of local uploads.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"inkwell/internal/config"
	"inkwell/internal/handlers"
	mw "inkwell/internal/middleware"
	"inkwell/internal/session"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Config     *config.Config
	Sessions   *session.Store
	Posts      *handlers.PostHandlers
	Categories *handlers.CategoryHandlers
	Auth       *handlers.AuthHandlers
	Uploads    *handlers.UploadHandlers
}

// New builds the HTTP handler for the whole service.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Recoverer)
	r.Use(mw.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.LoadSession(d.Sessions))

	// Brute-force protection on login; a looser cap on the public listing.
	loginLimiter := mw.NewRateLimiter(5, time.Minute)
	listLimiter := mw.NewRateLimiter(60, time.Minute)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(a chi.Router) {
			a.Post("/register", d.Auth.Register)
			a.With(loginLimiter.Middleware).Post("/login", d.Auth.Login)

			a.Group(func(p chi.Router) {
				p.Use(mw.RequireAuth)
				p.Post("/logout", d.Auth.Logout)
				p.Get("/me", d.Auth.Me)
				p.Post("/2fa/setup", d.Auth.TwoFASetup)
				p.Post("/2fa/verify", d.Auth.TwoFAVerify)
			})
		})

		api.Route("/posts", func(p chi.Router) {
			p.With(listLimiter.Middleware).Get("/", d.Posts.List)
			p.Get("/slug/{slug}", d.Posts.GetBySlug)
			p.Get("/{id}", d.Posts.Get)

			p.Group(func(auth chi.Router) {
				auth.Use(mw.RequireAuth)
				auth.Get("/my", d.Posts.My)
				auth.Post("/", d.Posts.Create)
				auth.Post("/upload", d.Uploads.Upload)
				auth.Put("/{id}", d.Posts.Update)
				auth.Delete("/{id}", d.Posts.Delete)
				auth.Post("/{id}/comments", d.Posts.AddComment)
			})
		})

		api.Route("/categories", func(c chi.Router) {
			c.Get("/", d.Categories.List)
			c.Get("/{id}", d.Categories.Get)

			c.Group(func(admin chi.Router) {
				admin.Use(mw.RequireAuth, mw.RequireAdmin)
				admin.Post("/", d.Categories.Create)
				admin.Put("/{id}", d.Categories.Update)
				admin.Delete("/{id}", d.Categories.Delete)
			})
		})
	})

	// In local storage mode uploaded images are served straight from disk.
	if !d.Config.S3Enabled() {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.Config.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
