// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/dairy-survey/cliparse"
	"github.com/danielhkuo/dairy-survey/handlers"
	"github.com/danielhkuo/dairy-survey/middleware"
	"github.com/danielhkuo/dairy-survey/models"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	scoreHandler := handlers.NewScoreHandler(db)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// Users
	mux.HandleFunc("POST /auth/register", middleware.Wrap(userHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.Wrap(userHandler.Login))
	mux.HandleFunc("GET /auth/me", middleware.Wrap(userHandler.Me))
	mux.HandleFunc("GET /auth/user/list", middleware.Wrap(userHandler.ListUsers))

	// Herd records, one route set per species
	for _, species := range models.AllSpecies {
		herdHandler := handlers.NewHerdHandler(db, species)
		prefix := "/" + string(species)

		mux.HandleFunc("GET "+prefix+"/list", middleware.Wrap(herdHandler.List))
		mux.HandleFunc("GET "+prefix+"/user/{userId}", middleware.Wrap(herdHandler.ByUser))
		mux.HandleFunc("POST "+prefix+"/info", middleware.Wrap(herdHandler.Create))
		mux.HandleFunc("PUT "+prefix+"/info/{id}", middleware.Wrap(herdHandler.Update))
	}

	// Assessment catalog (read-only)
	mux.HandleFunc("GET /api/sections", middleware.Wrap(catalogHandler.Sections))
	mux.HandleFunc("GET /api/sections/{id}/subsections", middleware.Wrap(catalogHandler.Subsections))
	mux.HandleFunc("GET /api/subsections/{id}/score-descriptions", middleware.Wrap(catalogHandler.ScoreDescriptions))
	mux.HandleFunc("GET /api/subsections/{id}/score-descriptions/{value}", middleware.Wrap(catalogHandler.ScoreDescription))

	// Scores
	mux.HandleFunc("GET /api/scores", middleware.Wrap(scoreHandler.List))
	mux.HandleFunc("POST /api/scores", middleware.Wrap(scoreHandler.Submit))
	mux.HandleFunc("GET /api/users/{userId}/scores", middleware.Wrap(scoreHandler.UserScores))
	mux.HandleFunc("GET /api/users/{userId}/subsections/{id}/scores", middleware.Wrap(scoreHandler.UserSubsectionScores))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("dairy-survey API v1"))
	})

	return mux
}
