package cluster

import (
	"net/http"

	"github.com/UrbanAtlas/trip-backend/internal/config"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Post("/run", RunHandler(cfg))

	return r
}
