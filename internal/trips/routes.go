package trips

import (
	"net/http"

	"github.com/UrbanAtlas/trip-backend/internal/config"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Post("/import", ImportHandler(cfg))
	r.Get("/stats", StatsHandler)

	return r
}
