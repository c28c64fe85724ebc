package zones

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", ListHandler)
	r.Post("/import", ImportHandler)

	return r
}
