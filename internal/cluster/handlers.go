package cluster

import (
	"encoding/json"
	"net/http"

	"github.com/UrbanAtlas/trip-backend/internal/config"
	"github.com/UrbanAtlas/trip-backend/internal/db"
)

type runRequest struct {
	K             int      `json:"k"`
	MaxIterations *int     `json:"max_iterations"`
	Limit         int      `json:"limit"`
	Boroughs      []string `json:"boroughs"`
}

type runResponse struct {
	Points   int       `json:"points"`
	Clusters []Cluster `json:"clusters"`
}

// RunHandler fetches one bounded snapshot of enriched trips and clusters it.
// Results are recomputed fresh on every call and never persisted.
func RunHandler(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		maxIterations := DefaultMaxIterations
		if req.MaxIterations != nil {
			maxIterations = *req.MaxIterations
		}

		points, err := FetchPoints(db.DB, req.Limit, req.Boroughs,
			cfg.Cluster.DefaultRows, cfg.Cluster.MaxRows)
		if err != nil {
			http.Error(w, "Snapshot fetch failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		clusters := New(nil).Run(points, req.K, maxIterations)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(runResponse{Points: len(points), Clusters: clusters})
	}
}
