package zones

import (
	"encoding/json"
	"net/http"

	"github.com/UrbanAtlas/trip-backend/internal/db"
)

type importRequest struct {
	LookupPath   string `json:"lookup_path"`
	GeometryPath string `json:"geometry_path"`
}

type importResponse struct {
	Zones     int `json:"zones"`
	Centroids int `json:"centroids"`
}

// ImportHandler reloads the zone table from a lookup CSV on the server's
// filesystem and optionally backfills centroids from a shapefile.
func ImportHandler(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.LookupPath == "" {
		http.Error(w, "lookup_path is required", http.StatusBadRequest)
		return
	}

	count, err := LoadZones(db.DB, req.LookupPath)
	if err != nil {
		http.Error(w, "Zone import failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var centroids int
	if req.GeometryPath != "" {
		centroids, err = BackfillCentroids(db.DB, req.GeometryPath)
		if err != nil {
			http.Error(w, "Centroid backfill failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(importResponse{Zones: count, Centroids: centroids})
}

func ListHandler(w http.ResponseWriter, r *http.Request) {
	var rows []Zone
	if err := db.DB.Order("location_id").Find(&rows).Error; err != nil {
		http.Error(w, "Failed to list zones", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}
