package trips

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/UrbanAtlas/trip-backend/internal/config"
	"github.com/UrbanAtlas/trip-backend/internal/db"
	"github.com/UrbanAtlas/trip-backend/internal/zones"
	log "github.com/sirupsen/logrus"
)

type importRequest struct {
	Path string `json:"path"`
}

// ImportHandler runs a full ingestion of the trip file at the given server
// path and returns the run summary. Kicking off a multi-million-row ingest
// over HTTP is deliberate: the dashboard triggers it and polls the counts.
func ImportHandler(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Path == "" {
			http.Error(w, "path is required", http.StatusBadRequest)
			return
		}

		summary, err := RunImport(cfg, req.Path)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrPersistence) {
				status = http.StatusBadGateway
			}
			http.Error(w, "Trip import failed: "+err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}

// RunImport assembles a pipeline against the shared database handle and
// drains the source at path. Shared by the HTTP handler and the CLI.
func RunImport(cfg config.Config, path string) (Summary, error) {
	snap, err := zones.LoadSnapshot(db.DB)
	if err != nil {
		return Summary{}, err
	}

	src, err := OpenSource(path)
	if err != nil {
		return Summary{}, err
	}
	defer src.Close()

	excl, err := OpenExclusionLog(cfg.Ingest.ExclusionLogPath, cfg.Ingest.ExclusionLogCap)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if err := excl.Close(); err != nil {
			log.WithError(err).Warn("closing exclusion log")
		}
	}()

	p := &Pipeline{
		Zones:      snap,
		Sink:       NewBatchWriter(db.DB, cfg.Ingest.BatchSize),
		Exclusions: excl,
	}
	return p.Run(src)
}

func StatsHandler(w http.ResponseWriter, r *http.Request) {
	var count int64
	if err := db.DB.Model(&Trip{}).Count(&count).Error; err != nil {
		http.Error(w, "Failed to count trips", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"trips": count})
}
