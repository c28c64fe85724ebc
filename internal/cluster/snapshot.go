package cluster

import (
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	DefaultSnapshotRows = 10000
	MaxSnapshotRows     = 50000
)

// clampLimit applies the configured snapshot bounds: an unset request limit
// falls back to defaultRows, anything above maxRows is cut to it. Zero or
// negative bounds fall back to the package defaults.
func clampLimit(limit, defaultRows, maxRows int) int {
	if defaultRows <= 0 {
		defaultRows = DefaultSnapshotRows
	}
	if maxRows <= 0 {
		maxRows = MaxSnapshotRows
	}
	if limit <= 0 {
		limit = defaultRows
	}
	if limit > maxRows {
		limit = maxRows
	}
	return limit
}

// FetchPoints reads one bounded snapshot of enriched trips joined to their
// pickup-zone centroids. The limit is clamped to the configured row caps;
// zones without a backfilled centroid are skipped since they have no
// coordinate to cluster on. An optional borough filter narrows the snapshot.
func FetchPoints(d *gorm.DB, limit int, boroughs []string, defaultRows, maxRows int) ([]Point, error) {
	limit = clampLimit(limit, defaultRows, maxRows)

	query := `
		SELECT t.id, z.centroid_lat, z.centroid_lon, t.duration_sec,
		       t.pickup_borough, t.trip_type
		FROM taxi.trips t
		JOIN taxi.zones z ON z.location_id = t.pu_location_id
		WHERE z.centroid_lat IS NOT NULL AND z.centroid_lon IS NOT NULL
	`
	args := []interface{}{}
	if len(boroughs) > 0 {
		query += ` AND t.pickup_borough = ANY(?)`
		args = append(args, pq.Array(boroughs))
	}
	query += ` ORDER BY t.id LIMIT ?`
	args = append(args, limit)

	rows, err := d.Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("trip snapshot query: %w", err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var (
			id          int64
			lat, lon    float64
			durationSec int
			borough     string
			tripType    string
		)
		if err := rows.Scan(&id, &lat, &lon, &durationSec, &borough, &tripType); err != nil {
			return nil, fmt.Errorf("scan trip snapshot row: %w", err)
		}
		points = append(points, Point{
			Lat:         lat,
			Lon:         lon,
			DurationSec: float64(durationSec),
			Attrs: map[string]interface{}{
				"trip_id":        id,
				"pickup_borough": borough,
				"trip_type":      tripType,
			},
		})
	}
	return points, rows.Err()
}
