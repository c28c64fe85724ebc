package zones

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoadZones wipes and repopulates the zone table from the TLC lookup CSV
// (LocationID,Borough,Zone,service_zone). Rows with a non-numeric LocationID
// are skipped. Re-running with the same file is idempotent: the primary-key
// conflict updates the row instead of duplicating it. The wipe runs even when
// the lookup has no data rows, so the table always mirrors the file and never
// keeps stale rows from a prior load.
func LoadZones(d *gorm.DB, lookupPath string) (int, error) {
	f, err := os.Open(lookupPath)
	if err != nil {
		return 0, fmt.Errorf("open zone lookup: %w", err)
	}
	defer f.Close()

	rows, skipped, err := parseLookup(bufio.NewReader(f))
	if err != nil {
		return 0, err
	}
	if skipped > 0 {
		log.WithField("rows", skipped).Warn("skipped zone lookup rows with non-numeric LocationID")
	}

	err = d.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM taxi.zones`).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "location_id"}},
			UpdateAll: true,
		}).Create(&rows).Error
	})
	if err != nil {
		return 0, fmt.Errorf("upsert zones: %w", err)
	}

	log.WithField("zones", len(rows)).Info("zone table reloaded")
	return len(rows), nil
}

// parseLookup reads the lookup CSV into zone rows, reporting how many rows
// were dropped for a non-numeric LocationID.
func parseLookup(src io.Reader) ([]Zone, int, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read zone lookup header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, k := range []string{"LocationID", "Borough", "Zone", "service_zone"} {
		if _, ok := col[k]; !ok {
			return nil, 0, fmt.Errorf("zone lookup missing required column: %s", k)
		}
	}

	var rows []Zone
	skipped := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read zone lookup row: %w", err)
		}
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		id, err := strconv.Atoi(get("LocationID"))
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, Zone{
			LocationID:  id,
			Borough:     get("Borough"),
			ZoneName:    get("Zone"),
			ServiceZone: get("service_zone"),
		})
	}
	return rows, skipped, nil
}

// BackfillCentroids reads zone polygons from an ESRI shapefile in EPSG:2263
// (state plane, US survey feet), averages each polygon's outer-ring vertices,
// reprojects the mean to longitude/latitude and writes it onto the matching
// zone row. Zones with missing or degenerate geometry keep null centroids.
func BackfillCentroids(d *gorm.DB, shapefilePath string) (int, error) {
	r, err := shp.Open(shapefilePath)
	if err != nil {
		return 0, fmt.Errorf("open zone shapefile: %w", err)
	}
	defer r.Close()

	locIdx := -1
	for i, f := range r.Fields() {
		if strings.EqualFold(f.String(), "LocationID") {
			locIdx = i
		}
	}
	if locIdx < 0 {
		return 0, fmt.Errorf("zone shapefile has no LocationID attribute")
	}

	updated := 0
	for r.Next() {
		row, shape := r.Shape()

		id, err := strconv.Atoi(strings.TrimSpace(r.ReadAttribute(row, locIdx)))
		if err != nil {
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			log.WithField("location_id", id).Warn("zone geometry is not a polygon, centroid left null")
			continue
		}
		east, north, ok := outerRingMean(poly)
		if !ok {
			log.WithField("location_id", id).Warn("zone polygon degenerate, centroid left null")
			continue
		}
		lon, lat := stateplaneToWGS84(east, north)

		res := d.Model(&Zone{}).
			Where("location_id = ?", id).
			Updates(map[string]interface{}{"centroid_lat": lat, "centroid_lon": lon})
		if res.Error != nil {
			return updated, fmt.Errorf("update centroid for zone %d: %w", id, res.Error)
		}
		if res.RowsAffected > 0 {
			updated++
		}
	}

	log.WithField("zones", updated).Info("zone centroids backfilled")
	return updated, nil
}

// outerRingMean averages the vertices of the polygon's first ring, ignoring
// non-finite coordinates. Part offsets come straight off disk, so an offset
// outside the vertex range marks the polygon degenerate instead of being
// trusted.
func outerRingMean(poly *shp.Polygon) (east, north float64, ok bool) {
	if len(poly.Points) == 0 {
		return 0, 0, false
	}
	end := len(poly.Points)
	if len(poly.Parts) > 1 {
		end = int(poly.Parts[1])
		if end <= 0 || end > len(poly.Points) {
			return 0, 0, false
		}
	}

	var sumX, sumY float64
	n := 0
	for _, p := range poly.Points[:end] {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			continue
		}
		sumX += p.X
		sumY += p.Y
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	return sumX / float64(n), sumY / float64(n), true
}
