package zones

import "gorm.io/gorm"

// Snapshot is an immutable view of the zone table, loaded once before an
// ingestion run starts. Validators and enrichers share one snapshot by
// reference for the lifetime of the run; zone edits land in the next run.
type Snapshot struct {
	byID map[int]Zone
}

func LoadSnapshot(d *gorm.DB) (*Snapshot, error) {
	var rows []Zone
	if err := d.Find(&rows).Error; err != nil {
		return nil, err
	}
	return NewSnapshot(rows), nil
}

func NewSnapshot(rows []Zone) *Snapshot {
	byID := make(map[int]Zone, len(rows))
	for _, z := range rows {
		byID[z.LocationID] = z
	}
	return &Snapshot{byID: byID}
}

func (s *Snapshot) Len() int { return len(s.byID) }

func (s *Snapshot) Contains(locationID int) bool {
	_, ok := s.byID[locationID]
	return ok
}

// Borough returns the borough name for a zone, or "" when the zone is
// unknown or has no borough on record.
func (s *Snapshot) Borough(locationID int) string {
	return s.byID[locationID].Borough
}

// Centroid returns the zone centroid; ok is false when the zone is unknown
// or its centroid was never backfilled.
func (s *Snapshot) Centroid(locationID int) (lat, lon float64, ok bool) {
	z, found := s.byID[locationID]
	if !found || z.CentroidLat == nil || z.CentroidLon == nil {
		return 0, 0, false
	}
	return *z.CentroidLat, *z.CentroidLon, true
}
