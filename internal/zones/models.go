package zones

// Zone is one taxi-zone row from the TLC lookup table. Centroids are nil
// until the geometry backfill has run; not every zone has usable geometry.
type Zone struct {
	LocationID  int      `json:"location_id" gorm:"primaryKey"`
	Borough     string   `json:"borough"`
	ZoneName    string   `json:"zone_name"`
	ServiceZone string   `json:"service_zone"`
	CentroidLat *float64 `json:"centroid_lat"`
	CentroidLon *float64 `json:"centroid_lon"`
}

func (Zone) TableName() string { return "taxi.zones" }
