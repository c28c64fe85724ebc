package trips

import "time"

// Trip is one persisted, enriched trip record. Written exactly once by the
// ingestion pipeline, never updated. The index set mirrors the query layer's
// read patterns (time windows, zone/borough rollups, fare histograms).
type Trip struct {
	ID uint `json:"id" gorm:"primaryKey"`

	VendorID        int       `json:"vendor_id" gorm:"column:vendor_id"`
	PickupDatetime  time.Time `json:"pickup_datetime" gorm:"index"`
	DropoffDatetime time.Time `json:"dropoff_datetime"`
	PassengerCount  int       `json:"passenger_count"`
	TripDistance    float64   `json:"trip_distance" gorm:"index"` // miles, as received
	RatecodeID      int       `json:"ratecode_id" gorm:"column:ratecode_id"`
	StoreAndFwdFlag string    `json:"store_and_fwd_flag"`
	PULocationID    int       `json:"pu_location_id" gorm:"column:pu_location_id;index"`
	DOLocationID    int       `json:"do_location_id" gorm:"column:do_location_id;index"`
	PaymentType     int       `json:"payment_type"`

	FareAmount           float64 `json:"fare_amount"`
	Extra                float64 `json:"extra"`
	MTATax               float64 `json:"mta_tax" gorm:"column:mta_tax"`
	TipAmount            float64 `json:"tip_amount"`
	TollsAmount          float64 `json:"tolls_amount"`
	ImprovementSurcharge float64 `json:"improvement_surcharge"`
	CongestionSurcharge  float64 `json:"congestion_surcharge"`
	AirportFee           float64 `json:"airport_fee"`
	TotalAmount          float64 `json:"total_amount" gorm:"index"`

	// Derived at enrichment time.
	DurationSec        int     `json:"duration_sec" gorm:"index"`
	DistanceKm         float64 `json:"distance_km"`
	SpeedKmh           float64 `json:"speed_kmh"`
	FarePerKm          float64 `json:"fare_per_km"`
	TipRate            float64 `json:"tip_rate"`
	HourOfDay          int     `json:"hour_of_day" gorm:"index"`
	DayOfWeek          int     `json:"day_of_week"`
	Month              int     `json:"month"`
	PickupBorough      string  `json:"pickup_borough" gorm:"index"`
	DropoffBorough     string  `json:"dropoff_borough" gorm:"index"`
	TripType           string  `json:"trip_type" gorm:"index"`
	CentroidDistanceKm float64 `json:"centroid_distance_km"`
}

func (Trip) TableName() string { return "taxi.trips" }

const (
	TripTypeWithinBorough = "Within Borough"
	TripTypeCrossBorough  = "Cross Borough"
)
