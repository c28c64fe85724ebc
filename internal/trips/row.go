package trips

import (
	"strconv"
	"strings"
	"time"
)

// TripRow is one raw record from a trip source, fields kept verbatim as
// strings so rejected rows can be logged exactly as received. The JSON tags
// match the source column names.
type TripRow struct {
	VendorID             string `json:"VendorID"`
	PickupDatetime       string `json:"tpep_pickup_datetime"`
	DropoffDatetime      string `json:"tpep_dropoff_datetime"`
	PassengerCount       string `json:"passenger_count"`
	TripDistance         string `json:"trip_distance"`
	RatecodeID           string `json:"RatecodeID"`
	StoreAndFwdFlag      string `json:"store_and_fwd_flag"`
	PULocationID         string `json:"PULocationID"`
	DOLocationID         string `json:"DOLocationID"`
	PaymentType          string `json:"payment_type"`
	FareAmount           string `json:"fare_amount"`
	Extra                string `json:"extra"`
	MTATax               string `json:"mta_tax"`
	TipAmount            string `json:"tip_amount"`
	TollsAmount          string `json:"tolls_amount"`
	ImprovementSurcharge string `json:"improvement_surcharge"`
	CongestionSurcharge  string `json:"congestion_surcharge"`
	AirportFee           string `json:"airport_fee"`
	TotalAmount          string `json:"total_amount"`
}

// badNumber is the fallback for a non-empty value that does not parse as a
// number. It fails every non-negative range check downstream, so garbage
// values get rejected with the range reason instead of raising.
const badNumber = -1

// parseAmount parses a numeric field, tolerating surrounding whitespace and
// thousands separators ("1,250.50"). Empty values yield def; unparseable
// non-empty values yield badNumber.
func parseAmount(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return badNumber
	}
	return v
}

// parseCount is parseAmount truncated to an integer; "1.0" counts as 1.
func parseCount(s string, def int) int {
	v := parseAmount(s, float64(def))
	return int(v)
}

// parseZoneID parses a zone reference. Missing or non-numeric ids return
// ok=false; fractional ids ("132.0") are accepted since some columnar
// exports surface them that way.
func parseZoneID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// parseTimestamp parses the timestamp formats seen across TLC exports.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
