package trips

import (
	"math"

	"github.com/UrbanAtlas/trip-backend/internal/zones"
)

// Reason identifies why a row failed validation. Closed set; the exclusion
// log and run statistics key off these strings.
type Reason string

const (
	ReasonInvalidZone       Reason = "invalid_or_unknown_zone"
	ReasonInvalidTimestamp  Reason = "invalid_timestamp"
	ReasonDurationRange     Reason = "duration_out_of_range"
	ReasonInvalidPassengers Reason = "invalid_passenger_count"
	ReasonDistanceRange     Reason = "trip_distance_out_of_range"
	ReasonFareRange         Reason = "fare_out_of_range"
	ReasonTotalRange        Reason = "total_amount_out_of_range"
)

const (
	minDurationSec = 60
	maxDurationSec = 86400
	maxPassengers  = 9
	maxDistanceMi  = 500
	maxAmount      = 10000
)

type Verdict struct {
	Accepted bool
	Reason   Reason
}

func accept() Verdict         { return Verdict{Accepted: true} }
func reject(r Reason) Verdict { return Verdict{Reason: r} }

// Validate runs the rejection checks in a fixed order and short-circuits on
// the first failure, so each rejected row carries exactly one reason.
func Validate(row TripRow, snap *zones.Snapshot) Verdict {
	puID, puOK := parseZoneID(row.PULocationID)
	doID, doOK := parseZoneID(row.DOLocationID)
	if !puOK || !doOK || !snap.Contains(puID) || !snap.Contains(doID) {
		return reject(ReasonInvalidZone)
	}

	pickup, puTimeOK := parseTimestamp(row.PickupDatetime)
	dropoff, doTimeOK := parseTimestamp(row.DropoffDatetime)
	if !puTimeOK || !doTimeOK {
		return reject(ReasonInvalidTimestamp)
	}

	durationSec := math.Round(dropoff.Sub(pickup).Seconds())
	if durationSec < minDurationSec || durationSec > maxDurationSec {
		return reject(ReasonDurationRange)
	}

	passengers := parseCount(row.PassengerCount, badNumber)
	if passengers < 0 || passengers > maxPassengers {
		return reject(ReasonInvalidPassengers)
	}

	distance := parseAmount(row.TripDistance, 0)
	if distance < 0 || distance > maxDistanceMi {
		return reject(ReasonDistanceRange)
	}

	fare := parseAmount(row.FareAmount, 0)
	if fare < 0 || fare > maxAmount {
		return reject(ReasonFareRange)
	}

	total := parseAmount(row.TotalAmount, 0)
	if total < 0 || total > maxAmount {
		return reject(ReasonTotalRange)
	}

	return accept()
}
