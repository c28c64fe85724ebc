package trips

import (
	"math"

	"github.com/UrbanAtlas/trip-backend/internal/zones"
	"github.com/umahmood/haversine"
)

const (
	milesToKm   = 1.60934
	maxSpeedKmh = 200
)

// Enrich maps an accepted raw row to the persisted trip shape. It is total:
// validation already vetted the row, and any residual parse failure degrades
// to a documented default instead of erroring.
func Enrich(row TripRow, snap *zones.Snapshot) Trip {
	pickup, pickupOK := parseTimestamp(row.PickupDatetime)
	dropoff, _ := parseTimestamp(row.DropoffDatetime)

	// Millisecond resolution, rounded to whole seconds.
	durationSec := int(math.Round(float64(dropoff.Sub(pickup).Milliseconds()) / 1000))

	distanceMi := parseAmount(row.TripDistance, 0)
	distanceKm := distanceMi * milesToKm

	var speedKmh float64
	if durationSec > 0 {
		speedKmh = math.Min(maxSpeedKmh, distanceKm/(float64(durationSec)/3600))
	}

	fare := parseAmount(row.FareAmount, 0)
	var farePerKm float64
	if distanceKm > 0 {
		farePerKm = fare / distanceKm
	}

	tip := parseAmount(row.TipAmount, 0)
	total := parseAmount(row.TotalAmount, 0)
	var tipRate float64
	if total > 0 {
		tipRate = tip / total
	}

	// Validation guarantees a parseable pickup timestamp; the zero-value
	// defaults only matter if Enrich is ever called out of band.
	hourOfDay, dayOfWeek, month := 0, 0, 1
	if pickupOK {
		hourOfDay = pickup.Hour()
		dayOfWeek = int(pickup.Weekday())
		month = int(pickup.Month())
	}

	puID, _ := parseZoneID(row.PULocationID)
	doID, _ := parseZoneID(row.DOLocationID)
	pickupBorough := snap.Borough(puID)
	dropoffBorough := snap.Borough(doID)

	tripType := TripTypeWithinBorough
	if pickupBorough != "" && dropoffBorough != "" && pickupBorough != dropoffBorough {
		tripType = TripTypeCrossBorough
	}

	return Trip{
		VendorID:        parseCount(row.VendorID, 0),
		PickupDatetime:  pickup,
		DropoffDatetime: dropoff,
		PassengerCount:  parseCount(row.PassengerCount, 0),
		TripDistance:    distanceMi,
		RatecodeID:      parseCount(row.RatecodeID, 0),
		StoreAndFwdFlag: row.StoreAndFwdFlag,
		PULocationID:    puID,
		DOLocationID:    doID,
		PaymentType:     parseCount(row.PaymentType, 0),

		FareAmount:           fare,
		Extra:                parseAmount(row.Extra, 0),
		MTATax:               parseAmount(row.MTATax, 0),
		TipAmount:            tip,
		TollsAmount:          parseAmount(row.TollsAmount, 0),
		ImprovementSurcharge: parseAmount(row.ImprovementSurcharge, 0),
		CongestionSurcharge:  parseAmount(row.CongestionSurcharge, 0),
		AirportFee:           parseAmount(row.AirportFee, 0),
		TotalAmount:          total,

		DurationSec:        durationSec,
		DistanceKm:         distanceKm,
		SpeedKmh:           speedKmh,
		FarePerKm:          farePerKm,
		TipRate:            tipRate,
		HourOfDay:          hourOfDay,
		DayOfWeek:          dayOfWeek,
		Month:              month,
		PickupBorough:      pickupBorough,
		DropoffBorough:     dropoffBorough,
		TripType:           tripType,
		CentroidDistanceKm: centroidDistanceKm(snap, puID, doID),
	}
}

// centroidDistanceKm is the straight-line distance between the pickup and
// dropoff zone centroids, 0 when either centroid is missing.
func centroidDistanceKm(snap *zones.Snapshot, puID, doID int) float64 {
	puLat, puLon, ok := snap.Centroid(puID)
	if !ok {
		return 0
	}
	doLat, doLon, ok := snap.Centroid(doID)
	if !ok {
		return 0
	}
	_, km := haversine.Distance(
		haversine.Coord{Lat: puLat, Lon: puLon},
		haversine.Coord{Lat: doLat, Lon: doLon},
	)
	return km
}
