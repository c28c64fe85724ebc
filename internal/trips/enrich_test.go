package trips

import (
	"math"
	"testing"

	"github.com/UrbanAtlas/trip-backend/internal/zones"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// TestEnrich_EndToEnd checks every derived field for the reference trip:
// zone 1 (Manhattan) to zone 2 (Queens), 08:00→08:20, 5 miles, fare 20,
// total 25, tip 5.
func TestEnrich_EndToEnd(t *testing.T) {
	trip := Enrich(validRow(), testSnapshot())

	if trip.DurationSec != 1200 {
		t.Errorf("duration_sec = %d, want 1200", trip.DurationSec)
	}
	if !almostEqual(trip.DistanceKm, 8.0467, 0.0001) {
		t.Errorf("distance_km = %v, want ≈8.0467", trip.DistanceKm)
	}
	if !almostEqual(trip.SpeedKmh, 24.1401, 0.001) {
		t.Errorf("speed_kmh = %v, want ≈24.14", trip.SpeedKmh)
	}
	if !almostEqual(trip.FarePerKm, 2.4855, 0.001) {
		t.Errorf("fare_per_km = %v, want ≈2.483", trip.FarePerKm)
	}
	if trip.TipRate != 0.2 {
		t.Errorf("tip_rate = %v, want 0.2", trip.TipRate)
	}
	if trip.HourOfDay != 8 {
		t.Errorf("hour_of_day = %d, want 8", trip.HourOfDay)
	}
	if trip.Month != 1 {
		t.Errorf("month = %d, want 1", trip.Month)
	}
	if trip.PickupBorough != "Manhattan" || trip.DropoffBorough != "Queens" {
		t.Errorf("boroughs = %q/%q, want Manhattan/Queens", trip.PickupBorough, trip.DropoffBorough)
	}
	if trip.TripType != TripTypeCrossBorough {
		t.Errorf("trip_type = %q, want %q", trip.TripType, TripTypeCrossBorough)
	}
}

// TestEnrich_SpeedCap verifies speed is clamped at 200 km/h even when raw
// distance and duration imply more.
func TestEnrich_SpeedCap(t *testing.T) {
	row := validRow()
	row.TripDistance = "100" // 160 km in 20 minutes ≈ 483 km/h raw

	trip := Enrich(row, testSnapshot())
	if trip.SpeedKmh != 200 {
		t.Errorf("speed_kmh = %v, want capped 200", trip.SpeedKmh)
	}
}

// TestEnrich_ZeroDenominators verifies the guarded divisions: zero duration,
// zero distance and zero total all yield 0 rather than Inf/NaN.
func TestEnrich_ZeroDenominators(t *testing.T) {
	row := validRow()
	row.DropoffDatetime = row.PickupDatetime
	row.TripDistance = "0"
	row.TotalAmount = "0"
	row.TipAmount = "0"

	trip := Enrich(row, testSnapshot())
	if trip.SpeedKmh != 0 {
		t.Errorf("speed_kmh = %v, want 0 for zero duration", trip.SpeedKmh)
	}
	if trip.FarePerKm != 0 {
		t.Errorf("fare_per_km = %v, want 0 for zero distance", trip.FarePerKm)
	}
	if trip.TipRate != 0 {
		t.Errorf("tip_rate = %v, want 0 for zero total", trip.TipRate)
	}
}

// TestEnrich_MalformedTimestampDefaults verifies the defensive temporal
// defaults (hour 0, weekday 0, month 1) when a timestamp somehow reaches the
// enricher unparsed.
func TestEnrich_MalformedTimestampDefaults(t *testing.T) {
	row := validRow()
	row.PickupDatetime = "garbage"

	trip := Enrich(row, testSnapshot())
	if trip.HourOfDay != 0 || trip.DayOfWeek != 0 || trip.Month != 1 {
		t.Errorf("temporal defaults = %d/%d/%d, want 0/0/1",
			trip.HourOfDay, trip.DayOfWeek, trip.Month)
	}
}

// TestEnrich_TripTypeWithinBorough verifies same-borough and missing-borough
// trips both classify as Within Borough.
func TestEnrich_TripTypeWithinBorough(t *testing.T) {
	snap := zones.NewSnapshot([]zones.Zone{
		{LocationID: 1, Borough: "Manhattan"},
		{LocationID: 3, Borough: "Manhattan"},
		{LocationID: 4, Borough: ""},
	})

	row := validRow()
	row.DOLocationID = "3"
	if trip := Enrich(row, snap); trip.TripType != TripTypeWithinBorough {
		t.Errorf("same borough: trip_type = %q, want %q", trip.TripType, TripTypeWithinBorough)
	}

	row.DOLocationID = "4"
	if trip := Enrich(row, snap); trip.TripType != TripTypeWithinBorough {
		t.Errorf("empty borough: trip_type = %q, want %q", trip.TripType, TripTypeWithinBorough)
	}
}

// TestEnrich_CentroidDistance verifies the haversine supplement uses zone
// centroids when both are present and degrades to 0 otherwise.
func TestEnrich_CentroidDistance(t *testing.T) {
	lat1, lon1 := 40.7549, -73.9840 // Midtown
	lat2, lon2 := 40.7644, -73.9235 // Astoria
	snap := zones.NewSnapshot([]zones.Zone{
		{LocationID: 1, Borough: "Manhattan", CentroidLat: &lat1, CentroidLon: &lon1},
		{LocationID: 2, Borough: "Queens", CentroidLat: &lat2, CentroidLon: &lon2},
	})

	trip := Enrich(validRow(), snap)
	// ~5.2 km between those points; sanity-band assertion.
	if trip.CentroidDistanceKm < 4 || trip.CentroidDistanceKm > 7 {
		t.Errorf("centroid_distance_km = %v, want ≈5.2", trip.CentroidDistanceKm)
	}

	// No centroids in the default snapshot → 0.
	if trip := Enrich(validRow(), testSnapshot()); trip.CentroidDistanceKm != 0 {
		t.Errorf("centroid_distance_km = %v, want 0 without centroids", trip.CentroidDistanceKm)
	}
}
