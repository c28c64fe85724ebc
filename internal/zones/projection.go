package zones

import "math"

// EPSG:2263 — NAD83 / New York Long Island, Lambert Conformal Conic (2SP),
// US survey feet. Parameters from the EPSG registry:
//
//	standard parallels  40°40'N, 41°02'N
//	latitude of origin  40°10'N
//	central meridian    74°00'W
//	false easting       984250 ftUS, false northing 0
//	ellipsoid           GRS80 (a = 6378137 m, 1/f = 298.257222101)
const (
	grs80A    = 6378137.0
	grs80InvF = 298.257222101

	lccLat1 = 40.66666666666666 * math.Pi / 180
	lccLat2 = 41.03333333333333 * math.Pi / 180
	lccLat0 = 40.16666666666666 * math.Pi / 180
	lccLon0 = -74.0 * math.Pi / 180

	falseEastingFt = 984250.0

	usSurveyFoot = 0.3048006096012192 // meters
)

// stateplaneToWGS84 converts EPSG:2263 easting/northing (US survey feet) to
// geographic longitude/latitude in degrees. Inverse Lambert conformal conic
// per Snyder, Map Projections — A Working Manual, pp. 107–109.
func stateplaneToWGS84(eastingFt, northingFt float64) (lon, lat float64) {
	f := 1 / grs80InvF
	e := math.Sqrt(2*f - f*f)

	m := func(phi float64) float64 {
		s := math.Sin(phi)
		return math.Cos(phi) / math.Sqrt(1-e*e*s*s)
	}
	t := func(phi float64) float64 {
		s := math.Sin(phi)
		return math.Tan(math.Pi/4-phi/2) / math.Pow((1-e*s)/(1+e*s), e/2)
	}

	m1, m2 := m(lccLat1), m(lccLat2)
	t0, t1, t2 := t(lccLat0), t(lccLat1), t(lccLat2)

	n := (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	bigF := m1 / (n * math.Pow(t1, n))
	rho0 := grs80A * bigF * math.Pow(t0, n)

	x := (eastingFt - falseEastingFt) * usSurveyFoot
	y := northingFt * usSurveyFoot

	rho := math.Sqrt(x*x + (rho0-y)*(rho0-y))
	if n < 0 {
		rho = -rho
	}
	tPrime := math.Pow(rho/(grs80A*bigF), 1/n)
	theta := math.Atan2(x, rho0-y)

	lonRad := theta/n + lccLon0

	// Iterate the latitude; converges in a handful of rounds at this scale.
	phi := math.Pi/2 - 2*math.Atan(tPrime)
	for i := 0; i < 15; i++ {
		s := math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(tPrime*math.Pow((1-e*s)/(1+e*s), e/2))
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}

	return lonRad * 180 / math.Pi, phi * 180 / math.Pi
}
