package cluster

import (
	"math"
	"math/rand"
	"time"
)

// Point is one clustering observation. Attrs rides along untouched so
// callers can map results back to trips.
type Point struct {
	Lat         float64                `json:"lat"`
	Lon         float64                `json:"lon"`
	DurationSec float64                `json:"duration_sec"`
	Attrs       map[string]interface{} `json:"attrs,omitempty"`
}

// Centroid is the representative coordinate of a cluster in the same scaled
// space the distance metric uses, reported unscaled.
type Centroid struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DurationSec float64 `json:"duration_sec"`
}

// Cluster is a non-empty group of points sharing a centroid at the end of a
// run. Points keep their input order.
type Cluster struct {
	Centroid Centroid `json:"centroid"`
	Points   []Point  `json:"points"`
}

const (
	DefaultMaxIterations = 100

	// Centroid movement below this (in scaled units) counts as converged.
	convergenceThreshold = 0.001

	// Trip durations are seconds, coordinates are degrees; dividing duration
	// by 1000 puts both on a comparable scale.
	durationScale = 1000
)

// Engine runs K-means over an in-memory point set. Each call to Run owns its
// own centroid state, so one Engine can serve concurrent requests as long as
// the rand source is not shared; New gives every Engine its own.
type Engine struct {
	rng *rand.Rand
}

// New returns an engine backed by the given random source. Pass nil for a
// time-seeded source; tests inject a fixed seed to pin cluster membership.
func New(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// Run clusters points into at most k groups. Degenerate inputs keep their
// historical behavior: no points yields no clusters, and k outside
// (0, len(points)] yields the whole input as a single cluster.
func (e *Engine) Run(points []Point, k, maxIterations int) []Cluster {
	if len(points) == 0 {
		return []Cluster{}
	}
	if k <= 0 || k > len(points) {
		return []Cluster{singleCluster(points)}
	}
	if maxIterations < 0 {
		maxIterations = DefaultMaxIterations
	}

	// Initial centroids: k distinct input points, chosen by index.
	centroids := make([]vec3, k)
	for i, idx := range e.rng.Perm(len(points))[:k] {
		centroids[i] = pointVec(points[idx])
	}

	groups := assign(points, centroids)

	for iter := 0; iter < maxIterations; iter++ {
		next := make([]vec3, k)
		moved := 0.0
		for c := range centroids {
			if len(groups[c]) == 0 {
				// Reseed a starved cluster from a random input point rather
				// than dropping it.
				next[c] = pointVec(points[e.rng.Intn(len(points))])
			} else {
				next[c] = mean(points, groups[c])
			}
			if d := dist(centroids[c], next[c]); d > moved {
				moved = d
			}
		}
		centroids = next
		groups = assign(points, centroids)
		if moved < convergenceThreshold {
			break
		}
	}

	out := make([]Cluster, 0, k)
	for c, members := range groups {
		if len(members) == 0 {
			continue
		}
		cl := Cluster{
			Centroid: Centroid{
				Lat:         centroids[c].x,
				Lon:         centroids[c].y,
				DurationSec: centroids[c].z * durationScale,
			},
			Points: make([]Point, 0, len(members)),
		}
		for _, idx := range members {
			cl.Points = append(cl.Points, points[idx])
		}
		out = append(out, cl)
	}
	return out
}

// vec3 is a point in the scaled clustering space: (lat, lon, duration/1000).
type vec3 struct{ x, y, z float64 }

func pointVec(p Point) vec3 {
	return vec3{finite(p.Lat), finite(p.Lon), finite(p.DurationSec) / durationScale}
}

// finite maps NaN and infinities to 0 so a bad field cannot poison every
// distance it participates in.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func dist(a, b vec3) float64 {
	dx, dy, dz := a.x-b.x, a.y-b.y, a.z-b.z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// assign buckets each point with its nearest centroid; the first centroid
// wins exact ties.
func assign(points []Point, centroids []vec3) [][]int {
	groups := make([][]int, len(centroids))
	for i, p := range points {
		v := pointVec(p)
		best, bestDist := 0, math.Inf(1)
		for c, ctr := range centroids {
			if d := dist(v, ctr); d < bestDist {
				best, bestDist = c, d
			}
		}
		groups[best] = append(groups[best], i)
	}
	return groups
}

func mean(points []Point, members []int) vec3 {
	var sum vec3
	for _, idx := range members {
		v := pointVec(points[idx])
		sum.x += v.x
		sum.y += v.y
		sum.z += v.z
	}
	n := float64(len(members))
	return vec3{sum.x / n, sum.y / n, sum.z / n}
}

func singleCluster(points []Point) Cluster {
	idx := make([]int, len(points))
	for i := range points {
		idx[i] = i
	}
	c := mean(points, idx)
	return Cluster{
		Centroid: Centroid{Lat: c.x, Lon: c.y, DurationSec: c.z * durationScale},
		Points:   append([]Point(nil), points...),
	}
}
