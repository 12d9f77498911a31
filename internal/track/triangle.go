package track

import "backend-flightlog/internal/geo"

// Triangle-scoring constants: a track counts as closed when start and finish
// are within closureMaxM, a triangle is FAI when its shortest side is at
// least faiMinSideRatio of the perimeter, and turnpoint search downsamples
// the track to at most triangleSamples candidates.
const (
	closureMaxM     = 1000.0
	minPerimeterM   = 5000.0
	faiMinSideRatio = 0.28
	triangleSamples = 60
)

// Triangle is a three-turnpoint closed-circuit approximation of a track.
type Triangle struct {
	P1, P2, P3 geo.Point `json:"-"`
	Turnpoints []geo.Point `json:"turnpoints"`
	SideM      [3]float64  `json:"sides_m"`
	PerimeterM float64     `json:"perimeter_m"`
	ClosingM   float64     `json:"closing_m"`
	IsFAI      bool        `json:"is_fai"`
}

// DetectTriangle searches a closed track for the three turnpoints that
// maximise the triangle perimeter and reports whether the result satisfies
// the FAI shortest-side rule. The second return is false when the track has
// fewer than four points, does not close, or is too small to score.
func DetectTriangle(points []Point) (Triangle, bool) {
	if len(points) < 4 {
		return Triangle{}, false
	}

	first := points[0]
	last := points[len(points)-1]
	closing := geo.HaversineM(first.Lat, first.Lng, last.Lat, last.Lng)
	if closing > closureMaxM {
		return Triangle{}, false
	}

	candidates := sampleIndices(len(points), triangleSamples)

	var best Triangle
	for a := 0; a < len(candidates); a++ {
		for b := a + 1; b < len(candidates); b++ {
			for c := b + 1; c < len(candidates); c++ {
				p1 := points[candidates[a]]
				p2 := points[candidates[b]]
				p3 := points[candidates[c]]
				s1 := geo.HaversineM(p1.Lat, p1.Lng, p2.Lat, p2.Lng)
				s2 := geo.HaversineM(p2.Lat, p2.Lng, p3.Lat, p3.Lng)
				s3 := geo.HaversineM(p3.Lat, p3.Lng, p1.Lat, p1.Lng)
				perimeter := s1 + s2 + s3
				if perimeter > best.PerimeterM {
					best = Triangle{
						P1:         geo.Point{Lat: p1.Lat, Lng: p1.Lng},
						P2:         geo.Point{Lat: p2.Lat, Lng: p2.Lng},
						P3:         geo.Point{Lat: p3.Lat, Lng: p3.Lng},
						SideM:      [3]float64{s1, s2, s3},
						PerimeterM: perimeter,
					}
				}
			}
		}
	}
	if best.PerimeterM < minPerimeterM {
		return Triangle{}, false
	}

	best.Turnpoints = []geo.Point{best.P1, best.P2, best.P3}
	best.ClosingM = closing
	minSide := best.SideM[0]
	for _, s := range best.SideM[1:] {
		if s < minSide {
			minSide = s
		}
	}
	best.IsFAI = minSide >= faiMinSideRatio*best.PerimeterM
	return best, true
}

// sampleIndices returns up to max evenly spaced indices over [0, n).
func sampleIndices(n, max int) []int {
	if n <= max {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, max)
	for i := range idx {
		idx[i] = i * (n - 1) / (max - 1)
	}
	return idx
}
