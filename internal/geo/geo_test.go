package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Annecy (45.8992, 6.1294) to Chamonix (45.9237, 6.8694) ~ 57-58 km
	d := HaversineKm(45.8992, 6.1294, 45.9237, 6.8694)
	if d < 55 || d > 60 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineIdenticalPoints(t *testing.T) {
	if d := HaversineM(46.5, 8.1, 46.5, 8.1); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestHaversineOneDegreeOnEquator(t *testing.T) {
	// (0,0) to (0,1) must be R * pi/180.
	want := earthRadiusM * math.Pi / 180
	got := HaversineM(0, 0, 0, 1)
	if math.Abs(got-want) > 1 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBearingDeg(t *testing.T) {
	cases := []struct {
		lat1, lng1, lat2, lng2, want float64
	}{
		{0, 0, 1, 0, 0},
		{0, 0, 0, 1, 90},
		{1, 0, 0, 0, 180},
		{0, 1, 0, 0, 270},
	}
	for _, c := range cases {
		got := BearingDeg(c.lat1, c.lng1, c.lat2, c.lng2)
		if math.Abs(got-c.want) > 0.01 {
			t.Fatalf("bearing(%v,%v -> %v,%v) = %v, want %v", c.lat1, c.lng1, c.lat2, c.lng2, got, c.want)
		}
	}
}

func TestBoundsOf(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Fatalf("expected no bounds for empty slice")
	}

	b, ok := BoundsOf([]Point{{Lat: 46.0, Lng: 8.0}, {Lat: 45.5, Lng: 8.5}, {Lat: 46.2, Lng: 7.9}})
	if !ok {
		t.Fatalf("expected bounds")
	}
	if b.MinLat != 45.5 || b.MaxLat != 46.2 || b.MinLng != 7.9 || b.MaxLng != 8.5 {
		t.Fatalf("unexpected bounds: %+v", b)
	}

	c := b.Center()
	if math.Abs(c.Lat-45.85) > 1e-9 || math.Abs(c.Lng-8.2) > 1e-9 {
		t.Fatalf("unexpected center: %+v", c)
	}

	padded := b.Pad(0.1)
	if padded.MinLat != 45.4 || padded.MaxLng != 8.6 {
		t.Fatalf("unexpected padded bounds: %+v", padded)
	}
}

func TestClosestIndex(t *testing.T) {
	points := []Point{
		{Lat: 46.0, Lng: 8.0},
		{Lat: 46.1, Lng: 8.1},
		{Lat: 46.2, Lng: 8.2},
	}

	if got := ClosestIndex(points, 46.1, 8.1); got != 1 {
		t.Fatalf("exact match: expected 1, got %d", got)
	}
	if got := ClosestIndex(points, 46.21, 8.21); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := ClosestIndex(nil, 46, 8); got != -1 {
		t.Fatalf("expected -1 for empty track, got %d", got)
	}
}

func TestClosestIndexTieBreaksToFirst(t *testing.T) {
	// Two identical points equidistant from the query: lowest index wins.
	points := []Point{
		{Lat: 46.0, Lng: 8.0},
		{Lat: 46.0, Lng: 8.0},
	}
	if got := ClosestIndex(points, 46.0, 8.0); got != 0 {
		t.Fatalf("expected first occurrence, got %d", got)
	}
}
