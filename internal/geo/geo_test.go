package geo

import (
	"errors"
	"math"
	"testing"
)

func TestInRange(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"origin", 0, 0, true},
		{"upper corner inclusive", 90, 180, true},
		{"lower corner inclusive", -90, -180, true},
		{"lat just above", 90.0001, 0, false},
		{"lon just below", 0, -180.0001, false},
		{"nan", math.NaN(), 0, false},
		{"inf", 0, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InRange(tt.lat, tt.lon); got != tt.want {
				t.Errorf("InRange(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestPointPosition(t *testing.T) {
	p := Point{Raw: " 106.8271,-6.1754,0 "}
	pos, err := p.Position()
	if err != nil {
		t.Fatalf("Position() error: %v", err)
	}
	if pos.Lon() != 106.8271 || pos.Lat() != -6.1754 {
		t.Errorf("Position() = %v, want [106.8271 -6.1754]", pos)
	}
}

func TestPositionErrors(t *testing.T) {
	for _, raw := range []string{"", "abc", "1", "1,2,3,4", "200,10", "10,95"} {
		if _, err := (Point{Raw: raw}).Position(); !errors.Is(err, ErrBadCoordinate) {
			t.Errorf("Position(%q) error = %v, want ErrBadCoordinate", raw, err)
		}
	}
}

func TestPolygonRing(t *testing.T) {
	p := Polygon{Outer: "0,0 1,0 1,1 0,1 0,0"}
	ring, err := p.Ring()
	if err != nil {
		t.Fatalf("Ring() error: %v", err)
	}
	if len(ring) != 5 {
		t.Errorf("len(ring) = %d, want 5", len(ring))
	}
	if !ring.Closed() {
		t.Error("ring should be closed")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Geometry]string{
		Point{}:      "Point",
		Polygon{}:    "Polygon",
		LineString{}: "LineString",
		Unknown{}:    "Unknown",
	}
	for g, want := range tests {
		if got := g.Kind().String(); got != want {
			t.Errorf("Kind().String() = %q, want %q", got, want)
		}
	}
}

func TestFormatPosition(t *testing.T) {
	if got := FormatPosition(20, 10); got != "20,10" {
		t.Errorf("FormatPosition(20, 10) = %q", got)
	}
	if got := FormatPosition(-0.5, 51.4778); got != "-0.5,51.4778" {
		t.Errorf("FormatPosition(-0.5, 51.4778) = %q", got)
	}
}

func TestNormalizeCoordinates(t *testing.T) {
	in := "\n\t1,2,0\n   3,4,0\n"
	if got := NormalizeCoordinates(in); got != "1,2,0 3,4,0" {
		t.Errorf("NormalizeCoordinates() = %q", got)
	}
}

func TestExtent(t *testing.T) {
	var e Extent
	if !e.Empty() || e.BBox() != nil {
		t.Fatal("zero extent should be empty")
	}

	e.Add(20, 10)
	e.Add(-5, 40)
	e.Add(3, -1)

	want := []float64{-5, -1, 20, 40}
	got := e.BBox()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("BBox() = %v, want %v", got, want)
		}
	}
	if e.Count() != 3 {
		t.Errorf("Count() = %d, want 3", e.Count())
	}
}

func TestPreview(t *testing.T) {
	fc := Preview([]Feature{
		{Name: "A", Geometry: Point{Raw: "20,10"}},
		{Name: "bad", Geometry: Point{Raw: "x,y"}},
		{Name: "none", Geometry: Unknown{}},
		{Name: "line", Geometry: LineString{Raw: "0,0 1,1"}},
	})

	if len(fc.Features) != 2 {
		t.Fatalf("len(Features) = %d, want 2", len(fc.Features))
	}
	if fc.Features[0].Properties["name"] != "A" {
		t.Errorf("first feature name = %v", fc.Features[0].Properties["name"])
	}
	if fc.Features[1].Properties["type"] != "LineString" {
		t.Errorf("second feature type = %v", fc.Features[1].Properties["type"])
	}
	if len(fc.BBox) != 4 {
		t.Errorf("BBox = %v, want 4 values", fc.BBox)
	}
}
