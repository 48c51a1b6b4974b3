// Package geo handles placemark geometries, coordinate parsing and range checks.
package geo

import "github.com/paulmach/orb"

// Kind identifies the geometry variant of a placemark.
type Kind int

// Supported geometry kinds.
const (
	KindUnknown Kind = iota
	KindPoint
	KindPolygon
	KindLineString
)

// String returns the name written to the Type column.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindPolygon:
		return "Polygon"
	case KindLineString:
		return "LineString"
	default:
		return "Unknown"
	}
}

// Geometry is the geometry variant of a placemark, decided once when the
// placemark is read or built.
type Geometry interface {
	Kind() Kind
	// Coordinates returns the raw coordinate text of the geometry.
	Coordinates() string
}

// Point holds a single "lon,lat[,alt]" tuple.
type Point struct {
	Raw string
}

// Polygon holds the coordinates of the outer boundary ring.
type Polygon struct {
	Outer string
}

// LineString holds a whitespace separated list of tuples.
type LineString struct {
	Raw string
}

// Unknown marks a placemark without a recognized geometry.
type Unknown struct{}

func (Point) Kind() Kind      { return KindPoint }
func (Polygon) Kind() Kind    { return KindPolygon }
func (LineString) Kind() Kind { return KindLineString }
func (Unknown) Kind() Kind    { return KindUnknown }

func (p Point) Coordinates() string      { return p.Raw }
func (p Polygon) Coordinates() string    { return p.Outer }
func (l LineString) Coordinates() string { return l.Raw }
func (Unknown) Coordinates() string      { return "" }

// NewPoint builds a point geometry from a position.
func NewPoint(lon, lat float64) Point {
	return Point{Raw: FormatPosition(lon, lat)}
}

// Position parses the first tuple of the point.
func (p Point) Position() (orb.Point, error) {
	pts, err := parseTuples(p.Raw)
	if err != nil {
		return orb.Point{}, err
	}
	return pts[0], nil
}

// Ring parses the outer boundary of the polygon.
func (p Polygon) Ring() (orb.Ring, error) {
	pts, err := parseTuples(p.Outer)
	if err != nil {
		return nil, err
	}
	return orb.Ring(pts), nil
}

// Line parses the tuples of the line string.
func (l LineString) Line() (orb.LineString, error) {
	pts, err := parseTuples(l.Raw)
	if err != nil {
		return nil, err
	}
	return orb.LineString(pts), nil
}

// Orb converts a geometry to its orb counterpart.
// Unknown and malformed geometries return nil.
func Orb(g Geometry) orb.Geometry {
	switch v := g.(type) {
	case Point:
		if p, err := v.Position(); err == nil {
			return p
		}
	case Polygon:
		if r, err := v.Ring(); err == nil {
			return orb.Polygon{r}
		}
	case LineString:
		if l, err := v.Line(); err == nil {
			return l
		}
	}
	return nil
}
