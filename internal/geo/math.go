package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Coordinate bounds, inclusive.
const (
	MaxLatitude  = 90.0
	MaxLongitude = 180.0
)

// ErrBadCoordinate is returned for coordinate text that cannot be parsed.
var ErrBadCoordinate = errors.New("malformed coordinate")

// ValidLatitude reports whether v is a finite latitude in [-90, 90].
func ValidLatitude(v float64) bool {
	return !math.IsNaN(v) && v >= -MaxLatitude && v <= MaxLatitude
}

// ValidLongitude reports whether v is a finite longitude in [-180, 180].
func ValidLongitude(v float64) bool {
	return !math.IsNaN(v) && v >= -MaxLongitude && v <= MaxLongitude
}

// InRange reports whether both values are valid coordinates.
func InRange(lat, lon float64) bool {
	return ValidLatitude(lat) && ValidLongitude(lon)
}

// FormatPosition renders a position in KML order, longitude first.
func FormatPosition(lon, lat float64) string {
	return strconv.FormatFloat(lon, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64)
}

// NormalizeCoordinates collapses any whitespace between tuples to single spaces.
func NormalizeCoordinates(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseTuples parses whitespace separated "lon,lat[,alt]" tuples.
// Altitude is accepted and dropped.
func parseTuples(s string) ([]orb.Point, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadCoordinate)
	}

	pts := make([]orb.Point, 0, len(fields))
	for _, f := range fields {
		parts := strings.Split(f, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("%w: %q", ErrBadCoordinate, f)
		}

		lon, err1 := strconv.ParseFloat(parts[0], 64)
		lat, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadCoordinate, f)
		}
		if !InRange(lat, lon) {
			return nil, fmt.Errorf("%w: %q out of range", ErrBadCoordinate, f)
		}

		pts = append(pts, orb.Point{lon, lat})
	}

	return pts, nil
}
