package geo

import "github.com/paulmach/orb"

// Extent accumulates the bounding box of a set of positions.
// The zero value is an empty extent.
type Extent struct {
	bound orb.Bound
	count int
}

// Add extends the extent with a position.
func (e *Extent) Add(lon, lat float64) {
	p := orb.Point{lon, lat}
	if e.count == 0 {
		e.bound = orb.Bound{Min: p, Max: p}
	} else {
		e.bound = e.bound.Extend(p)
	}
	e.count++
}

// Empty reports whether no position was added.
func (e Extent) Empty() bool {
	return e.count == 0
}

// Count returns the number of positions added.
func (e Extent) Count() int {
	return e.count
}

// Bound returns the bounding box. It is the zero bound for an empty extent.
func (e Extent) Bound() orb.Bound {
	return e.bound
}

// BBox returns [minLon, minLat, maxLon, maxLat], or nil when empty.
func (e Extent) BBox() []float64 {
	if e.count == 0 {
		return nil
	}
	return []float64{e.bound.Min.Lon(), e.bound.Min.Lat(), e.bound.Max.Lon(), e.bound.Max.Lat()}
}
