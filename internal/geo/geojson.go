package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is a named geometry handed to the map preview.
type Feature struct {
	Name     string
	Geometry Geometry
}

// Preview builds a GeoJSON feature collection for the map preview.
// Unknown and malformed geometries are left out. The collection bbox is set
// when at least one feature is present.
func Preview(features []Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	var bound orb.Bound
	for _, f := range features {
		g := Orb(f.Geometry)
		if g == nil {
			continue
		}

		if len(fc.Features) == 0 {
			bound = g.Bound()
		} else {
			bound = bound.Union(g.Bound())
		}

		feature := geojson.NewFeature(g)
		feature.Properties["name"] = f.Name
		feature.Properties["type"] = f.Geometry.Kind().String()
		fc.Append(feature)
	}

	if len(fc.Features) > 0 {
		fc.BBox = geojson.NewBBox(bound)
	}

	return fc
}
