package convert

import (
	"fmt"
	"strings"

	"github.com/woozymasta/kmlsheet/internal/kml"
	"github.com/woozymasta/kmlsheet/internal/table"
)

// Layout selects the columns of a placemark export.
type Layout int

const (
	// LayoutFull writes Name, Description, Coordinates and Type.
	LayoutFull Layout = iota
	// LayoutDescriptions writes only non-empty descriptions.
	LayoutDescriptions
)

// Column headers of the exports.
var (
	FullHeader        = []string{"Name", "Description", "Coordinates", "Type"}
	DescriptionHeader = []string{"Deskripsi"}
)

func (l Layout) String() string {
	if l == LayoutDescriptions {
		return "descriptions"
	}
	return "full"
}

// ParseLayout accepts "full" and "descriptions"; empty means full.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return LayoutFull, nil
	case "descriptions", "description":
		return LayoutDescriptions, nil
	default:
		return LayoutFull, fmt.Errorf("unknown layout %q", s)
	}
}

// PlacemarkTable flattens placemarks into rows, one per placemark in
// document order.
func PlacemarkTable(pms []kml.Placemark, layout Layout) *table.Table {
	if layout == LayoutDescriptions {
		t := &table.Table{Header: DescriptionHeader}
		for _, p := range pms {
			if p.Description == "" {
				continue
			}
			t.Rows = append(t.Rows, []string{p.Description})
		}
		return t
	}

	t := &table.Table{Header: FullHeader, Rows: make([][]string, 0, len(pms))}
	for _, p := range pms {
		t.Rows = append(t.Rows, []string{
			p.Name,
			p.Description,
			p.Geometry.Coordinates(),
			p.Geometry.Kind().String(),
		})
	}
	return t
}
