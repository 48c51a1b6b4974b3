package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/kmlsheet/internal/geo"
)

// ValidateOptions controls Validate.
type ValidateOptions struct {
	// CheckBounds also drops rows outside [-90, 90] / [-180, 180].
	CheckBounds bool
}

// ParseCoordinate coerces a cell to a finite number.
func ParseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Validate returns a new table with the rows whose latitude and longitude
// cells are numeric, in their original order.
func Validate(t *Table, latCol, lonCol string, opts ValidateOptions) (*Table, error) {
	latIdx, err := t.MustIndex(latCol)
	if err != nil {
		return nil, err
	}
	lonIdx, err := t.MustIndex(lonCol)
	if err != nil {
		return nil, err
	}

	out := &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, 0, len(t.Rows)),
	}

	for _, row := range t.Rows {
		lat, ok1 := ParseCoordinate(Cell(row, latIdx))
		lon, ok2 := ParseCoordinate(Cell(row, lonIdx))
		if !ok1 || !ok2 {
			continue
		}
		if opts.CheckBounds && !geo.InRange(lat, lon) {
			continue
		}
		out.Rows = append(out.Rows, append([]string(nil), row...))
	}

	return out, nil
}
