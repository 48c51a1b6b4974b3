package convert

import (
	"encoding/json"

	"github.com/woozymasta/kmlsheet/internal/geo"
	"github.com/woozymasta/kmlsheet/internal/kml"
	"github.com/woozymasta/kmlsheet/internal/table"
)

// Inspection describes a tabular upload so a caller can pick column roles.
type Inspection struct {
	Columns   []string    `json:"columns"`
	Rows      int         `json:"rows"`
	Suggested table.Roles `json:"suggested"`
	Preview   [][]string  `json:"preview"`
}

// Inspect parses a CSV or XLSX file and suggests column roles.
func (c *Converter) Inspect(data []byte, filename string) (*Inspection, error) {
	t, err := table.Read(data, filename)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, ErrEmptyInput
	}

	return &Inspection{
		Columns:   t.Header,
		Rows:      t.Len(),
		Suggested: table.SuggestRoles(t.Header),
		Preview:   t.Head(c.cfg.PreviewRows).Rows,
	}, nil
}

// Preview returns the placemarks of a KML or KMZ file as GeoJSON.
func (c *Converter) Preview(data []byte, filename string) ([]byte, error) {
	pms, err := kml.Read(data, kml.KindFromFilename(filename))
	if err != nil {
		return nil, err
	}
	if len(pms) == 0 {
		return nil, ErrEmptyInput
	}

	doc := &kml.Document{Placemarks: pms}
	return json.Marshal(geo.Preview(doc.Features()))
}

// PreviewTable returns the points a TableToKML call would produce as GeoJSON.
func (c *Converter) PreviewTable(data []byte, filename string, m kml.Mapping) ([]byte, error) {
	t, err := table.Read(data, filename)
	if err != nil {
		return nil, err
	}

	doc, _, err := c.document(t, m, baseName(filename))
	if err != nil {
		return nil, err
	}

	return json.Marshal(geo.Preview(doc.Features()))
}
