// Package convert wires the readers, validator and writers into the two
// conversion pipelines: KML/KMZ to spreadsheet and spreadsheet to KML.
//
// Every call works on its own data. Fatal errors return a nil Result, never
// partial output.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/woozymasta/kmlsheet/internal/config"
	"github.com/woozymasta/kmlsheet/internal/geo"
	"github.com/woozymasta/kmlsheet/internal/kml"
	"github.com/woozymasta/kmlsheet/internal/table"

	"github.com/rs/zerolog/log"
)

// Media types of produced files.
const (
	MediaTypeXLSX    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MediaTypeKML     = "application/vnd.google-earth.kml+xml"
	MediaTypeGeoJSON = "application/geo+json"
)

var (
	// ErrEmptyInput is returned for inputs without placemarks or rows.
	ErrEmptyInput = errors.New("input contains no data")
	// ErrNoValidCoordinates is returned when no row survives coordinate checks.
	ErrNoValidCoordinates = errors.New("no rows with valid coordinates")
)

// Result is a produced file plus conversion counts.
type Result struct {
	Data      []byte
	Filename  string
	MediaType string
	Emitted   int
	Skipped   int
	Folders   int
	Extent    geo.Extent
}

// Converter runs conversions with a fixed configuration.
type Converter struct {
	cfg config.Convert
}

// New returns a Converter for cfg.
func New(cfg config.Convert) *Converter {
	return &Converter{cfg: cfg}
}

// KMLToXLSX reads a KML or KMZ file and exports its placemarks as a workbook.
func (c *Converter) KMLToXLSX(data []byte, filename string, layout Layout) (*Result, error) {
	pms, err := kml.Read(data, kml.KindFromFilename(filename))
	if err != nil {
		return nil, err
	}
	if len(pms) == 0 {
		return nil, ErrEmptyInput
	}

	t := PlacemarkTable(pms, layout)
	if t.Len() == 0 {
		return nil, ErrEmptyInput
	}

	sheet, outName := c.cfg.SheetName, baseName(filename)+".xlsx"
	if layout == LayoutDescriptions {
		sheet, outName = c.cfg.DescriptionSheetName, "deskripsi_kml.xlsx"
	}

	var buf bytes.Buffer
	if err := table.WriteXLSX(&buf, sheet, t); err != nil {
		return nil, fmt.Errorf("writing spreadsheet: %w", err)
	}

	log.Debug().
		Str("file", filename).
		Str("layout", layout.String()).
		Int("placemarks", len(pms)).
		Int("rows", t.Len()).
		Msg("KML exported to spreadsheet")

	return &Result{
		Data:      buf.Bytes(),
		Filename:  outName,
		MediaType: MediaTypeXLSX,
		Emitted:   t.Len(),
		Skipped:   len(pms) - t.Len(),
	}, nil
}

// TableToKML reads a CSV or XLSX file and writes its rows as KML placemarks.
func (c *Converter) TableToKML(data []byte, filename string, m kml.Mapping) (*Result, error) {
	t, err := table.Read(data, filename)
	if err != nil {
		return nil, err
	}

	return c.WriteTable(t, m, baseName(filename))
}

// WriteTable converts an already parsed table. name is used for the output
// file and, unless configured otherwise, for the document.
func (c *Converter) WriteTable(t *table.Table, m kml.Mapping, name string) (*Result, error) {
	doc, stats, err := c.document(t, m, name)
	if err != nil {
		return nil, err
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding KML: %w", err)
	}

	return &Result{
		Data:      data,
		Filename:  name + ".kml",
		MediaType: MediaTypeKML,
		Emitted:   stats.Emitted,
		Skipped:   stats.Skipped,
		Folders:   stats.Folders,
		Extent:    stats.Extent,
	}, nil
}

func (c *Converter) document(t *table.Table, m kml.Mapping, name string) (*kml.Document, kml.WriteStats, error) {
	var stats kml.WriteStats
	if t.Len() == 0 {
		return nil, stats, ErrEmptyInput
	}

	rows := t
	if c.cfg.StrictValidate {
		var err error
		rows, err = table.Validate(t, m.Lat, m.Lon, table.ValidateOptions{CheckBounds: true})
		if err != nil {
			return nil, stats, err
		}
	}

	docName := c.cfg.DocumentName
	if docName == "" {
		docName = name
	}

	doc, stats, err := kml.Write(rows, m, kml.WriteOptions{
		DocumentName: docName,
		FolderLabel:  c.cfg.FolderLabel,
		Minify:       c.cfg.MinifyDescription,
	})
	if err != nil {
		return nil, stats, err
	}
	stats.Skipped += t.Len() - rows.Len()

	log.Debug().
		Str("document", docName).
		Int("rows", t.Len()).
		Int("emitted", stats.Emitted).
		Int("skipped", stats.Skipped).
		Int("folders", stats.Folders).
		Msg("Table written as KML")

	if stats.Emitted == 0 {
		return nil, stats, ErrNoValidCoordinates
	}

	return doc, stats, nil
}

func baseName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "placemarks"
	}
	return base
}
