package kml

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/woozymasta/kmlsheet/internal/geo"
	"github.com/woozymasta/kmlsheet/internal/table"
)

func odpTable() *table.Table {
	return &table.Table{
		Header: []string{"name", "lat", "lon", "sto", "port"},
		Rows: [][]string{
			{"A", "10", "20", "X", "8"},
			{"B", "abc", "30", "X", "4"},
			{"C", "-6.5", "106.25", "X", "16"},
			{"D", "1", "2", "Y", "<8>"},
			{"E", "95", "2", "Z", "0"},
		},
	}
}

func TestWriteFlat(t *testing.T) {
	doc, stats, err := Write(odpTable(), Mapping{Name: "name", Lat: "lat", Lon: "lon"}, WriteOptions{DocumentName: "odp"})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if stats.Emitted != 3 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 3 emitted, 2 skipped", stats)
	}
	if len(doc.Folders) != 0 || len(doc.Placemarks) != 3 {
		t.Fatalf("document has %d folders, %d placemarks", len(doc.Folders), len(doc.Placemarks))
	}

	names := []string{"A", "C", "D"}
	coords := []string{"20,10", "106.25,-6.5", "2,1"}
	for i, p := range doc.Placemarks {
		if p.Name != names[i] {
			t.Errorf("[%d] Name = %q, want %q", i, p.Name, names[i])
		}
		if p.Geometry.Coordinates() != coords[i] {
			t.Errorf("[%d] Coordinates = %q, want %q", i, p.Geometry.Coordinates(), coords[i])
		}
	}

	if bbox := stats.Extent.BBox(); bbox[0] != 2 || bbox[3] != 10 {
		t.Errorf("Extent = %v", bbox)
	}
}

func TestWriteScenario(t *testing.T) {
	src := &table.Table{
		Header: []string{"name", "lat", "lon"},
		Rows:   [][]string{{"A", "10", "20"}, {"B", "abc", "30"}},
	}

	valid, err := table.Validate(src, "lat", "lon", table.ValidateOptions{CheckBounds: true})
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if valid.Len() != 1 || valid.Rows[0][0] != "A" {
		t.Fatalf("Validate() rows = %v, want only A", valid.Rows)
	}

	doc, stats, err := Write(valid, Mapping{Name: "name", Lat: "lat", Lon: "lon"}, WriteOptions{})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if stats.Emitted != 1 {
		t.Fatalf("Emitted = %d, want 1", stats.Emitted)
	}

	pos, err := doc.Placemarks[0].Geometry.(geo.Point).Position()
	if err != nil {
		t.Fatalf("Position() error: %v", err)
	}
	if pos.Lon() != 20 || pos.Lat() != 10 {
		t.Errorf("position = %v, want (20, 10)", pos)
	}
}

func TestWriteGrouped(t *testing.T) {
	doc, stats, err := Write(odpTable(), Mapping{Name: "name", Lat: "lat", Lon: "lon", Group: "sto"}, WriteOptions{})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if len(doc.Placemarks) != 0 {
		t.Errorf("grouped document has %d root placemarks", len(doc.Placemarks))
	}
	// Z only holds an out of range row, so it never gets a folder.
	if stats.Folders != 2 || len(doc.Folders) != 2 {
		t.Fatalf("folders = %d, want 2", len(doc.Folders))
	}
	if doc.Folders[0].Name != "STO X" || doc.Folders[1].Name != "STO Y" {
		t.Errorf("folder names = %q, %q", doc.Folders[0].Name, doc.Folders[1].Name)
	}
	if len(doc.Folders[0].Placemarks) != 2 || len(doc.Folders[1].Placemarks) != 1 {
		t.Errorf("folder sizes = %d, %d", len(doc.Folders[0].Placemarks), len(doc.Folders[1].Placemarks))
	}
	if doc.Folders[0].Placemarks[0].Name != "A" || doc.Folders[0].Placemarks[1].Name != "C" {
		t.Error("placemarks inside a folder must keep input order")
	}
	if doc.Count() != stats.Emitted {
		t.Errorf("Count() = %d, Emitted = %d", doc.Count(), stats.Emitted)
	}
}

func TestWriteGroupKeysAreExact(t *testing.T) {
	src := &table.Table{
		Header: []string{"n", "lat", "lon", "g"},
		Rows: [][]string{
			{"1", "0", "0", "X"},
			{"2", "0", "0", "x"},
			{"3", "0", "0", "X "},
			{"4", "0", "0", "X"},
			{"5", "0", "0", "Y"},
		},
	}

	doc, _, err := Write(src, Mapping{Name: "n", Lat: "lat", Lon: "lon", Group: "g"}, WriteOptions{FolderLabel: "Site: "})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	want := []string{"Site: X", "Site: x", "Site: X ", "Site: Y"}
	if len(doc.Folders) != len(want) {
		t.Fatalf("folders = %d, want %d", len(doc.Folders), len(want))
	}
	total := 0
	for i, f := range doc.Folders {
		if f.Name != want[i] {
			t.Errorf("[%d] folder = %q, want %q", i, f.Name, want[i])
		}
		total += len(f.Placemarks)
	}
	if total != len(src.Rows) {
		t.Errorf("grouped %d rows, want %d", total, len(src.Rows))
	}
}

func TestWriteDescription(t *testing.T) {
	doc, _, err := Write(odpTable(), Mapping{
		Name:        "name",
		Lat:         "lat",
		Lon:         "lon",
		Description: []string{"port", "sto"},
	}, WriteOptions{})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	desc := doc.Placemarks[0].Description
	wantDesc := `<table border="1" cellpadding="2" cellspacing="0" width="300">` +
		`<tr><td><b>port</b></td><td>8</td></tr>` +
		`<tr><td><b>sto</b></td><td>X</td></tr></table>`
	if desc != wantDesc {
		t.Errorf("Description = %q, want %q", desc, wantDesc)
	}

	if !strings.Contains(doc.Placemarks[2].Description, "<td>&lt;8&gt;</td>") {
		t.Errorf("values must be escaped: %q", doc.Placemarks[2].Description)
	}
}

func TestWriteEmptyDescription(t *testing.T) {
	doc, _, err := Write(odpTable(), Mapping{Name: "name", Lat: "lat", Lon: "lon"}, WriteOptions{})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	desc := doc.Placemarks[0].Description
	if !strings.HasPrefix(desc, "<table") || !strings.HasSuffix(desc, "</table>") || strings.Contains(desc, "<tr>") {
		t.Errorf("Description = %q, want an empty table", desc)
	}
}

func TestWriteMinify(t *testing.T) {
	src := &table.Table{
		Header: []string{"n", "lat", "lon", "note"},
		Rows:   [][]string{{"a", "1", "1", "two   spaces"}},
	}

	doc, _, err := Write(src, Mapping{Name: "n", Lat: "lat", Lon: "lon", Description: []string{"note"}}, WriteOptions{Minify: true})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	desc := doc.Placemarks[0].Description
	if !strings.Contains(desc, "two spaces") || !strings.Contains(desc, "</table>") {
		t.Errorf("minified Description = %q", desc)
	}
}

func TestWriteUnknownColumn(t *testing.T) {
	tests := []Mapping{
		{Name: "missing", Lat: "lat", Lon: "lon"},
		{Name: "name", Lat: "y", Lon: "lon"},
		{Name: "name", Lat: "lat", Lon: "lon", Group: "nope"},
		{Name: "name", Lat: "lat", Lon: "lon", Description: []string{"port", "nope"}},
	}

	for _, m := range tests {
		if _, _, err := Write(odpTable(), m, WriteOptions{}); !errors.Is(err, table.ErrUnknownColumn) {
			t.Errorf("Write(%+v) error = %v, want ErrUnknownColumn", m, err)
		}
	}
}

func TestWriteBoundsInclusive(t *testing.T) {
	src := &table.Table{
		Header: []string{"n", "lat", "lon"},
		Rows: [][]string{
			{"edge", "90", "180"},
			{"south", "-90", "-180"},
			{"over", "90.0001", "0"},
			{"inf", "Inf", "0"},
		},
	}

	doc, stats, err := Write(src, Mapping{Name: "n", Lat: "lat", Lon: "lon"}, WriteOptions{})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if stats.Emitted != 2 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 2 emitted, 2 skipped", stats)
	}
	if doc.Placemarks[0].Geometry.Coordinates() != "180,90" {
		t.Errorf("edge coordinates = %q", doc.Placemarks[0].Geometry.Coordinates())
	}
}

func TestPointRoundTrip(t *testing.T) {
	pms, err := Read([]byte(sampleKML), ContainerDocument)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	src := &table.Table{Header: []string{"Name", "Latitude", "Longitude"}}
	var want [][2]float64
	for _, p := range pms {
		pt, ok := p.Geometry.(geo.Point)
		if !ok {
			continue
		}
		pos, err := pt.Position()
		if err != nil {
			t.Fatalf("Position() error: %v", err)
		}
		want = append(want, [2]float64{pos.Lon(), pos.Lat()})
		src.Rows = append(src.Rows, []string{
			p.Name,
			strconv.FormatFloat(pos.Lat(), 'f', -1, 64),
			strconv.FormatFloat(pos.Lon(), 'f', -1, 64),
		})
	}

	doc, _, err := Write(src, Mapping{Name: "Name", Lat: "Latitude", Lon: "Longitude"}, WriteOptions{})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	back, err := Read(data, ContainerDocument)
	if err != nil {
		t.Fatalf("Read(written) error: %v", err)
	}
	if len(back) != len(want) {
		t.Fatalf("read back %d placemarks, want %d", len(back), len(want))
	}

	for i, p := range back {
		pos, err := p.Geometry.(geo.Point).Position()
		if err != nil {
			t.Fatalf("Position() error: %v", err)
		}
		if math.Abs(pos.Lon()-want[i][0]) > 1e-9 || math.Abs(pos.Lat()-want[i][1]) > 1e-9 {
			t.Errorf("[%d] position = %v, want %v", i, pos, want[i])
		}
	}
}
