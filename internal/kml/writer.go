package kml

import (
	"html"
	"strings"

	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
	"github.com/woozymasta/kmlsheet/internal/geo"
	"github.com/woozymasta/kmlsheet/internal/table"
)

// DefaultFolderLabel prefixes folder names built from the group column.
const DefaultFolderLabel = "STO "

// Mapping assigns table columns to placemark roles.
// Group is optional; Description may be empty.
type Mapping struct {
	Name        string   `json:"name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	Description []string `json:"description,omitempty"`
	Group       string   `json:"group,omitempty"`
}

// WriteOptions controls document naming and description rendering.
type WriteOptions struct {
	DocumentName string
	FolderLabel  string
	Minify       bool
}

// WriteStats reports what Write emitted.
type WriteStats struct {
	Emitted int
	Skipped int
	Folders int
	Extent  geo.Extent
}

type columns struct {
	name, lat, lon, group int
	desc                  []int
}

func resolve(t *table.Table, m Mapping) (columns, error) {
	var c columns
	var err error

	if c.name, err = t.MustIndex(m.Name); err != nil {
		return c, err
	}
	if c.lat, err = t.MustIndex(m.Lat); err != nil {
		return c, err
	}
	if c.lon, err = t.MustIndex(m.Lon); err != nil {
		return c, err
	}

	c.group = -1
	if m.Group != "" {
		if c.group, err = t.MustIndex(m.Group); err != nil {
			return c, err
		}
	}

	c.desc = make([]int, len(m.Description))
	for i, col := range m.Description {
		if c.desc[i], err = t.MustIndex(col); err != nil {
			return c, err
		}
	}

	return c, nil
}

// Write turns every row into a point placemark at (lon, lat). Rows with non
// numeric or out of range coordinates are skipped and counted. With a group
// column, placemarks go into one folder per distinct value, in order of first
// appearance.
func Write(t *table.Table, m Mapping, opts WriteOptions) (*Document, WriteStats, error) {
	var stats WriteStats

	cols, err := resolve(t, m)
	if err != nil {
		return nil, stats, err
	}

	label := opts.FolderLabel
	if label == "" {
		label = DefaultFolderLabel
	}

	var mini *minify.M
	if opts.Minify {
		mini = minify.New()
		mini.Add("text/html", &minhtml.Minifier{
			KeepDefaultAttrVals: true,
			KeepEndTags:         true,
			KeepQuotes:          true,
		})
	}

	doc := &Document{Name: opts.DocumentName}
	folderIdx := make(map[string]int)

	for _, row := range t.Rows {
		lat, ok1 := table.ParseCoordinate(table.Cell(row, cols.lat))
		lon, ok2 := table.ParseCoordinate(table.Cell(row, cols.lon))
		if !ok1 || !ok2 || !geo.InRange(lat, lon) {
			stats.Skipped++
			continue
		}

		pm := Placemark{
			Name:        table.Cell(row, cols.name),
			Description: describe(t.Header, row, cols.desc, mini),
			Geometry:    geo.NewPoint(lon, lat),
		}
		stats.Emitted++
		stats.Extent.Add(lon, lat)

		if cols.group < 0 {
			doc.Placemarks = append(doc.Placemarks, pm)
			continue
		}

		key := table.Cell(row, cols.group)
		i, ok := folderIdx[key]
		if !ok {
			i = len(doc.Folders)
			folderIdx[key] = i
			doc.Folders = append(doc.Folders, Folder{Name: label + key})
		}
		doc.Folders[i].Placemarks = append(doc.Folders[i].Placemarks, pm)
	}

	stats.Folders = len(doc.Folders)

	return doc, stats, nil
}

// describe renders the description columns as a two column HTML table.
func describe(header, row []string, idxs []int, mini *minify.M) string {
	var b strings.Builder
	b.WriteString(`<table border="1" cellpadding="2" cellspacing="0" width="300">`)
	for _, idx := range idxs {
		b.WriteString("<tr><td><b>")
		b.WriteString(html.EscapeString(table.Cell(header, idx)))
		b.WriteString("</b></td><td>")
		b.WriteString(html.EscapeString(table.Cell(row, idx)))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</table>")

	out := b.String()
	if mini != nil {
		if s, err := mini.String("text/html", out); err == nil {
			out = s
		}
	}

	return out
}
