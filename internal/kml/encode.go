package kml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/woozymasta/kmlsheet/internal/geo"
)

// Encode writes the document as indented, UTF-8 KML 2.2.
func (d *Document) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d.out()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// Bytes returns the encoded document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) out() kmlOut {
	doc := documentOut{
		Name:       d.Name,
		Placemarks: placemarksOut(d.Placemarks),
	}
	for _, f := range d.Folders {
		doc.Folders = append(doc.Folders, folderOut{
			Name:       f.Name,
			Placemarks: placemarksOut(f.Placemarks),
		})
	}

	return kmlOut{Xmlns: Namespace, Document: doc}
}

func placemarksOut(in []Placemark) []placemarkOut {
	out := make([]placemarkOut, 0, len(in))
	for _, p := range in {
		pm := placemarkOut{Name: p.Name}
		if p.Description != "" {
			pm.Description = &cdataOut{Text: xmlSafe(p.Description)}
		}

		switch g := p.Geometry.(type) {
		case geo.Point:
			pm.Point = &pointXML{Coordinates: g.Raw}
		case geo.Polygon:
			pm.Polygon = &polygonXML{OuterBoundaryIs: &boundaryXML{
				LinearRing: &linearRingXML{Coordinates: g.Outer},
			}}
		case geo.LineString:
			pm.LineString = &lineStringXML{Coordinates: g.Raw}
		}

		out = append(out, pm)
	}
	return out
}

// xmlSafe drops characters that XML 1.0 does not allow. CDATA sections are
// written verbatim, so they have to be clean beforehand.
func xmlSafe(s string) string {
	clean := true
	for _, r := range s {
		if !isXMLChar(r) {
			clean = false
			break
		}
	}
	if clean && utf8.ValidString(s) {
		return s
	}

	return strings.Map(func(r rune) rune {
		if r == utf8.RuneError || !isXMLChar(r) {
			return -1
		}
		return r
	}, s)
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
