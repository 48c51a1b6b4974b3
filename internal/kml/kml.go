// Package kml reads placemarks from KML/KMZ documents and writes tabular
// rows back out as KML.
package kml

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/woozymasta/kmlsheet/internal/geo"
)

// Namespace is the KML 2.2 namespace used for written documents.
const Namespace = "http://www.opengis.net/kml/2.2"

// namespaces lists the namespaces whose Placemark elements are read.
var namespaces = map[string]bool{
	Namespace:                         true,
	"http://earth.google.com/kml/2.0": true,
	"http://earth.google.com/kml/2.1": true,
	"http://earth.google.com/kml/2.2": true,
}

// ErrNoDocumentInArchive is returned when a KMZ holds no .kml member.
var ErrNoDocumentInArchive = errors.New("no KML document found in archive")

// ParseError wraps a failure to decode the input document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parsing KML: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ContainerKind tells Read whether the input is zipped.
type ContainerKind int

const (
	ContainerDocument ContainerKind = iota
	ContainerArchive
)

// KindFromFilename returns ContainerArchive for .kmz files.
func KindFromFilename(name string) ContainerKind {
	if strings.EqualFold(filepath.Ext(name), ".kmz") {
		return ContainerArchive
	}
	return ContainerDocument
}

// Placemark is a named, described geometry.
type Placemark struct {
	Name        string
	Description string
	Geometry    geo.Geometry
}

// Folder is a named group of placemarks.
type Folder struct {
	Name       string
	Placemarks []Placemark
}

// Document is a KML document holding either flat placemarks or folders.
type Document struct {
	Name       string
	Placemarks []Placemark
	Folders    []Folder
}

// Count returns the number of placemarks in the document, folders included.
func (d *Document) Count() int {
	n := len(d.Placemarks)
	for _, f := range d.Folders {
		n += len(f.Placemarks)
	}
	return n
}

// Features flattens the document for the map preview.
func (d *Document) Features() []geo.Feature {
	out := make([]geo.Feature, 0, d.Count())
	for _, p := range d.Placemarks {
		out = append(out, geo.Feature{Name: p.Name, Geometry: p.Geometry})
	}
	for _, f := range d.Folders {
		for _, p := range f.Placemarks {
			out = append(out, geo.Feature{Name: p.Name, Geometry: p.Geometry})
		}
	}
	return out
}
