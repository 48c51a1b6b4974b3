package kml

import (
	"encoding/xml"

	"github.com/woozymasta/kmlsheet/internal/geo"
)

// XML shapes shared by the reader and the encoder.

type placemarkXML struct {
	Name        string         `xml:"name"`
	Description string         `xml:"description"`
	Point       *pointXML      `xml:"Point"`
	Polygon     *polygonXML    `xml:"Polygon"`
	LineString  *lineStringXML `xml:"LineString"`
}

type pointXML struct {
	Coordinates string `xml:"coordinates"`
}

type lineStringXML struct {
	Coordinates string `xml:"coordinates"`
}

type polygonXML struct {
	OuterBoundaryIs *boundaryXML `xml:"outerBoundaryIs"`
}

type boundaryXML struct {
	LinearRing *linearRingXML `xml:"LinearRing"`
}

type linearRingXML struct {
	Coordinates string `xml:"coordinates"`
}

// geometry picks the placemark geometry, Point first, then Polygon,
// then LineString.
func (p *placemarkXML) geometry() geo.Geometry {
	switch {
	case p.Point != nil:
		return geo.Point{Raw: geo.NormalizeCoordinates(p.Point.Coordinates)}
	case p.Polygon != nil:
		var outer string
		if b := p.Polygon.OuterBoundaryIs; b != nil && b.LinearRing != nil {
			outer = b.LinearRing.Coordinates
		}
		return geo.Polygon{Outer: geo.NormalizeCoordinates(outer)}
	case p.LineString != nil:
		return geo.LineString{Raw: geo.NormalizeCoordinates(p.LineString.Coordinates)}
	default:
		return geo.Unknown{}
	}
}

// Output only shapes: descriptions go out as CDATA.

type kmlOut struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document documentOut `xml:"Document"`
}

type documentOut struct {
	Name       string         `xml:"name,omitempty"`
	Folders    []folderOut    `xml:"Folder"`
	Placemarks []placemarkOut `xml:"Placemark"`
}

type folderOut struct {
	Name       string         `xml:"name"`
	Placemarks []placemarkOut `xml:"Placemark"`
}

type placemarkOut struct {
	Name        string         `xml:"name"`
	Description *cdataOut      `xml:"description"`
	Point       *pointXML      `xml:"Point"`
	Polygon     *polygonXML    `xml:"Polygon"`
	LineString  *lineStringXML `xml:"LineString"`
}

type cdataOut struct {
	Text string `xml:",cdata"`
}
