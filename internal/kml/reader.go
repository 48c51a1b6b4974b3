package kml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Read returns the placemarks of a KML document, or of the first .kml member
// of a KMZ archive, in document order.
func Read(data []byte, kind ContainerKind) ([]Placemark, error) {
	if kind == ContainerArchive {
		_, doc, err := extract(data)
		if err != nil {
			return nil, err
		}
		data = doc
	}

	return parse(bytes.NewReader(data))
}

// ArchiveMember returns the name of the member Read would use from a KMZ.
func ArchiveMember(data []byte) (string, error) {
	name, _, err := extract(data)
	return name, err
}

func extract(data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, &ParseError{Err: fmt.Errorf("opening archive: %w", err)}
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".kml") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", nil, &ParseError{Err: fmt.Errorf("opening %s: %w", f.Name, err)}
		}
		defer func() { _ = rc.Close() }()

		doc, err := io.ReadAll(rc)
		if err != nil {
			return "", nil, &ParseError{Err: fmt.Errorf("reading %s: %w", f.Name, err)}
		}

		return f.Name, doc, nil
	}

	return "", nil, ErrNoDocumentInArchive
}

func parse(r io.Reader) ([]Placemark, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	placemarks := make([]Placemark, 0)
	hasRoot, rootClosed := false, false
	depth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		if _, ok := tok.(xml.EndElement); ok {
			depth--
			rootClosed = depth == 0
			continue
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if rootClosed {
			return nil, &ParseError{Err: fmt.Errorf("element <%s> after the root element", se.Name.Local)}
		}
		hasRoot = true

		if se.Name.Local != "Placemark" || !namespaces[se.Name.Space] {
			depth++
			continue
		}

		var p placemarkXML
		if err := dec.DecodeElement(&p, &se); err != nil {
			return nil, &ParseError{Err: err}
		}

		rootClosed = depth == 0

		placemarks = append(placemarks, Placemark{
			Name:        strings.TrimSpace(p.Name),
			Description: description(p.Description),
			Geometry:    p.geometry(),
		})
	}

	if !hasRoot {
		return nil, &ParseError{Err: errors.New("document has no root element")}
	}

	return placemarks, nil
}

// description keeps the text as written; whitespace-only means no description.
func description(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
