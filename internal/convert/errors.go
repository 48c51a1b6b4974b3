package convert

import (
	"errors"

	"github.com/woozymasta/kmlsheet/internal/kml"
	"github.com/woozymasta/kmlsheet/internal/table"
)

// Code returns a stable identifier for an error kind.
func Code(err error) string {
	var pe *kml.ParseError
	switch {
	case errors.Is(err, kml.ErrNoDocumentInArchive):
		return "no_document_in_archive"
	case errors.As(err, &pe):
		return "parse_error"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrNoValidCoordinates):
		return "no_valid_coordinates"
	case errors.Is(err, table.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, table.ErrNoHeader):
		return "no_header"
	case errors.Is(err, table.ErrUnknownColumn):
		return "unknown_column"
	default:
		return "conversion_failed"
	}
}

// Message returns text suitable for showing to the person who uploaded the file.
func Message(err error) string {
	var pe *kml.ParseError
	switch {
	case errors.Is(err, kml.ErrNoDocumentInArchive):
		return "No KML document was found inside the KMZ archive."
	case errors.As(err, &pe):
		return "The KML document could not be parsed: " + pe.Err.Error()
	case errors.Is(err, ErrEmptyInput):
		return "The file contains no data."
	case errors.Is(err, ErrNoValidCoordinates):
		return "0 points created: no row has valid latitude and longitude values."
	case errors.Is(err, table.ErrUnsupportedFormat):
		return "Unsupported file type. Upload a CSV or XLSX file."
	case errors.Is(err, table.ErrNoHeader):
		return "The file has no header row."
	case errors.Is(err, table.ErrUnknownColumn):
		return "A selected column does not exist: " + err.Error()
	default:
		return "Conversion failed: " + err.Error()
	}
}
