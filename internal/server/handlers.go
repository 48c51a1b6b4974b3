// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/kmlsheet/internal/convert"
	"github.com/woozymasta/kmlsheet/internal/kml"
	"github.com/woozymasta/kmlsheet/internal/metrics"
	"github.com/woozymasta/kmlsheet/internal/table"
)

// Metric direction labels.
const (
	dirKMLToXLSX    = "kml_to_xlsx"
	dirTableToKML   = "table_to_kml"
	dirKMLPreview   = "kml_preview"
	dirTablePreview = "table_preview"
	dirInspect      = "table_inspect"
)

// HandleKMLToXLSX converts an uploaded KML or KMZ into a workbook download.
// The layout query parameter selects full or descriptions.
func (s *ServerContext) HandleKMLToXLSX(w http.ResponseWriter, r *http.Request) {
	layout, err := convert.ParseLayout(r.URL.Query().Get("layout"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_layout", err.Error())
		return
	}

	up, ok := s.upload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.Converter.KMLToXLSX(up.Data, up.Name, layout)
	observe(dirKMLToXLSX, start, res, err)
	if err != nil {
		s.fail(w, up, err)
		return
	}

	writeFile(w, res)
}

// HandleKMLPreview returns the placemarks of an uploaded KML or KMZ as GeoJSON.
func (s *ServerContext) HandleKMLPreview(w http.ResponseWriter, r *http.Request) {
	up, ok := s.upload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	data, err := s.Converter.Preview(up.Data, up.Name)
	observe(dirKMLPreview, start, nil, err)
	if err != nil {
		s.fail(w, up, err)
		return
	}

	w.Header().Set("Content-Type", convert.MediaTypeGeoJSON)
	_, _ = w.Write(data)
}

// HandleTableInspect lists the columns of an uploaded CSV or XLSX with
// suggested roles and the first rows.
func (s *ServerContext) HandleTableInspect(w http.ResponseWriter, r *http.Request) {
	up, ok := s.upload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ins, err := s.Converter.Inspect(up.Data, up.Name)
	observe(dirInspect, start, nil, err)
	if err != nil {
		s.fail(w, up, err)
		return
	}

	writeJSON(w, http.StatusOK, ins)
}

// HandleTableToKML converts an uploaded CSV or XLSX into a KML download
// using the column roles sent as form fields.
func (s *ServerContext) HandleTableToKML(w http.ResponseWriter, r *http.Request) {
	up, ok := s.upload(w, r)
	if !ok {
		return
	}

	m, ok := mappingFromForm(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.Converter.TableToKML(up.Data, up.Name, m)
	observe(dirTableToKML, start, res, err)
	if err != nil {
		s.fail(w, up, err)
		return
	}
	metrics.SkippedRowsTotal.Add(float64(res.Skipped))

	w.Header().Set("X-Folders", strconv.Itoa(res.Folders))
	writeFile(w, res)
}

// HandleTablePreview returns the points a table conversion would produce as GeoJSON.
func (s *ServerContext) HandleTablePreview(w http.ResponseWriter, r *http.Request) {
	up, ok := s.upload(w, r)
	if !ok {
		return
	}

	m, ok := mappingFromForm(w, r)
	if !ok {
		return
	}

	start := time.Now()
	data, err := s.Converter.PreviewTable(up.Data, up.Name, m)
	observe(dirTablePreview, start, nil, err)
	if err != nil {
		s.fail(w, up, err)
		return
	}

	w.Header().Set("Content-Type", convert.MediaTypeGeoJSON)
	_, _ = w.Write(data)
}

// HandleHealth reports liveness.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func mappingFromForm(w http.ResponseWriter, r *http.Request) (kml.Mapping, bool) {
	m := kml.Mapping{
		Name:        r.FormValue("name"),
		Lat:         r.FormValue("lat"),
		Lon:         r.FormValue("lon"),
		Group:       r.FormValue("group"),
		Description: r.Form["desc"],
	}

	if m.Name == "" || m.Lat == "" || m.Lon == "" {
		writeError(w, http.StatusBadRequest, "missing_mapping", "Select the name, latitude and longitude columns.")
		return m, false
	}

	return m, true
}

// fail logs a conversion error and writes it as JSON.
func (s *ServerContext) fail(w http.ResponseWriter, up *uploadedFile, err error) {
	code := statusFor(err)

	event := log.Warn()
	if code == http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("file", up.Name).
		Int("size", len(up.Data)).
		Msg("Conversion failed")

	writeError(w, code, convert.Code(err), convert.Message(err))
}

func statusFor(err error) int {
	var pe *kml.ParseError
	switch {
	case errors.Is(err, table.ErrUnsupportedFormat), errors.Is(err, table.ErrUnknownColumn):
		return http.StatusBadRequest
	case errors.As(err, &pe),
		errors.Is(err, kml.ErrNoDocumentInArchive),
		errors.Is(err, table.ErrNoHeader),
		errors.Is(err, convert.ErrEmptyInput),
		errors.Is(err, convert.ErrNoValidCoordinates):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func observe(direction string, start time.Time, res *convert.Result, err error) {
	outcome := "ok"
	if err != nil {
		outcome = convert.Code(err)
	}

	metrics.ConversionsTotal.WithLabelValues(direction, outcome).Inc()
	metrics.ConversionDurationMs.WithLabelValues(direction).Observe(float64(time.Since(start).Milliseconds()))
	if res != nil {
		metrics.PlacemarksTotal.WithLabelValues(direction).Add(float64(res.Emitted))
	}
}

// writeFile sends a conversion result as a download.
func writeFile(w http.ResponseWriter, res *convert.Result) {
	w.Header().Set("Content-Type", res.MediaType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("X-Placemarks-Emitted", strconv.Itoa(res.Emitted))
	w.Header().Set("X-Rows-Skipped", strconv.Itoa(res.Skipped))
	_, _ = w.Write(res.Data)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, map[string]string{"error": msg, "code": errCode})
}
