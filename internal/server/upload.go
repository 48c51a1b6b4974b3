package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/kmlsheet/internal/metrics"
)

const (
	uploadField     = "file"
	multipartMemory = 8 << 20
)

type uploadedFile struct {
	Name string
	Data []byte
}

// upload reads the file field of a multipart request, enforcing the size
// limit. On failure the error response is already written.
func (s *ServerContext) upload(w http.ResponseWriter, r *http.Request) (*uploadedFile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", "The uploaded file is too large.")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "bad_request", "Expected a multipart form upload.")
		return nil, false
	}

	f, hdr, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "No file was uploaded.")
		return nil, false
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		log.Error().Err(err).Str("file", hdr.Filename).Msg("Failed to read upload")
		writeError(w, http.StatusBadRequest, "bad_request", "The uploaded file could not be read.")
		return nil, false
	}

	metrics.UploadBytes.Observe(float64(len(data)))

	return &uploadedFile{Name: filepath.Base(hdr.Filename), Data: data}, true
}
