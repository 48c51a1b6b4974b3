package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/kmlsheet/internal/config"
	"github.com/woozymasta/kmlsheet/internal/convert"
	"github.com/woozymasta/kmlsheet/internal/metrics"
)

const megabyte = 1 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config         *config.Config
	Converter      *convert.Converter
	MaxUploadBytes int64
}

// NewServerContext builds the converter and upload limit from cfg.
func NewServerContext(cfg *config.Config) *ServerContext {
	limit := cfg.Server.MaxUploadMB * megabyte
	if limit <= 0 {
		limit = config.Default().Server.MaxUploadMB * megabyte
	}

	log.Info().
		Int64("max_upload_bytes", limit).
		Bool("strict_validate", cfg.Convert.StrictValidate).
		Str("folder_label", cfg.Convert.FolderLabel).
		Msg("Server context initialized")

	return &ServerContext{
		Config:         cfg,
		Converter:      convert.New(cfg.Convert),
		MaxUploadBytes: limit,
	}
}

// Routes registers every endpoint and wraps the mux with request logging.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/kml/xlsx", s.HandleKMLToXLSX)
	mux.HandleFunc("POST /api/kml/geojson", s.HandleKMLPreview)
	mux.HandleFunc("POST /api/table/inspect", s.HandleTableInspect)
	mux.HandleFunc("POST /api/table/kml", s.HandleTableToKML)
	mux.HandleFunc("POST /api/table/geojson", s.HandleTablePreview)
	mux.HandleFunc("GET /healthz", s.HandleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	return RequestLogger(mux)
}
