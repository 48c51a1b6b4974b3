package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/kmlsheet/internal/config"
	"github.com/woozymasta/kmlsheet/internal/logger"
	"github.com/woozymasta/kmlsheet/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"        env:"CONFIG_FILE"    description:"Path to configuration file (defaults are used when empty)"`
	Addr        string `short:"a" long:"addr"          env:"LISTEN_ADDRESS" description:"Address to listen on"           default:"0.0.0.0"`
	Port        int    `short:"p" long:"port"          env:"LISTEN_PORT"    description:"Port to listen on"              default:"8080"`
	MaxUploadMB int64  `short:"m" long:"max-upload-mb" env:"MAX_UPLOAD_MB"  description:"Override upload size limit in MB"`
}

func main() {
	_ = godotenv.Load(".env")

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.MaxUploadMB > 0 {
		cfg.Server.MaxUploadMB = opts.MaxUploadMB
	}

	srvCtx := server.NewServerContext(cfg)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Str("config", opts.ConfigFile).
		Int64("max_upload_mb", cfg.Server.MaxUploadMB).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
