package main

import (
	"os"

	"github.com/woozymasta/kmlsheet/internal/config"
	"github.com/woozymasta/kmlsheet/internal/convert"
	"github.com/woozymasta/kmlsheet/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file (defaults are used when empty)"`

	ToXLSX  ToXLSXCommand  `command:"to-xlsx" description:"Export KML/KMZ placemarks to a spreadsheet"`
	ToKML   ToKMLCommand   `command:"to-kml"  description:"Write CSV/XLSX rows as KML placemarks"`
	Inspect InspectCommand `command:"inspect" description:"List columns and suggested roles of a CSV/XLSX file"`
	Preview PreviewCommand `command:"preview" description:"Print placemarks of a KML/KMZ or CSV/XLSX file as GeoJSON"`
	Batch   BatchCommand   `command:"batch"   description:"Convert many files concurrently"`
}

var (
	opts Options
	cfg  *config.Config
)

func main() {
	_ = godotenv.Load(".env")

	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		opts.Logger.Setup()

		var err error
		cfg, err = config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		if err := cmd.Execute(args); err != nil {
			log.Fatal().Str("code", convert.Code(err)).Err(err).Msg(convert.Message(err))
		}
		return nil
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
