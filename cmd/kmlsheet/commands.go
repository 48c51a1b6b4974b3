package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/woozymasta/kmlsheet/internal/convert"
	"github.com/woozymasta/kmlsheet/internal/kml"
	"github.com/woozymasta/kmlsheet/internal/processor"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type inputArgs struct {
	Input string `positional-arg-name:"FILE" required:"yes"`
}

// OutputOptions is shared by commands producing a single file.
type OutputOptions struct {
	Output string `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
}

// MappingOptions selects table columns. Empty latitude or longitude means
// the suggested columns are used.
type MappingOptions struct {
	Name        string   `long:"name"  description:"Placemark name column"`
	Lat         string   `long:"lat"   description:"Latitude column"`
	Lon         string   `long:"lon"   description:"Longitude column"`
	Group       string   `long:"group" description:"Column to group placemarks into folders"`
	Description []string `long:"desc"  description:"Column to include in the description table (repeatable)"`
}

func (m MappingOptions) mapping() kml.Mapping {
	return kml.Mapping{
		Name:        m.Name,
		Lat:         m.Lat,
		Lon:         m.Lon,
		Group:       m.Group,
		Description: m.Description,
	}
}

// WriterOptions override the configured KML writer settings.
type WriterOptions struct {
	FolderLabel  string `long:"folder-label"  description:"Prefix for group folder names"`
	DocumentName string `long:"document-name" description:"Name of the KML document"`
	Minify       bool   `long:"minify"        description:"Minify description HTML"`
	NoStrict     bool   `long:"no-strict"     description:"Skip the validation pass before writing"`
}

func (w WriterOptions) converter() *convert.Converter {
	c := cfg.Convert
	if w.FolderLabel != "" {
		c.FolderLabel = w.FolderLabel
	}
	if w.DocumentName != "" {
		c.DocumentName = w.DocumentName
	}
	if w.Minify {
		c.MinifyDescription = true
	}
	if w.NoStrict {
		c.StrictValidate = false
	}
	return convert.New(c)
}

type ToXLSXCommand struct {
	OutputOptions
	Layout string    `short:"l" long:"layout" description:"Columns to export" choice:"full" choice:"descriptions" default:"full"`
	Args   inputArgs `positional-args:"yes"`
}

func (c *ToXLSXCommand) Execute(_ []string) error {
	layout, err := convert.ParseLayout(c.Layout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return err
	}

	res, err := convert.New(cfg.Convert).KMLToXLSX(data, c.Args.Input, layout)
	if err != nil {
		return err
	}

	if err := writeOutput(c.Output, res.Data); err != nil {
		return err
	}

	log.Info().
		Str("input", c.Args.Input).
		Str("layout", layout.String()).
		Int("rows", res.Emitted).
		Int("skipped", res.Skipped).
		Msg("Spreadsheet written")

	return nil
}

type ToKMLCommand struct {
	OutputOptions
	MappingOptions `group:"Column options"`
	WriterOptions  `group:"Writer options"`
	Args           inputArgs `positional-args:"yes"`
}

func (c *ToKMLCommand) Execute(_ []string) error {
	data, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return err
	}

	res, err := processor.ConvertTable(c.converter(), data, filepath.Base(c.Args.Input), c.mapping())
	if err != nil {
		return err
	}

	if err := writeOutput(c.Output, res.Data); err != nil {
		return err
	}

	event := log.Info().
		Str("input", c.Args.Input).
		Int("emitted", res.Emitted).
		Int("skipped", res.Skipped).
		Int("folders", res.Folders)
	if !res.Extent.Empty() {
		event = event.Floats64("bbox", res.Extent.BBox())
	}
	event.Msgf("%d points created", res.Emitted)

	return nil
}

type InspectCommand struct {
	OutputOptions
	Format string    `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Args   inputArgs `positional-args:"yes"`
}

func (c *InspectCommand) Execute(_ []string) error {
	data, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return err
	}

	ins, err := convert.New(cfg.Convert).Inspect(data, c.Args.Input)
	if err != nil {
		return err
	}

	out, err := marshal(ins, c.Format)
	if err != nil {
		return err
	}

	return writeOutput(c.Output, out)
}

type PreviewCommand struct {
	OutputOptions
	MappingOptions `group:"Column options"`
	Format         string    `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Args           inputArgs `positional-args:"yes"`
}

func (c *PreviewCommand) Execute(_ []string) error {
	data, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return err
	}

	conv := convert.New(cfg.Convert)

	var out []byte
	if isPlacemarkFile(c.Args.Input) {
		out, err = conv.Preview(data, c.Args.Input)
	} else {
		m := c.mapping()
		if m.Lat == "" || m.Lon == "" {
			return errors.New("--lat and --lon are required for tabular input")
		}
		out, err = conv.PreviewTable(data, c.Args.Input, m)
	}
	if err != nil {
		return err
	}

	if c.Format == "yaml" {
		var v any
		if err := json.Unmarshal(out, &v); err != nil {
			return err
		}
		if out, err = yaml.Marshal(v); err != nil {
			return err
		}
	}

	return writeOutput(c.Output, out)
}

type BatchCommand struct {
	MappingOptions `group:"Column options"`
	WriterOptions  `group:"Writer options"`

	OutDir      string        `short:"d" long:"out-dir"     env:"OUT_DIR"     description:"Directory for converted files" default:"."`
	Layout      string        `short:"l" long:"layout"      description:"Columns to export for KML inputs" choice:"full" choice:"descriptions" default:"full"`
	Concurrency int           `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"4"`
	Timeout     time.Duration `short:"t" long:"timeout"     description:"Download timeout for URL sources" default:"30s"`
	Force       bool          `short:"f" long:"force"       description:"Force overwrite of existing files"`

	Args struct {
		Sources []string `positional-arg-name:"FILE|URL" required:"1"`
	} `positional-args:"yes"`
}

func (c *BatchCommand) Execute(_ []string) error {
	layout, err := convert.ParseLayout(c.Layout)
	if err != nil {
		return err
	}

	jobs := make([]processor.Job, 0, len(c.Args.Sources))
	for _, src := range c.Args.Sources {
		j := processor.Job{Source: src, Direction: processor.ToKML, Mapping: c.mapping()}
		if isPlacemarkFile(src) {
			j.Direction, j.Layout = processor.ToXLSX, layout
		}
		jobs = append(jobs, j)
	}

	log.Info().
		Int("files", len(jobs)).
		Str("out_dir", c.OutDir).
		Bool("force", c.Force).
		Msg("Starting batch")

	outcomes := processor.Run(c.converter(), jobs, processor.Options{
		OutDir:      c.OutDir,
		Concurrency: c.Concurrency,
		Force:       c.Force,
		Client:      &http.Client{Timeout: c.Timeout},
	})

	failed := 0
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
		case o.Exists:
			log.Info().Str("output", o.Output).Msg("Skipped, output exists")
		default:
			log.Info().
				Str("output", o.Output).
				Int("emitted", o.Emitted).
				Int("skipped", o.Skipped).
				Msg("Converted")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(jobs))
	}
	return nil
}

func isPlacemarkFile(name string) bool {
	if u := strings.IndexAny(name, "?#"); u >= 0 && strings.Contains(name, "://") {
		name = name[:u]
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".kml" || ext == ".kmz"
}

func marshal(v any, format string) ([]byte, error) {
	if format == "yaml" {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
