// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Convert Convert `yaml:"convert" json:"convert"`
	Server  Server  `yaml:"server" json:"server"`
}

// Convert holds conversion settings shared by the CLI and the server.
type Convert struct {
	// Sheet name for the full placemark export.
	SheetName string `yaml:"sheet_name,omitempty" json:"sheet_name"`
	// Sheet name for the description-only export.
	DescriptionSheetName string `yaml:"description_sheet_name,omitempty" json:"description_sheet_name"`
	// Prefix for folders built from the group column.
	FolderLabel string `yaml:"folder_label,omitempty" json:"folder_label"`
	// Name of written KML documents; the input file name is used when empty.
	DocumentName string `yaml:"document_name,omitempty" json:"document_name,omitempty"`
	// Drop out of range rows before writing, on top of the writer's own check.
	StrictValidate bool `yaml:"strict_validate" json:"strict_validate"`
	// Minify description HTML.
	MinifyDescription bool `yaml:"minify_description,omitempty" json:"minify_description"`
	// Rows returned by table inspection.
	PreviewRows int `yaml:"preview_rows,omitempty" json:"preview_rows"`
}

// Server holds HTTP surface settings.
type Server struct {
	MaxUploadMB int64 `yaml:"max_upload_mb,omitempty" json:"max_upload_mb"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Convert: Convert{
			SheetName:            "Data KML",
			DescriptionSheetName: "Deskripsi KML",
			FolderLabel:          "STO ",
			StrictValidate:       true,
			PreviewRows:          10,
		},
		Server: Server{
			MaxUploadMB: 32,
		},
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Missing fields keep their defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values the spreadsheet writer would reject later.
func (c *Config) Validate() error {
	for _, name := range []string{c.Convert.SheetName, c.Convert.DescriptionSheetName} {
		if err := validSheetName(name); err != nil {
			return err
		}
	}
	if c.Convert.PreviewRows < 0 {
		return errors.New("preview_rows must not be negative")
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New("max_upload_mb must be positive")
	}
	return nil
}

func validSheetName(name string) error {
	if name == "" {
		return errors.New("sheet name must not be empty")
	}
	if len([]rune(name)) > 31 {
		return fmt.Errorf("sheet name %q is longer than 31 characters", name)
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return fmt.Errorf("sheet name %q contains a forbidden character", name)
	}
	return nil
}
