// Package config handles application configuration and the model catalog.
package config

import (
	"errors"
	"fmt"
)

// ErrUnknownModel is returned when a model name is absent from the
// catalog. Callers must treat this as a programmer error, not degrade.
var ErrUnknownModel = errors.New("model not found in catalog")

// FileType identifies a survey file format.
type FileType string

// Survey file formats.
const (
	FileTS FileType = "TS" // triangulated surface
	FilePL FileType = "PL" // polyline set
	FileSO FileType = "SO" // solid volume
	FileVS FileType = "VS" // vertex set
)

// Valid reports whether the file type is one of the supported tags.
func (t FileType) Valid() bool {
	switch t {
	case FileTS, FilePL, FileSO, FileVS:
		return true
	}
	return false
}

// GeologicalType classifies what a survey file represents.
type GeologicalType string

// Geological classifications.
const (
	GeoDiscontinuity GeologicalType = "Discontinuity"
	GeoGrid          GeologicalType = "Grid"
	GeoUnknown       GeologicalType = "Unknown"
)

// Config holds all application settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Contour ContourConfig `yaml:"contour"`
	Data    DataConfig    `yaml:"data"`
	Models  []ModelConfig `yaml:"models"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ContourConfig holds default iso-contour parameters.
type ContourConfig struct {
	Levels     int    `yaml:"levels"`
	ColorTable string `yaml:"color_table"`
	LineColor  string `yaml:"line_color"`
}

// DataConfig holds survey data locations.
type DataConfig struct {
	// Root is the directory survey file paths resolve against.
	Root string `yaml:"root"`
}

// ModelConfig describes one loadable model: a named set of survey files.
type ModelConfig struct {
	Name  string      `yaml:"name"`
	Files []ModelFile `yaml:"files"`
}

// ModelFile describes one survey file within a model.
type ModelFile struct {
	Path           string         `yaml:"path"`
	Type           FileType       `yaml:"type"`
	Name           string         `yaml:"name,omitempty"`
	Color          string         `yaml:"color,omitempty"`
	IsoContour     bool           `yaml:"iso_contour"`
	GeologicalType GeologicalType `yaml:"geological_type"`
	Visible        *bool          `yaml:"visible,omitempty"`
}

// DisplayName returns the configured name or the file path.
func (f ModelFile) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Path
}

// IsVisible reports the configured visibility, defaulting to visible.
func (f ModelFile) IsVisible() bool {
	return f.Visible == nil || *f.Visible
}

// Model resolves a catalog entry by name. An unknown name is a hard
// error at the call site.
func (c *Config) Model(name string) (ModelConfig, error) {
	for _, m := range c.Models {
		if m.Name == name {
			return m, nil
		}
	}
	return ModelConfig{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Contour: ContourConfig{
			Levels:     10,
			ColorTable: "rainbow",
			LineColor:  "black",
		},
		Data: DataConfig{
			Root: ".",
		},
	}
}
