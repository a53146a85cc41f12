package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Extract ExtractConfig `json:"extract"`
	Output  OutputConfig  `json:"output"`
	Debug   DebugConfig   `json:"debug"`
}

// ExtractConfig holds configuration for the extraction pipeline
type ExtractConfig struct {
	TargetWidth  int  `json:"target_width"`
	TargetHeight int  `json:"target_height"`
	Invert       bool `json:"invert"`
	// Background fills the area exposed by rotation, as #rrggbb
	Background string `json:"background"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
	// OutputDir receives the crops; empty writes each crop next to its input
	OutputDir string `json:"output_dir"`
	Prefix    string `json:"prefix"`
	Suffix    string `json:"suffix"`
}

// DebugConfig controls where intermediate images go
type DebugConfig struct {
	Dir         string `json:"dir"`
	PDF         string `json:"pdf"`
	Show        bool   `json:"show"`
	Histogram   bool   `json:"histogram"`
	PreviewSize int    `json:"preview_size"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			TargetWidth:  300,
			TargetHeight: 300,
			Invert:       true,
			Background:   "#ffffff",
		},
		Output: OutputConfig{
			Format:    "jpg",
			Quality:   90,
			Lossless:  false,
			OutputDir: "",
			Prefix:    "",
			Suffix:    "_crop",
		},
		Debug: DebugConfig{
			PreviewSize: 800,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Extract.TargetWidth < 1 || c.Extract.TargetHeight < 1 {
		return fmt.Errorf("extract.target_width and extract.target_height must be positive")
	}

	if _, err := ParseColor(c.Extract.Background); err != nil {
		return fmt.Errorf("extract.background: %w", err)
	}

	switch strings.ToLower(c.Output.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be one of jpg, png, webp")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Debug.PreviewSize < 0 {
		return fmt.Errorf("debug.preview_size cannot be negative")
	}

	return nil
}

// OutputDirFor returns the directory the crop of input is written to
func (c *Config) OutputDirFor(input string) string {
	if c.Output.OutputDir != "" {
		return c.Output.OutputDir
	}
	return filepath.Dir(input)
}

// BackgroundColor returns the parsed extract.background, white when invalid
func (c *Config) BackgroundColor() color.Color {
	col, err := ParseColor(c.Extract.Background)
	if err != nil {
		return color.White
	}
	return col
}

// ParseColor parses #rgb or #rrggbb. An empty string is white.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return color.NRGBA{255, 255, 255, 255}, nil
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "deskew", "config.json")
}
