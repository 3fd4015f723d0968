package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/smart-crop/pkg/analyzer"
	"github.com/menta2k/smart-crop/pkg/colorspace"
	"github.com/menta2k/smart-crop/pkg/cropper"
)

// Crop strategies.
const (
	StrategyContrast = "contrast"
	StrategySaliency = "saliency"
)

// Config holds the application configuration
type Config struct {
	Analyzer analyzer.Config `json:"analyzer"`
	Cropper  CropperConfig   `json:"cropper"`
	Output   OutputConfig    `json:"output"`
	Log      LogConfig       `json:"log"`
}

// CropperConfig holds configuration for smart cropping
type CropperConfig struct {
	Strategy   string  `json:"strategy"`
	Metric     string  `json:"metric"`
	Tolerance  float64 `json:"tolerance"`
	// Bounceback of 0 disables the final offset shift.
	Bounceback float64 `json:"bounceback"`
	Fit        bool    `json:"fit"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
	Lossless  bool   `json:"lossless"`
	OutputDir string `json:"output_dir"`
	Prefix    string `json:"prefix"`
	Suffix    string `json:"suffix"`
}

// LogConfig configures where logs go. An empty File logs to stderr.
type LogConfig struct {
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
	Verbose    bool   `json:"verbose"`
}

// Default returns a configuration with default values
func Default() *Config {
	def := cropper.DefaultConfig()
	return &Config{
		Analyzer: analyzer.DefaultConfig(),
		Cropper: CropperConfig{
			Strategy:   StrategyContrast,
			Metric:     "euclidean",
			Tolerance:  def.Tolerance,
			Bounceback: def.Bounceback,
		},
		Output: OutputConfig{
			Format:    "jpg",
			Quality:   90,
			OutputDir: "./output",
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from the
// file keep their default value.
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
	if c.Analyzer.MinImageSize < 1 {
		return fmt.Errorf("analyzer.min_image_size must be positive")
	}

	if len(c.Analyzer.SupportedFormats) == 0 {
		return fmt.Errorf("analyzer.supported_formats cannot be empty")
	}

	switch c.Cropper.Strategy {
	case StrategyContrast, StrategySaliency:
	default:
		return fmt.Errorf("cropper.strategy must be %q or %q", StrategyContrast, StrategySaliency)
	}

	if _, err := colorspace.MetricByName(c.Cropper.Metric); err != nil {
		return fmt.Errorf("cropper.metric: %w", err)
	}

	if c.Cropper.Tolerance <= 0 {
		return fmt.Errorf("cropper.tolerance must be positive")
	}

	if c.Cropper.Bounceback < 0 || c.Cropper.Bounceback >= 1 {
		return fmt.Errorf("cropper.bounceback must be between 0 and 1")
	}

	switch strings.ToLower(c.Output.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be jpg, png or webp")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits cannot be negative")
	}

	return nil
}

// CropConfig translates the cropper section into engine settings.
func (c *Config) CropConfig() (cropper.CropConfig, error) {
	metric, err := colorspace.MetricByName(c.Cropper.Metric)
	if err != nil {
		return cropper.CropConfig{}, err
	}
	cfg := cropper.DefaultConfig()
	cfg.Metric = metric
	if c.Cropper.Tolerance > 0 {
		cfg.Tolerance = c.Cropper.Tolerance
	}
	if c.Cropper.Bounceback > 0 {
		cfg.Bounceback = c.Cropper.Bounceback
	} else {
		cfg.DisableBounceback = true
	}
	return cfg, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "smart-crop", "config.json")
}
