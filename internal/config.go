package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// ClipSheetConfig is the struct used to contain the various user
// config supplied by file, environment, or manually inside the code.
type ClipSheetConfig struct {
	Concurrent ConcurrentConfig `yaml:"concurrency"`
	Thumbnails ThumbnailConfig  `yaml:"thumbnails"`
	Ffmpeg     FfmpegConfig     `yaml:"ffmpeg"`
	Scan       ScanConfig       `yaml:"scan"`
}

// ConcurrentConfig is the subset of the configuration that focuses
// only on concurrency. The worker count bounds how many files are
// extracted in parallel; it is deliberately a small constant tuned
// for network-storage throughput rather than CPU count.
type ConcurrentConfig struct {
	ExtractionWorkers int `yaml:"extraction_workers" env:"CONCURRENCY_EXTRACTION_WORKERS" env-default:"4" validate:"min=1"`
}

// ThumbnailConfig controls how many frames are captured per clip and
// how long a single capture may take before the watchdog abandons it.
type ThumbnailConfig struct {
	MaxCount              int     `yaml:"max_count" env:"THUMBNAIL_MAX_COUNT" env-default:"16" validate:"min=1"`
	IncrementSeconds      float64 `yaml:"increment_seconds" env:"THUMBNAIL_INCREMENT_SECONDS" env-default:"600" validate:"gt=0"`
	CaptureTimeoutSeconds int     `yaml:"capture_timeout_seconds" env:"THUMBNAIL_CAPTURE_TIMEOUT_SECONDS" env-default:"30" validate:"min=1"`
	JpegQuality           uint32  `yaml:"jpeg_quality" env:"THUMBNAIL_JPEG_QUALITY" env-default:"4" validate:"min=2,max=31"`
}

// FfmpegConfig holds the paths of the ffmpeg/ffprobe binaries used
// for probing and frame capture.
type FfmpegConfig struct {
	FfmpegBinaryPath  string `yaml:"ffmpeg_binary" env:"FFMPEG_BINARY_PATH" env-default:"/usr/bin/ffmpeg"`
	FfprobeBinaryPath string `yaml:"ffprobe_binary" env:"FFPROBE_BINARY_PATH" env-default:"/usr/bin/ffprobe"`
}

// ScanConfig widens the extension allow-list used during discovery
// with a comma-separated list of additional extensions.
type ScanConfig struct {
	ExtraExtensions string `yaml:"extra_extensions" env:"SCAN_EXTRA_EXTENSIONS"`
}

// LoadFromFile loads a configuration file formatted in YAML in to a
// ClipSheetConfig struct, with environment variables taking
// precedence over the file's values.
func (config *ClipSheetConfig) LoadFromFile(configPath string) error {
	if err := cleanenv.ReadConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to load configuration from '%s': %w", configPath, err)
	}

	return config.validate()
}

// LoadFromEnv populates the config from environment variables and
// the env-defaults alone, for runs without a config file.
func (config *ClipSheetConfig) LoadFromEnv() error {
	if err := cleanenv.ReadEnv(config); err != nil {
		return fmt.Errorf("failed to load configuration from environment: %w", err)
	}

	return config.validate()
}

func (config *ClipSheetConfig) validate() error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	return nil
}

func (config *ClipSheetConfig) CaptureTimeout() time.Duration {
	return time.Duration(config.Thumbnails.CaptureTimeoutSeconds) * time.Second
}

// ExtraExtensions splits the configured comma-separated extension
// additions into a slice, dropping empty entries.
func (config *ClipSheetConfig) ExtraExtensions() []string {
	if strings.TrimSpace(config.Scan.ExtraExtensions) == "" {
		return nil
	}

	return strings.Split(config.Scan.ExtraExtensions, ",")
}
