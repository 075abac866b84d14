// Package config provides configuration types and defaults for vidsift.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Default constants
const (
	// DefaultMinWidth is the minimum accepted frame width in pixels.
	DefaultMinWidth = 640

	// DefaultMinHeight is the minimum accepted frame height in pixels.
	DefaultMinHeight = 360

	// DefaultMinSharpness is the minimum mean Laplacian variance.
	DefaultMinSharpness = 50.0

	// DefaultMinBrightness is the minimum mean grayscale intensity.
	DefaultMinBrightness = 35.0

	// DefaultMaxBrightness is the maximum mean grayscale intensity.
	DefaultMaxBrightness = 190.0

	// DefaultNumFrames is the number of frames sampled per video.
	DefaultNumFrames = 20

	// DefaultFrameStride is the distance in frames between samples.
	DefaultFrameStride = 15

	// DefaultMotionDiffThreshold is the per-pixel intensity difference a pixel
	// must exceed to count as changed.
	DefaultMotionDiffThreshold = 18

	// DefaultMotionMinChangeRatio is the changed-pixel fraction at which a
	// sampled pair counts as active.
	DefaultMotionMinChangeRatio = 0.01

	// DefaultMotionMinActiveFraction is the fraction of active pairs at which
	// motion counts as detected.
	DefaultMotionMinActiveFraction = 0.3

	// DefaultMotionPolicyFile is the motion policy file name.
	DefaultMotionPolicyFile = "exercise_motion_overview.json"

	// DefaultDatasetDir is the default input directory.
	DefaultDatasetDir = "dataset"

	// DefaultCleanedDir is the default output directory.
	DefaultCleanedDir = "cleaned_dataset"
)

// Thresholds holds the acceptance limits applied to extracted metrics.
type Thresholds struct {
	MinWidth      int     `koanf:"min_width" validate:"gte=0"`
	MinHeight     int     `koanf:"min_height" validate:"gte=0"`
	MinSharpness  float64 `koanf:"min_sharpness" validate:"gte=0"`
	MinBrightness float64 `koanf:"min_brightness" validate:"gte=0,lte=255"`
	MaxBrightness float64 `koanf:"max_brightness" validate:"lte=255,gtfield=MinBrightness"`
}

// Sampling controls which frames are decoded from each video.
type Sampling struct {
	NumFrames int `koanf:"num_frames" validate:"gte=1"`
	Stride    int `koanf:"stride" validate:"gte=1"`
}

// Budget returns the exclusive upper bound on candidate frame indices for a
// video reporting totalFrames frames. Videos with an unreliable or zero frame
// count still get NumFrames*Stride+1 candidate indices.
func (s Sampling) Budget(totalFrames int) int {
	return max(totalFrames, s.NumFrames*s.Stride+1)
}

// Motion holds the frame-difference motion detection parameters.
type Motion struct {
	DiffThreshold     int     `koanf:"diff_threshold" validate:"gte=0,lte=255"`
	MinChangeRatio    float64 `koanf:"min_change_ratio" validate:"gte=0,lte=1"`
	MinActiveFraction float64 `koanf:"min_active_fraction" validate:"gte=0,lte=1"`
}

// Analysis holds optional analysis behaviour.
type Analysis struct {
	// MaxWidth downscales frames wider than this before measuring. 0 disables.
	MaxWidth int `koanf:"max_width" validate:"gte=0"`
	// FrameHash records a perceptual hash of the first sampled frame.
	FrameHash bool `koanf:"frame_hash"`
}

// Cache configures the optional metrics cache.
type Cache struct {
	// Dir is the cache directory. Empty disables caching.
	Dir string `koanf:"dir"`
}

// Config holds all configuration for a screening run.
type Config struct {
	// Input/output paths
	InputDir         string `koanf:"input_dir"`
	OutputDir        string `koanf:"output_dir"`
	LogDir           string `koanf:"log_dir"`
	MotionPolicyPath string `koanf:"motion_policy" validate:"required"`

	Thresholds Thresholds `koanf:"thresholds"`
	Sampling   Sampling   `koanf:"sampling"`
	Motion     Motion     `koanf:"motion"`
	Analysis   Analysis   `koanf:"analysis"`
	Cache      Cache      `koanf:"cache"`

	Verbose bool `koanf:"verbose"`
	NoLog   bool `koanf:"no_log"`
}

// DefaultThresholds returns the default acceptance thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinWidth:      DefaultMinWidth,
		MinHeight:     DefaultMinHeight,
		MinSharpness:  DefaultMinSharpness,
		MinBrightness: DefaultMinBrightness,
		MaxBrightness: DefaultMaxBrightness,
	}
}

// DefaultSampling returns the default sampling parameters.
func DefaultSampling() Sampling {
	return Sampling{NumFrames: DefaultNumFrames, Stride: DefaultFrameStride}
}

// DefaultMotion returns the default motion parameters.
func DefaultMotion() Motion {
	return Motion{
		DiffThreshold:     DefaultMotionDiffThreshold,
		MinChangeRatio:    DefaultMotionMinChangeRatio,
		MinActiveFraction: DefaultMotionMinActiveFraction,
	}
}

// NewConfig creates a new Config with default values.
func NewConfig(inputDir, outputDir, logDir string) *Config {
	return &Config{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		LogDir:           logDir,
		MotionPolicyPath: DefaultMotionPolicyFile,
		Thresholds:       DefaultThresholds(),
		Sampling:         DefaultSampling(),
		Motion:           DefaultMotion(),
		Analysis:         Analysis{FrameHash: true},
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	fe := fieldErrs[0]
	return fmt.Errorf("%w: %s fails %q (value %v)",
		sentinelFor(fe.StructNamespace()), fieldName(fe.StructNamespace()), tagWithParam(fe), fe.Value())
}

// sentinelFor maps a validator namespace such as "Config.Sampling.Stride" to
// the sentinel error for its section.
func sentinelFor(namespace string) error {
	switch {
	case strings.HasPrefix(namespace, "Config.Sampling."):
		return ErrInvalidSampling
	case strings.HasPrefix(namespace, "Config.Thresholds."):
		return ErrInvalidThreshold
	case strings.HasPrefix(namespace, "Config.Motion."):
		return ErrInvalidMotion
	default:
		return ErrInvalidConfig
	}
}

func fieldName(namespace string) string {
	return strings.TrimPrefix(namespace, "Config.")
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
