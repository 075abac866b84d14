package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/input", "/output", "/log")

	if cfg.InputDir != "/input" {
		t.Errorf("expected InputDir=/input, got %s", cfg.InputDir)
	}
	if cfg.OutputDir != "/output" {
		t.Errorf("expected OutputDir=/output, got %s", cfg.OutputDir)
	}
	if cfg.LogDir != "/log" {
		t.Errorf("expected LogDir=/log, got %s", cfg.LogDir)
	}

	if cfg.Thresholds.MinWidth != DefaultMinWidth {
		t.Errorf("expected MinWidth=%d, got %d", DefaultMinWidth, cfg.Thresholds.MinWidth)
	}
	if cfg.Sampling.NumFrames != DefaultNumFrames || cfg.Sampling.Stride != DefaultFrameStride {
		t.Errorf("unexpected sampling defaults: %+v", cfg.Sampling)
	}
	if cfg.Motion.DiffThreshold != DefaultMotionDiffThreshold {
		t.Errorf("expected DiffThreshold=%d, got %d", DefaultMotionDiffThreshold, cfg.Motion.DiffThreshold)
	}
	if cfg.MotionPolicyPath != DefaultMotionPolicyFile {
		t.Errorf("expected MotionPolicyPath=%s, got %s", DefaultMotionPolicyFile, cfg.MotionPolicyPath)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(*Config)
		wantErr      bool
		wantSentinel error
	}{
		{
			name:    "default config is valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:         "zero frames is invalid",
			modify:       func(c *Config) { c.Sampling.NumFrames = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidSampling,
		},
		{
			name:         "zero stride is invalid",
			modify:       func(c *Config) { c.Sampling.Stride = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidSampling,
		},
		{
			name:    "stride 1 is valid",
			modify:  func(c *Config) { c.Sampling.Stride = 1 },
			wantErr: false,
		},
		{
			name:         "negative width is invalid",
			modify:       func(c *Config) { c.Thresholds.MinWidth = -1 },
			wantErr:      true,
			wantSentinel: ErrInvalidThreshold,
		},
		{
			name: "max brightness below min is invalid",
			modify: func(c *Config) {
				c.Thresholds.MinBrightness = 100
				c.Thresholds.MaxBrightness = 90
			},
			wantErr:      true,
			wantSentinel: ErrInvalidThreshold,
		},
		{
			name:         "brightness above 255 is invalid",
			modify:       func(c *Config) { c.Thresholds.MaxBrightness = 300 },
			wantErr:      true,
			wantSentinel: ErrInvalidThreshold,
		},
		{
			name:         "change ratio above 1 is invalid",
			modify:       func(c *Config) { c.Motion.MinChangeRatio = 1.5 },
			wantErr:      true,
			wantSentinel: ErrInvalidMotion,
		},
		{
			name:         "diff threshold above 255 is invalid",
			modify:       func(c *Config) { c.Motion.DiffThreshold = 256 },
			wantErr:      true,
			wantSentinel: ErrInvalidMotion,
		},
		{
			name:         "empty motion policy path is invalid",
			modify:       func(c *Config) { c.MotionPolicyPath = "" },
			wantErr:      true,
			wantSentinel: ErrInvalidConfig,
		},
		{
			name:         "negative analysis width is invalid",
			modify:       func(c *Config) { c.Analysis.MaxWidth = -5 },
			wantErr:      true,
			wantSentinel: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("/input", "/output", "/log")
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantSentinel != nil && !errors.Is(err, tt.wantSentinel) {
				t.Errorf("Validate() error = %v, want sentinel %v", err, tt.wantSentinel)
			}
		})
	}
}

func TestSamplingBudget(t *testing.T) {
	s := Sampling{NumFrames: 20, Stride: 15}

	tests := []struct {
		totalFrames int
		expected    int
	}{
		{0, 301},
		{100, 301},
		{301, 301},
		{900, 900},
	}

	for _, tt := range tests {
		if got := s.Budget(tt.totalFrames); got != tt.expected {
			t.Errorf("Budget(%d) = %d, want %d", tt.totalFrames, got, tt.expected)
		}
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultDatasetDir, cfg.InputDir)
	assert.Equal(t, DefaultCleanedDir, cfg.OutputDir)
	assert.Equal(t, DefaultThresholds(), cfg.Thresholds)
	assert.Equal(t, DefaultSampling(), cfg.Sampling)
	assert.Equal(t, DefaultMotion(), cfg.Motion)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vidsift.yaml")
	yamlBody := `
thresholds:
  min_width: 1280
  min_sharpness: 75.5
sampling:
  stride: 10
motion_policy: /etc/policy.json
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0644))

	t.Setenv("VIDSIFT_SAMPLING__NUM_FRAMES", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Thresholds.MinWidth)
	assert.Equal(t, DefaultMinHeight, cfg.Thresholds.MinHeight)
	assert.InDelta(t, 75.5, cfg.Thresholds.MinSharpness, 1e-9)
	assert.Equal(t, 10, cfg.Sampling.Stride)
	assert.Equal(t, 8, cfg.Sampling.NumFrames)
	assert.Equal(t, "/etc/policy.json", cfg.MotionPolicyPath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "sampling.num_frames", envTransform("VIDSIFT_SAMPLING__NUM_FRAMES"))
	assert.Equal(t, "motion_policy", envTransform("VIDSIFT_MOTION_POLICY"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
