package config

import (
	"errors"
	"os"
	"testing"

	"matchflow/models"
)

// writeTempConfig creates a minimal configuration file required for
// LoadConfig and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `matchflow:
  name: "TestApp"
  version: "1.0"
fusion:
  bucket_width_s: 10
watch:
  workers: 4
storage:
  s3:
    enabled: false
`)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Matchflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Matchflow.Name)
	}
	if cfg.Fusion.BucketWidthS != 10 {
		t.Errorf("unexpected bucket width: %g", cfg.Fusion.BucketWidthS)
	}
	if cfg.Watch.Workers != 4 {
		t.Errorf("unexpected worker count: %d", cfg.Watch.Workers)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Fusion.MergeWindowS != 15 {
		t.Errorf("merge window default lost: %g", cfg.Fusion.MergeWindowS)
	}
	if cfg.Reader.FFmpeg.SampleRate != 16000 {
		t.Errorf("ffmpeg sample rate default lost: %d", cfg.Reader.FFmpeg.SampleRate)
	}
}

func TestLoadConfigRejectsBadFusion(t *testing.T) {
	cases := []string{
		"fusion:\n  bucket_width_s: 0\n",
		"fusion:\n  fusion_weight: 1.5\n",
		"fusion:\n  smoothing_window: 2\n",
		"fusion:\n  peak_min_spacing: 0\n",
	}
	for _, snippet := range cases {
		path := writeTempConfig(t, "matchflow:\n  name: \"a\"\n  version: \"1\"\n"+snippet)
		_, err := LoadConfig(path)
		os.Remove(path)
		if !errors.Is(err, models.ErrInvalidConfiguration) {
			t.Errorf("snippet %q: expected invalid configuration, got %v", snippet, err)
		}
	}
}

func TestLoadConfigRejectsUnknownPatternType(t *testing.T) {
	path := writeTempConfig(t, `matchflow:
  name: "a"
  version: "1"
patterns:
  - type: "corner"
    patterns: ["corner kick"]
`)
	defer os.Remove(path)

	if _, err := LoadConfig(path); !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
}

func TestLoadConfigS3RequiresBucket(t *testing.T) {
	path := writeTempConfig(t, `matchflow:
  name: "a"
  version: "1"
storage:
  s3:
    enabled: true
    region: "eu-west-1"
`)
	defer os.Remove(path)

	if _, err := LoadConfig(path); !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for missing bucket, got %v", err)
	}
}

func TestValidateFusionDefaults(t *testing.T) {
	cfg := Default()
	if err := ValidateFusion(&cfg.Fusion); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestAppEnvironmentAliases(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	if got := AppEnvironment(); got != EnvironmentProduction {
		t.Fatalf("AppEnvironment() = %q", got)
	}
	if !IsProductionLike(AppEnvironment()) {
		t.Fatal("prod should be production-like")
	}

	t.Setenv("APP_ENV", "")
	if got := AppEnvironment(); got != EnvironmentDevelopment {
		t.Fatalf("empty APP_ENV should default to development, got %q", got)
	}
}
