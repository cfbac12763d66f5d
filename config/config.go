package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"matchflow/models"
)

type Config struct {
	Matchflow MatchflowConfig `yaml:"matchflow"`
	Fusion    FusionConfig    `yaml:"fusion"`
	Patterns  []PatternConfig `yaml:"patterns"`
	Reader    ReaderConfig    `yaml:"reader"`
	Writer    WriterConfig    `yaml:"writer"`
	Watch     WatchConfig     `yaml:"watch"`
	Channels  ChannelsConfig  `yaml:"channels"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type MatchflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// FusionConfig carries every tunable of the fusion engine. The defaults are
// illustrative commentary-cadence values rather than verified constants,
// which is why they live here instead of inside the processor.
type FusionConfig struct {
	BucketWidthS             float64 `yaml:"bucket_width_s"`
	MergeWindowS             float64 `yaml:"merge_window_s"`
	EventConfidenceThreshold float64 `yaml:"event_confidence_threshold"`
	FusionWeight             float64 `yaml:"fusion_weight"`
	SmoothingWindow          int     `yaml:"smoothing_window"`
	PeakThreshold            float64 `yaml:"peak_threshold"`
	PeakMinSpacing           int     `yaml:"peak_min_spacing"`
}

// PatternConfig maps one event type to its trigger patterns and the
// confidence assigned to a match. Injected as configuration so detection can
// be tuned without code changes; an empty list selects the built-in table.
type PatternConfig struct {
	Type       string   `yaml:"type"`
	Patterns   []string `yaml:"patterns"`
	Confidence float64  `yaml:"confidence"`
}

type ReaderConfig struct {
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	ASR       ASRConfig       `yaml:"asr"`
	Loudness  LoudnessConfig  `yaml:"loudness"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Retry     RetryConfig     `yaml:"retry"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type ASRConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LoudnessConfig struct {
	WindowS float64 `yaml:"window_s"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffMultiplier int           `yaml:"backoff_multiplier"`
}

type WriterConfig struct {
	OutputDir string        `yaml:"output_dir"`
	Formats   FormatsConfig `yaml:"formats"`
}

type FormatsConfig struct {
	CSV     bool `yaml:"csv"`
	Parquet bool `yaml:"parquet"`
	Report  bool `yaml:"report"`
}

type WatchConfig struct {
	InboxDir    string        `yaml:"inbox_dir"`
	Workers     int           `yaml:"workers"`
	SettleDelay time.Duration `yaml:"settle_delay"`
}

type ChannelsConfig struct {
	JobBuffer    int `yaml:"job_buffer"`
	ResultBuffer int `yaml:"result_buffer"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"`
	Output        string `yaml:"output"`
	MaxAge        int    `yaml:"max_age"`
	DashboardName string `yaml:"dashboard_name"`
}

// Default returns a configuration populated with the documented defaults.
// LoadConfig layers the YAML file on top of this.
func Default() *Config {
	return &Config{
		Matchflow: MatchflowConfig{Name: "matchflow", Version: "dev"},
		Fusion: FusionConfig{
			BucketWidthS:             5,
			MergeWindowS:             15,
			EventConfidenceThreshold: 0.2,
			FusionWeight:             0.5,
			SmoothingWindow:          3,
			PeakThreshold:            0.6,
			PeakMinSpacing:           3,
		},
		Reader: ReaderConfig{
			FFmpeg:    FFmpegConfig{BinaryPath: "ffmpeg", SampleRate: 16000},
			ASR:       ASRConfig{Timeout: 10 * time.Minute},
			Loudness:  LoudnessConfig{WindowS: 1},
			RateLimit: RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1},
			Retry: RetryConfig{
				MaxAttempts:       3,
				BaseDelay:         time.Second,
				MaxDelay:          30 * time.Second,
				BackoffMultiplier: 2,
			},
		},
		Writer: WriterConfig{
			OutputDir: "outputs",
			Formats:   FormatsConfig{CSV: true, Parquet: true, Report: true},
		},
		Watch: WatchConfig{
			InboxDir:    "inbox",
			Workers:     2,
			SettleDelay: 2 * time.Second,
		},
		Channels: ChannelsConfig{JobBuffer: 16, ResultBuffer: 16},
		Logging:  LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override S3 settings from environment variables if available
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}
	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Matchflow.Name == "" {
		return fmt.Errorf("%w: matchflow.name is required", models.ErrInvalidConfiguration)
	}
	if cfg.Matchflow.Version == "" {
		return fmt.Errorf("%w: matchflow.version is required", models.ErrInvalidConfiguration)
	}

	if err := ValidateFusion(&cfg.Fusion); err != nil {
		return err
	}

	for _, p := range cfg.Patterns {
		if !isKnownEventType(p.Type) {
			return fmt.Errorf("%w: patterns: unknown event type %q", models.ErrInvalidConfiguration, p.Type)
		}
		if len(p.Patterns) == 0 {
			return fmt.Errorf("%w: patterns: event type %q has no patterns", models.ErrInvalidConfiguration, p.Type)
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("%w: patterns: confidence for %q must be in [0,1]", models.ErrInvalidConfiguration, p.Type)
		}
	}

	if cfg.Reader.ASR.URL == "" && IsProductionLike(AppEnvironment()) {
		return fmt.Errorf("%w: reader.asr.url is required in %s", models.ErrInvalidConfiguration, AppEnvironment())
	}
	if cfg.Reader.Loudness.WindowS <= 0 {
		return fmt.Errorf("%w: reader.loudness.window_s must be greater than 0", models.ErrInvalidConfiguration)
	}
	if cfg.Reader.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: reader.rate_limit.requests_per_second must be greater than 0", models.ErrInvalidConfiguration)
	}
	if cfg.Reader.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("%w: reader.retry.max_attempts must be greater than 0", models.ErrInvalidConfiguration)
	}

	if cfg.Writer.OutputDir == "" {
		return fmt.Errorf("%w: writer.output_dir is required", models.ErrInvalidConfiguration)
	}
	if cfg.Watch.Workers <= 0 {
		return fmt.Errorf("%w: watch.workers must be greater than 0", models.ErrInvalidConfiguration)
	}
	if cfg.Channels.JobBuffer <= 0 {
		return fmt.Errorf("%w: channels.job_buffer must be greater than 0", models.ErrInvalidConfiguration)
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("%w: storage.s3.bucket is required when S3 is enabled", models.ErrInvalidConfiguration)
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("%w: storage.s3.region is required when S3 is enabled", models.ErrInvalidConfiguration)
		}
	}

	return nil
}

// ValidateFusion checks every fusion tunable against its documented range.
// The engine calls this again before each run so a hand-built config cannot
// bypass validation.
func ValidateFusion(f *FusionConfig) error {
	if f.BucketWidthS <= 0 {
		return fmt.Errorf("%w: fusion.bucket_width_s must be greater than 0", models.ErrInvalidConfiguration)
	}
	if f.MergeWindowS <= 0 {
		return fmt.Errorf("%w: fusion.merge_window_s must be greater than 0", models.ErrInvalidConfiguration)
	}
	if f.EventConfidenceThreshold < 0 || f.EventConfidenceThreshold > 1 {
		return fmt.Errorf("%w: fusion.event_confidence_threshold must be in [0,1]", models.ErrInvalidConfiguration)
	}
	if f.FusionWeight < 0 || f.FusionWeight > 1 {
		return fmt.Errorf("%w: fusion.fusion_weight must be in [0,1]", models.ErrInvalidConfiguration)
	}
	if f.SmoothingWindow < 1 || f.SmoothingWindow%2 == 0 {
		return fmt.Errorf("%w: fusion.smoothing_window must be a positive odd number", models.ErrInvalidConfiguration)
	}
	if f.PeakThreshold < 0 || f.PeakThreshold > 1 {
		return fmt.Errorf("%w: fusion.peak_threshold must be in [0,1]", models.ErrInvalidConfiguration)
	}
	if f.PeakMinSpacing < 1 {
		return fmt.Errorf("%w: fusion.peak_min_spacing must be at least 1", models.ErrInvalidConfiguration)
	}
	return nil
}

func isKnownEventType(name string) bool {
	for _, t := range models.EventTypes {
		if string(t) == name {
			return true
		}
	}
	return false
}
