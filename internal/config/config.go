package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the daemon settings. User-facing choices (hotkey,
// output mode, models) live in the AppConfig store instead.
type Config struct {
	// Paths settings
	Paths struct {
		ModelDir     string `yaml:"model_dir" validate:"required"`
		AppConfig    string `yaml:"app_config" validate:"required"`
		HistoryDir   string `yaml:"history_dir"`
		AudioDumpDir string `yaml:"audio_dump_dir"`
	} `yaml:"paths"`

	// Audio settings
	Audio struct {
		FlushGrace   time.Duration `yaml:"flush_grace" validate:"gte=0,lte=1s"`
		PeriodFrames uint32        `yaml:"period_frames"`
	} `yaml:"audio"`

	// Quality gate settings
	Quality struct {
		SilenceRMS float64 `yaml:"silence_rms" validate:"gte=0,lt=1"`
		MinSamples int     `yaml:"min_samples" validate:"gte=0"`
	} `yaml:"quality"`

	// Timing settings for display holds and polling
	Timing struct {
		PreviewHold      time.Duration `yaml:"preview_hold" validate:"gte=0"`
		ResultHold       time.Duration `yaml:"result_hold" validate:"gte=0"`
		ErrorHold        time.Duration `yaml:"error_hold" validate:"gte=0"`
		SilenceHold      time.Duration `yaml:"silence_hold" validate:"gte=0"`
		TooShortHold     time.Duration `yaml:"too_short_hold" validate:"gte=0"`
		StartFailureHold time.Duration `yaml:"start_failure_hold" validate:"gte=0"`
		Ticker           time.Duration `yaml:"ticker" validate:"gt=0"`
		WatchInterval    time.Duration `yaml:"watch_interval" validate:"gt=0"`
		PasteSettle      time.Duration `yaml:"paste_settle" validate:"gte=0"`
		PasteRetryGap    time.Duration `yaml:"paste_retry_gap" validate:"gte=0"`
	} `yaml:"timing"`

	// ASR settings
	ASR struct {
		Language string `yaml:"language"`
		Threads  uint   `yaml:"threads"`
	} `yaml:"asr"`

	// Refinement settings
	Refine struct {
		BaseURL        string        `yaml:"base_url" validate:"required,url"`
		APIKeyEnv      string        `yaml:"api_key_env"`
		MaxTokens      int           `yaml:"max_tokens" validate:"gt=0"`
		Temperature    float64       `yaml:"temperature" validate:"gte=0,lte=2"`
		RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
	} `yaml:"refine"`

	// Hotkey settings
	Hotkey struct {
		Backend string `yaml:"backend" validate:"oneof=register hook"`
	} `yaml:"hotkey"`

	// Notification settings
	Notify struct {
		Desktop bool `yaml:"desktop"`
	} `yaml:"notify"`

	// Server settings
	Server struct {
		GRPCPort int `yaml:"grpc_port" validate:"gte=0,lte=65535"`
	} `yaml:"server"`

	// Log settings
	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error off"`
		Format string `yaml:"format" validate:"omitempty,oneof=console json"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	root := filepath.Join(home, ".voxtype")

	// Paths defaults
	cfg.Paths.ModelDir = filepath.Join(root, "models")
	cfg.Paths.AppConfig = filepath.Join(root, "voxtype.conf")
	cfg.Paths.HistoryDir = filepath.Join(root, "history")
	cfg.Paths.AudioDumpDir = ""

	// Audio defaults
	cfg.Audio.FlushGrace = 40 * time.Millisecond

	// Quality defaults: 0.2s at 16 kHz
	cfg.Quality.SilenceRMS = 0.0015
	cfg.Quality.MinSamples = 3200

	// Timing defaults
	cfg.Timing.PreviewHold = 900 * time.Millisecond
	cfg.Timing.ResultHold = 950 * time.Millisecond
	cfg.Timing.ErrorHold = 900 * time.Millisecond
	cfg.Timing.SilenceHold = 760 * time.Millisecond
	cfg.Timing.TooShortHold = 700 * time.Millisecond
	cfg.Timing.StartFailureHold = 900 * time.Millisecond
	cfg.Timing.Ticker = 180 * time.Millisecond
	cfg.Timing.WatchInterval = time.Second
	cfg.Timing.PasteSettle = 260 * time.Millisecond
	cfg.Timing.PasteRetryGap = 90 * time.Millisecond

	// ASR defaults
	cfg.ASR.Language = "auto"

	// Refine defaults
	cfg.Refine.BaseURL = "http://127.0.0.1:8080/v1"
	cfg.Refine.APIKeyEnv = "VOXTYPE_LLM_API_KEY"
	cfg.Refine.MaxTokens = 256
	cfg.Refine.Temperature = 0.2

	// Hotkey defaults
	cfg.Hotkey.Backend = "hook"

	// Log defaults
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"

	return cfg
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithFallback attempts to load configuration from multiple locations
// Priority: explicit path > ~/.voxtype.yaml > /etc/voxtype/config.yaml
func LoadWithFallback(explicitPath string) (*Config, error) {
	// If explicit path is provided, use it
	if explicitPath != "" {
		return Load(explicitPath)
	}

	// Try user config (~/.voxtype.yaml)
	homeDir, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(homeDir, ".voxtype.yaml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return Load(userConfigPath)
		}
	}

	// Try system config
	systemConfigPath := "/etc/voxtype/config.yaml"
	if _, err := os.Stat(systemConfigPath); err == nil {
		return Load(systemConfigPath)
	}

	// No config file found, return defaults
	return DefaultConfig(), nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// APIKey returns the refinement API key from the configured env var
func (c *Config) APIKey() string {
	if c.Refine.APIKeyEnv == "" {
		return "local"
	}
	if v := os.Getenv(c.Refine.APIKeyEnv); v != "" {
		return v
	}
	return "local"
}

func (c *Config) expandPaths() {
	c.Paths.ModelDir = expandHome(c.Paths.ModelDir)
	c.Paths.AppConfig = expandHome(c.Paths.AppConfig)
	c.Paths.HistoryDir = expandHome(c.Paths.HistoryDir)
	c.Paths.AudioDumpDir = expandHome(c.Paths.AudioDumpDir)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
