// Package config loads client settings from defaults, an optional globe.json, .env and GLOBE_* variables
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory
const FileName = "globe.json"

// EnvPrefix prefixes environment overrides, e.g. GLOBE_API_BASEURL
const EnvPrefix = "GLOBE"

// APIConfig holds the countries API settings
type APIConfig struct {
	BaseURL string        `mapstructure:"baseUrl"`
	Timeout time.Duration `mapstructure:"timeout"`
	// Offline serves the embedded fixture instead of calling the API
	Offline bool `mapstructure:"offline"`
}

// FocusConfig holds hover and lookup timing
type FocusConfig struct {
	SettleDelay  time.Duration `mapstructure:"settleDelay"`
	ArrivalDelay time.Duration `mapstructure:"arrivalDelay"`
	FetchTimeout time.Duration `mapstructure:"fetchTimeout"`
}

// ScrollConfig holds the scroll-past commit settings
type ScrollConfig struct {
	CommitDuration time.Duration `mapstructure:"commitDuration"`
	CommitOffset   float64       `mapstructure:"commitOffset"`
	// CompactCommitOffset replaces CommitOffset on compact terminals
	CompactCommitOffset float64 `mapstructure:"compactCommitOffset"`
}

// SnapshotConfig holds the offline snapshot settings
type SnapshotConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Path      string        `mapstructure:"path"`
	DetailTTL time.Duration `mapstructure:"detailTtl"`
}

// LogConfig holds file logging settings
type LogConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Level     string `mapstructure:"level"`
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int    `mapstructure:"maxSizeMb"`
}

// AudioConfig holds cue settings
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// UIConfig holds presentation settings
type UIConfig struct {
	AnchorName    string        `mapstructure:"anchorName"`
	FrameInterval time.Duration `mapstructure:"frameInterval"`
	// Compact is "auto", "on" or "off"; auto picks compact below CompactWidth columns
	Compact      string `mapstructure:"compact"`
	CompactWidth int    `mapstructure:"compactWidth"`
	ListSize     int    `mapstructure:"listSize"`
	StatusLine   bool   `mapstructure:"statusLine"`
}

// Config is the full client configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Focus    FocusConfig    `mapstructure:"focus"`
	Scroll   ScrollConfig   `mapstructure:"scroll"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Log      LogConfig      `mapstructure:"log"`
	Audio    AudioConfig    `mapstructure:"audio"`
	UI       UIConfig       `mapstructure:"ui"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.baseUrl", "http://localhost:8787")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.offline", false)

	v.SetDefault("focus.settleDelay", "300ms")
	v.SetDefault("focus.arrivalDelay", "300ms")
	v.SetDefault("focus.fetchTimeout", "10s")

	v.SetDefault("scroll.commitDuration", "1s")
	v.SetDefault("scroll.commitOffset", 2)
	v.SetDefault("scroll.compactCommitOffset", 6)

	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("snapshot.path", "globe-snapshot.db")
	v.SetDefault("snapshot.detailTtl", "168h")

	v.SetDefault("log.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.maxSizeMb", 10)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 0.3)

	v.SetDefault("ui.anchorName", "Base")
	v.SetDefault("ui.frameInterval", "16ms")
	v.SetDefault("ui.compact", "auto")
	v.SetDefault("ui.compactWidth", 100)
	v.SetDefault("ui.listSize", 15)
	v.SetDefault("ui.statusLine", false)
}

// Load reads configDir/globe.json when present, then the environment
// envFile is loaded into the process environment first when it exists; variables already set win
func Load(configDir, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error loading env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(strings.TrimSuffix(FileName, ".json"))
	v.SetConfigType("json")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with
func (c Config) Validate() error {
	if !c.API.Offline && c.API.BaseURL == "" {
		return errors.New("api.baseUrl required unless api.offline is set")
	}
	if c.Focus.FetchTimeout <= 0 {
		return fmt.Errorf("focus.fetchTimeout must be positive, got %s", c.Focus.FetchTimeout)
	}
	if c.UI.FrameInterval <= 0 {
		return fmt.Errorf("ui.frameInterval must be positive, got %s", c.UI.FrameInterval)
	}
	switch c.UI.Compact {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("ui.compact must be auto, on or off, got %q", c.UI.Compact)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be within [0,1], got %v", c.Audio.Volume)
	}
	return nil
}

// CompactFor resolves the device class for a terminal width
func (c Config) CompactFor(width int) bool {
	switch c.UI.Compact {
	case "on":
		return true
	case "off":
		return false
	}
	return width < c.UI.CompactWidth
}

// CommitOffsetFor returns the scroll-past offset for the device class
func (c Config) CommitOffsetFor(compact bool) float64 {
	if compact {
		return c.Scroll.CompactCommitOffset
	}
	return c.Scroll.CommitOffset
}
