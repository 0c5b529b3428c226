// Package config provides configuration management for pomo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// DefaultDataDir is the data directory used when none is configured.
const DefaultDataDir = "~/.pomo"

// Config holds all configuration for the pomo application.
type Config struct {
	Defaults      DefaultsConfig     `mapstructure:"defaults"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Autosave      AutosaveConfig     `mapstructure:"autosave"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`

	path string
}

// DefaultsConfig holds the first-run timer settings. Once a snapshot exists
// its saved settings take precedence.
type DefaultsConfig struct {
	WorkMinutes       int    `mapstructure:"work_minutes"`
	ShortBreakMinutes int    `mapstructure:"short_break_minutes"`
	LongBreakMinutes  int    `mapstructure:"long_break_minutes"`
	LongBreakEvery    int    `mapstructure:"long_break_every"`
	AutoStartNext     bool   `mapstructure:"auto_start_next"`
	SoundEnabled      bool   `mapstructure:"sound_enabled"`
	WhiteNoiseEnabled bool   `mapstructure:"white_noise_enabled"`
	WhiteNoiseType    string `mapstructure:"white_noise_type"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
	Backend string `mapstructure:"backend"`
}

// AutosaveConfig holds the snapshot write-behind settings.
type AutosaveConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LogConfig holds diagnostics logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorWork           string `mapstructure:"color_work"`
	ColorBreak          string `mapstructure:"color_break"`
	ColorPaused         string `mapstructure:"color_paused"`
	ColorTitle          string `mapstructure:"color_title"`
	ColorTask           string `mapstructure:"color_task"`
	ColorHelp           string `mapstructure:"color_help"`
	WorkGradientStart   string `mapstructure:"work_gradient_start"`
	WorkGradientEnd     string `mapstructure:"work_gradient_end"`
	BreakGradientStart  string `mapstructure:"break_gradient_start"`
	BreakGradientEnd    string `mapstructure:"break_gradient_end"`
	PausedGradientStart string `mapstructure:"paused_gradient_start"`
	PausedGradientEnd   string `mapstructure:"paused_gradient_end"`
	IconApp             string `mapstructure:"icon_app"`
	IconTask            string `mapstructure:"icon_task"`
	IconStats           string `mapstructure:"icon_stats"`
	IconPaused          string `mapstructure:"icon_paused"`
	IconNoise           string `mapstructure:"icon_noise"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:           "#E05D5D",
		ColorBreak:          "#4ECDC4",
		ColorPaused:         "#6B7280",
		ColorTitle:          "#6B7280",
		ColorTask:           "#A0AEC0",
		ColorHelp:           "#95A5A6",
		WorkGradientStart:   "#E05D5D",
		WorkGradientEnd:     "#F4A261",
		BreakGradientStart:  "#4ECDC4",
		BreakGradientEnd:    "#2ECC71",
		PausedGradientStart: "#6B7280",
		PausedGradientEnd:   "#4B5563",
		IconApp:             "🍅",
		IconTask:            "📋",
		IconStats:           "📊",
		IconPaused:          "⏸",
		IconNoise:           "🎧",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	s := domain.DefaultSettings()
	return &Config{
		Defaults: DefaultsConfig{
			WorkMinutes:       s.WorkMinutes,
			ShortBreakMinutes: s.ShortBreakMinutes,
			LongBreakMinutes:  s.LongBreakMinutes,
			LongBreakEvery:    s.LongBreakEvery,
			AutoStartNext:     s.AutoStartNext,
			SoundEnabled:      s.SoundEnabled,
			WhiteNoiseEnabled: s.WhiteNoiseEnabled,
			WhiteNoiseType:    string(s.WhiteNoiseType),
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: DefaultDataDir,
			Backend: "sqlite",
		},
		Autosave: AutosaveConfig{
			Debounce: 300 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Settings converts the [defaults] section into clamped timer settings.
func (c *Config) Settings() domain.Settings {
	s := domain.DefaultSettings()
	s.WorkMinutes = c.Defaults.WorkMinutes
	s.ShortBreakMinutes = c.Defaults.ShortBreakMinutes
	s.LongBreakMinutes = c.Defaults.LongBreakMinutes
	s.LongBreakEvery = c.Defaults.LongBreakEvery
	s.AutoStartNext = c.Defaults.AutoStartNext
	s.SoundEnabled = c.Defaults.SoundEnabled
	s.WhiteNoiseEnabled = c.Defaults.WhiteNoiseEnabled
	s.WhiteNoiseType = domain.NoiseType(c.Defaults.WhiteNoiseType)
	return s.Normalize()
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating it with
// defaults when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.path = configPath
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix("POMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.path = configPath

	dataDir, err := ExpandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Storage.DataDir, "pomo.log")
	}

	return &cfg, nil
}

// Save saves the configuration to the file it was loaded from, or to the
// default config path.
func Save(cfg *Config) error {
	configPath := cfg.path
	if configPath == "" {
		p, err := GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		configPath = p
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set all values
	v.Set("defaults.work_minutes", cfg.Defaults.WorkMinutes)
	v.Set("defaults.short_break_minutes", cfg.Defaults.ShortBreakMinutes)
	v.Set("defaults.long_break_minutes", cfg.Defaults.LongBreakMinutes)
	v.Set("defaults.long_break_every", cfg.Defaults.LongBreakEvery)
	v.Set("defaults.auto_start_next", cfg.Defaults.AutoStartNext)
	v.Set("defaults.sound_enabled", cfg.Defaults.SoundEnabled)
	v.Set("defaults.white_noise_enabled", cfg.Defaults.WhiteNoiseEnabled)
	v.Set("defaults.white_noise_type", cfg.Defaults.WhiteNoiseType)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("autosave.debounce", cfg.Autosave.Debounce.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	t := cfg.Theme
	v.Set("theme.color_work", t.ColorWork)
	v.Set("theme.color_break", t.ColorBreak)
	v.Set("theme.color_paused", t.ColorPaused)
	v.Set("theme.color_title", t.ColorTitle)
	v.Set("theme.color_task", t.ColorTask)
	v.Set("theme.color_help", t.ColorHelp)
	v.Set("theme.work_gradient_start", t.WorkGradientStart)
	v.Set("theme.work_gradient_end", t.WorkGradientEnd)
	v.Set("theme.break_gradient_start", t.BreakGradientStart)
	v.Set("theme.break_gradient_end", t.BreakGradientEnd)
	v.Set("theme.paused_gradient_start", t.PausedGradientStart)
	v.Set("theme.paused_gradient_end", t.PausedGradientEnd)
	v.Set("theme.icon_app", t.IconApp)
	v.Set("theme.icon_task", t.IconTask)
	v.Set("theme.icon_stats", t.IconStats)
	v.Set("theme.icon_paused", t.IconPaused)
	v.Set("theme.icon_noise", t.IconNoise)

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pomo", "config.toml"), nil
}

// ExpandHome resolves a leading ~ and substitutes the default data
// directory for an empty path.
func ExpandHome(path string) (string, error) {
	if path == "" {
		path = DefaultDataDir
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("defaults.work_minutes", d.Defaults.WorkMinutes)
	v.SetDefault("defaults.short_break_minutes", d.Defaults.ShortBreakMinutes)
	v.SetDefault("defaults.long_break_minutes", d.Defaults.LongBreakMinutes)
	v.SetDefault("defaults.long_break_every", d.Defaults.LongBreakEvery)
	v.SetDefault("defaults.auto_start_next", d.Defaults.AutoStartNext)
	v.SetDefault("defaults.sound_enabled", d.Defaults.SoundEnabled)
	v.SetDefault("defaults.white_noise_enabled", d.Defaults.WhiteNoiseEnabled)
	v.SetDefault("defaults.white_noise_type", d.Defaults.WhiteNoiseType)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("autosave.debounce", d.Autosave.Debounce.String())
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", "")

	// Theme defaults
	t := d.Theme
	v.SetDefault("theme.color_work", t.ColorWork)
	v.SetDefault("theme.color_break", t.ColorBreak)
	v.SetDefault("theme.color_paused", t.ColorPaused)
	v.SetDefault("theme.color_title", t.ColorTitle)
	v.SetDefault("theme.color_task", t.ColorTask)
	v.SetDefault("theme.color_help", t.ColorHelp)
	v.SetDefault("theme.work_gradient_start", t.WorkGradientStart)
	v.SetDefault("theme.work_gradient_end", t.WorkGradientEnd)
	v.SetDefault("theme.break_gradient_start", t.BreakGradientStart)
	v.SetDefault("theme.break_gradient_end", t.BreakGradientEnd)
	v.SetDefault("theme.paused_gradient_start", t.PausedGradientStart)
	v.SetDefault("theme.paused_gradient_end", t.PausedGradientEnd)
	v.SetDefault("theme.icon_app", t.IconApp)
	v.SetDefault("theme.icon_task", t.IconTask)
	v.SetDefault("theme.icon_stats", t.IconStats)
	v.SetDefault("theme.icon_paused", t.IconPaused)
	v.SetDefault("theme.icon_noise", t.IconNoise)
}
