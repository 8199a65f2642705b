// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/dropalert/internal/banner"
)

// Default configuration values. Sizes are terminal cells.
const (
	DefaultPosition          = "top"
	DefaultDirection         = "straight"
	DefaultHeight            = 3
	DefaultAnimationDuration = 700 * time.Millisecond
	DefaultDismissDelay      = 2 * time.Second
	DefaultTitleColor        = "#ffffff"
	DefaultMessageColor      = "#ffffff"
	DefaultBackgroundColor   = "#47d69de6"
	DefaultBackdrop          = "#000000"
	DefaultFPS               = 30
	DefaultVolume            = 80
)

// Config represents the dropalert configuration.
type Config struct {
	Banner BannerConfig `toml:"banner" yaml:"banner"`
	Style  StyleConfig  `toml:"style" yaml:"style"`
	TUI    TUIConfig    `toml:"tui" yaml:"tui"`
	Sound  SoundConfig  `toml:"sound" yaml:"sound"`
}

// BannerConfig holds geometry and timing.
type BannerConfig struct {
	Position          string   `toml:"position" yaml:"position"`                     // top, bottom
	Direction         string   `toml:"direction" yaml:"direction"`                   // straight, from-left, from-right
	Height            int      `toml:"height" yaml:"height"`                         // rows
	AnimationDuration Duration `toml:"animation_duration" yaml:"animation_duration"` // e.g. "700ms"
	DismissDelay      Duration `toml:"dismiss_delay" yaml:"dismiss_delay"`           // e.g. "2s"
	TapWhileShowing   bool     `toml:"tap_while_showing" yaml:"tap_while_showing"`   // accept taps during entry
}

// StyleConfig holds colors and fonts.
type StyleConfig struct {
	TitleColor      string      `toml:"title_color" yaml:"title_color"`
	MessageColor    string      `toml:"message_color" yaml:"message_color"`
	BackgroundColor string      `toml:"background_color" yaml:"background_color"` // #rrggbb or #rrggbbaa
	Backdrop        string      `toml:"backdrop" yaml:"backdrop"`                 // what translucent backgrounds blend over
	TitleFont       banner.Font `toml:"title_font" yaml:"title_font"`
	MessageFont     banner.Font `toml:"message_font" yaml:"message_font"`
}

// TUIConfig holds terminal host settings.
type TUIConfig struct {
	FPS              int    `toml:"fps" yaml:"fps"`                           // animation frame rate
	StatusBarInset   int    `toml:"status_bar_inset" yaml:"status_bar_inset"` // rows reserved at the top
	Mouse            bool   `toml:"mouse" yaml:"mouse"`                       // click to tap
	ShowHelp         bool   `toml:"show_help" yaml:"show_help"`
	ClipboardCommand string `toml:"clipboard_command" yaml:"clipboard_command"` // auto-detected if empty
}

// SoundConfig holds the chime played when a banner appears.
type SoundConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	File    string `toml:"file" yaml:"file"`     // wav, ogg or mp3
	Volume  int    `toml:"volume" yaml:"volume"` // 0-100
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Banner: BannerConfig{
			Position:          DefaultPosition,
			Direction:         DefaultDirection,
			Height:            DefaultHeight,
			AnimationDuration: Duration(DefaultAnimationDuration),
			DismissDelay:      Duration(DefaultDismissDelay),
			TapWhileShowing:   false,
		},
		Style: StyleConfig{
			TitleColor:      DefaultTitleColor,
			MessageColor:    DefaultMessageColor,
			BackgroundColor: DefaultBackgroundColor,
			Backdrop:        DefaultBackdrop,
			TitleFont:       banner.DefaultTitleFont,
			MessageFont:     banner.DefaultMessageFont,
		},
		TUI: TUIConfig{
			FPS:            DefaultFPS,
			StatusBarInset: 0,
			Mouse:          true,
			ShowHelp:       true,
		},
		Sound: SoundConfig{
			Enabled: false,
			Volume:  DefaultVolume,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "dropalert", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed and replaces the file atomically.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Encode renders the configuration as "toml" or "yaml".
func (c *Config) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "toml":
		return toml.Marshal(c)
	case "yaml", "yml":
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("unknown format %q, must be toml or yaml", format)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := banner.ParsePosition(c.Banner.Position); err != nil {
		return err
	}
	if _, err := banner.ParseDirection(c.Banner.Direction); err != nil {
		return err
	}

	if c.Banner.Height < 1 || c.Banner.Height > 20 {
		return fmt.Errorf("height must be between 1 and 20, got %d", c.Banner.Height)
	}
	if c.Banner.AnimationDuration < 0 {
		return fmt.Errorf("animation_duration must not be negative, got %s", c.Banner.AnimationDuration.Duration())
	}
	if c.Banner.DismissDelay < 0 {
		return fmt.Errorf("dismiss_delay must not be negative, got %s", c.Banner.DismissDelay.Duration())
	}

	if _, err := c.Style.Colors(); err != nil {
		return err
	}

	if c.TUI.FPS < 1 || c.TUI.FPS > 120 {
		return fmt.Errorf("fps must be between 1 and 120, got %d", c.TUI.FPS)
	}
	if c.TUI.StatusBarInset < 0 {
		return fmt.Errorf("status_bar_inset must not be negative, got %d", c.TUI.StatusBarInset)
	}

	if c.Sound.Volume < 0 || c.Sound.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Sound.Volume)
	}

	return nil
}

// Position returns the parsed banner position.
func (c *Config) Position() banner.Position {
	p, err := banner.ParsePosition(c.Banner.Position)
	if err != nil {
		return banner.PositionTop
	}
	return p
}

// Direction returns the parsed banner direction.
func (c *Config) Direction() banner.Direction {
	d, err := banner.ParseDirection(c.Banner.Direction)
	if err != nil {
		return banner.DirectionStraight
	}
	return d
}

// Palette is the parsed set of style colors.
type Palette struct {
	Title      banner.Color
	Message    banner.Color
	Background banner.Color
	Backdrop   banner.Color
}

// Colors parses the configured colors.
func (s StyleConfig) Colors() (Palette, error) {
	var p Palette
	fields := []struct {
		name  string
		value string
		dst   *banner.Color
	}{
		{"title_color", s.TitleColor, &p.Title},
		{"message_color", s.MessageColor, &p.Message},
		{"background_color", s.BackgroundColor, &p.Background},
		{"backdrop", s.Backdrop, &p.Backdrop},
	}
	for _, f := range fields {
		c, err := banner.ParseColor(f.value)
		if err != nil {
			return Palette{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}
