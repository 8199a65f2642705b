package audio

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/dropalert/internal/config"
)

// Chime plays the configured sound whenever a banner appears.
type Chime struct {
	mu      sync.Mutex
	player  *Player
	enabled bool
	file    string
}

// NewChime creates a chime from the [sound] config section.
func NewChime(cfg config.SoundConfig, logger *slog.Logger) *Chime {
	c := &Chime{player: NewPlayer(logger)}
	c.Apply(cfg)
	return c
}

// Apply updates the chime from a reloaded config.
func (c *Chime) Apply(cfg config.SoundConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = cfg.Enabled
	c.file = cfg.File
	c.player.SetVolume(float64(cfg.Volume) / 100.0)
}

// Enabled reports whether the chime will play.
func (c *Chime) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled && c.file != ""
}

// Play plays the chime if one is enabled.
func (c *Chime) Play() error {
	c.mu.Lock()
	enabled, file := c.enabled, c.file
	c.mu.Unlock()

	if !enabled {
		return nil
	}
	return c.player.Play(file)
}

// Close releases the speaker.
func (c *Chime) Close() {
	c.player.Close()
}
