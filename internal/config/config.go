package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Playback      PlaybackConfig      `koanf:"playback"`
	Session       SessionConfig       `koanf:"session"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Resume        ResumeConfig        `koanf:"resume"`
}

// PlaybackConfig holds facade and engine settings.
type PlaybackConfig struct {
	// InterceptCommands forwards external transport commands to the
	// host instead of executing them.
	InterceptCommands bool `koanf:"intercept_commands"`

	ForwardBySec int `koanf:"forward_by_sec"` // Forward seek increment (default: 15)
	RewindBySec  int `koanf:"rewind_by_sec"`  // Rewind seek increment (default: 5)

	// SpeakerBufferMs is handed to the engine without validation;
	// nonsense values surface as engine init errors.
	SpeakerBufferMs int `koanf:"speaker_buffer_ms"`
}

// SessionConfig holds MPRIS settings.
type SessionConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// NotificationsConfig holds desktop notification settings.
type NotificationsConfig struct {
	Enabled      *bool `koanf:"enabled"`        // default: true
	ShowFileInfo bool  `koanf:"show_file_info"` // append file size to the body
}

// ResumeConfig holds session restore settings.
type ResumeConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/cadence/config.toml
		filepath.Join(xdg.ConfigHome, "cadence", "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

// ForwardBy returns the forward seek increment with the default
// applied.
func (c *Config) ForwardBy() time.Duration {
	if c.Playback.ForwardBySec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Playback.ForwardBySec) * time.Second
}

// RewindBy returns the rewind seek increment with the default applied.
func (c *Config) RewindBy() time.Duration {
	if c.Playback.RewindBySec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Playback.RewindBySec) * time.Second
}

// SpeakerBuffer returns the configured speaker buffer, zero when
// unset. Deliberately unvalidated.
func (c *Config) SpeakerBuffer() time.Duration {
	return time.Duration(c.Playback.SpeakerBufferMs) * time.Millisecond
}

// SessionEnabled returns whether the MPRIS adapter should start.
func (c *Config) SessionEnabled() bool {
	return c.Session.Enabled == nil || *c.Session.Enabled
}

// NotificationsEnabled returns whether desktop notifications should be
// sent.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled == nil || *c.Notifications.Enabled
}

// ResumeEnabled returns whether the resume store should be used.
func (c *Config) ResumeEnabled() bool {
	return c.Resume.Enabled == nil || *c.Resume.Enabled
}
