// Package config loads plugin settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Clipboard backends.
const (
	// ClipboardRegister writes through Neovim's "+" register.
	ClipboardRegister = "register"
	// ClipboardSystem writes to the OS clipboard directly.
	ClipboardSystem = "system"
)

// Config describes the cheatsheet host configuration.
type Config struct {
	Addr          string        `env:"GIT_CHEATSHEET_ADDR"           envDefault:"127.0.0.1:7778"`
	Clipboard     string        `env:"GIT_CHEATSHEET_CLIPBOARD"      envDefault:"register"`
	OpenBrowser   bool          `env:"GIT_CHEATSHEET_OPEN_BROWSER"   envDefault:"true"`
	DisposeGrace  time.Duration `env:"GIT_CHEATSHEET_DISPOSE_GRACE"  envDefault:"3s"`
	AttachTimeout time.Duration `env:"GIT_CHEATSHEET_ATTACH_TIMEOUT" envDefault:"1m"`
	LogLevel      string        `env:"GIT_CHEATSHEET_LOG_LEVEL"      envDefault:"info"`
	LogFile       string        `env:"GIT_CHEATSHEET_LOG_FILE"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFromEnvironment reads the configuration from environ instead of the
// process environment.
func LoadFromEnvironment(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("GIT_CHEATSHEET_ADDR is required")
	}
	switch c.Clipboard {
	case ClipboardRegister, ClipboardSystem:
	default:
		return fmt.Errorf("GIT_CHEATSHEET_CLIPBOARD: unknown backend %q (want %q or %q)", c.Clipboard, ClipboardRegister, ClipboardSystem)
	}
	if c.DisposeGrace < 0 {
		return fmt.Errorf("GIT_CHEATSHEET_DISPOSE_GRACE must not be negative")
	}
	if c.AttachTimeout < 0 {
		return fmt.Errorf("GIT_CHEATSHEET_ATTACH_TIMEOUT must not be negative")
	}
	return nil
}
