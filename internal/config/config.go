package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/mgpai22/subtity/internal/player"
)

// playback defaults applied when a document is activated
type Playback struct {
	Offset float64 `toml:"offset"`
	Speed  float64 `toml:"speed"`
	// seconds between renders in `subtity play`
	Tick float64 `toml:"tick"`
}

type Library struct {
	Path string `toml:"path"`
}

// LLM translation settings
type Translate struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	Concurrency       int     `toml:"concurrency"`
	BatchSize         int     `toml:"batch_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// full contents of config.toml
type Config struct {
	Style     player.Style `toml:"style"`
	Playback  Playback     `toml:"playback"`
	Library   Library      `toml:"library"`
	Translate Translate    `toml:"translate"`
}

func Default() *Config {
	return &Config{
		Style: player.DefaultStyle(),
		Playback: Playback{
			Speed: 1,
			Tick:  0.25,
		},
		Translate: Translate{
			Provider:          "gemini",
			Concurrency:       3,
			BatchSize:         50,
			RequestsPerSecond: 1,
		},
	}
}

// ~/.subtity, created on demand by Save
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".subtity"), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// reads path over the defaults. A missing file is not an error.
// An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// writes cfg as TOML, creating the directory when needed
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// library database path, defaulting next to the config file
func (c *Config) LibraryPath() (string, error) {
	if c.Library.Path != "" {
		return c.Library.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "library.db"), nil
}

// zero values left by a partial file fall back to defaults
func (c *Config) normalize() {
	def := Default()
	if c.Playback.Speed <= 0 {
		c.Playback.Speed = def.Playback.Speed
	}
	if c.Playback.Tick <= 0 {
		c.Playback.Tick = def.Playback.Tick
	}
	if c.Translate.Concurrency <= 0 {
		c.Translate.Concurrency = def.Translate.Concurrency
	}
	if c.Translate.BatchSize <= 0 {
		c.Translate.BatchSize = def.Translate.BatchSize
	}
	if c.Translate.RequestsPerSecond <= 0 {
		c.Translate.RequestsPerSecond = def.Translate.RequestsPerSecond
	}
	if c.Style.Size <= 0 {
		c.Style.Size = def.Style.Size
	}
}

// API key for provider from its environment variable
func APIKeyFromEnv(provider string) string {
	switch provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}
