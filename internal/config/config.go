// Package config loads the clerkd configuration from a TOML file under the
// XDG config directory, creating a default file on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "clerkd"

// defaultConfig is written verbatim when no config file exists yet.
const defaultConfig = `[mpd]
host = "localhost"
port = 6600
password = ""

[library]
# Size of the "latest albums" cache.
latest_albums = 50
# Number of tracks queued by the random-tracks operation.
random_tracks = 20
# When set, random tracks are drawn only from this artist.
preferred_artist = ""
`

// Config holds all clerkd settings.
type Config struct {
	MPD     MPDConfig     `koanf:"mpd"`
	Library LibraryConfig `koanf:"library"`

	// DataDir is where the cache and rating files live.
	// Defaults to $XDG_DATA_HOME/clerkd.
	DataDir string `koanf:"data_dir"`
}

// MPDConfig holds the MPD connection settings.
type MPDConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
}

// LibraryConfig holds library cache and playback settings.
type LibraryConfig struct {
	LatestAlbums    int    `koanf:"latest_albums"`
	RandomTracks    int    `koanf:"random_tracks"`
	PreferredArtist string `koanf:"preferred_artist"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// DefaultDataDir returns the default data directory for cache files.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// Load reads the config file at path, creating a default file first when none
// exists. An empty path selects DefaultPath. The MPD_HOST environment
// variable overrides the configured host.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefault(path); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if host := os.Getenv("MPD_HOST"); host != "" {
		cfg.MPD.Host = host
	}

	applyDefaults(cfg)
	return cfg, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}

func applyDefaults(cfg *Config) {
	if cfg.MPD.Host == "" {
		cfg.MPD.Host = "localhost"
	}
	if cfg.MPD.Port <= 0 {
		cfg.MPD.Port = 6600
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	if cfg.Library.LatestAlbums <= 0 {
		cfg.Library.LatestAlbums = 50
	}
	if cfg.Library.RandomTracks <= 0 {
		cfg.Library.RandomTracks = 20
	}
}
