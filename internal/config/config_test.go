package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	t.Setenv("MPD_HOST", "")
	path := filepath.Join(t.TempDir(), "clerkd", "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default config file to be created: %v", err)
	}

	if cfg.MPD.Host != "localhost" {
		t.Errorf("expected default host 'localhost', got %q", cfg.MPD.Host)
	}
	if cfg.MPD.Port != 6600 {
		t.Errorf("expected default port 6600, got %d", cfg.MPD.Port)
	}
	if cfg.Library.LatestAlbums != 50 {
		t.Errorf("expected default latest_albums 50, got %d", cfg.Library.LatestAlbums)
	}
	if cfg.Library.RandomTracks != 20 {
		t.Errorf("expected default random_tracks 20, got %d", cfg.Library.RandomTracks)
	}
	if cfg.DataDir == "" {
		t.Error("expected DataDir to be defaulted")
	}
}

func TestLoadExistingConfig(t *testing.T) {
	t.Setenv("MPD_HOST", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `data_dir = "/var/lib/clerkd"

[mpd]
host = "jukebox"
port = 6601

[library]
latest_albums = 10
random_tracks = 5
preferred_artist = "Boards of Canada"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MPD.Host != "jukebox" {
		t.Errorf("expected host 'jukebox', got %q", cfg.MPD.Host)
	}
	if cfg.MPD.Port != 6601 {
		t.Errorf("expected port 6601, got %d", cfg.MPD.Port)
	}
	if cfg.DataDir != "/var/lib/clerkd" {
		t.Errorf("expected data_dir '/var/lib/clerkd', got %q", cfg.DataDir)
	}
	if cfg.Library.LatestAlbums != 10 {
		t.Errorf("expected latest_albums 10, got %d", cfg.Library.LatestAlbums)
	}
	if cfg.Library.PreferredArtist != "Boards of Canada" {
		t.Errorf("unexpected preferred_artist %q", cfg.Library.PreferredArtist)
	}
}

func TestLoadEnvOverridesHost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[mpd]\nhost = \"filehost\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MPD_HOST", "envhost")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MPD.Host != "envhost" {
		t.Errorf("expected MPD_HOST to override config, got %q", cfg.MPD.Host)
	}
}

func TestLoadInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[mpd\nhost ="), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}
