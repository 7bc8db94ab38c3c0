// Package mpd provides a wrapper around the gompd MPD client.
package mpd

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog/log"
)

// Attrs is a set of attributes returned by the daemon.
type Attrs = mpd.Attrs

// Client wraps the MPD client with reconnection logic. The connection is
// re-verified with a ping before each operation and re-established lazily
// when it has gone away.
type Client struct {
	mu       sync.RWMutex
	client   *mpd.Client
	host     string
	port     int
	password string
}

// NewClient creates a new MPD client wrapper.
func NewClient(host string, port int, password string) *Client {
	return &Client{
		host:     host,
		port:     port,
		password: password,
	}
}

// Connect establishes connection to MPD.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connectLocked()
}

// connectLocked establishes connection (must hold lock).
func (c *Client) connectLocked() error {
	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	log.Info().Str("addr", addr).Msg("Connecting to MPD")

	client, err := mpd.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to MPD: %w", err)
	}

	if c.password != "" {
		if err := client.Command("password %s", c.password).OK(); err != nil {
			client.Close()
			return fmt.Errorf("MPD authentication failed: %w", err)
		}
	}

	c.client = client
	log.Info().Msg("Connected to MPD")
	return nil
}

// ensureConnected checks connection and reconnects if needed.
func (c *Client) ensureConnected() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return c.connectLocked()
	}

	// Try a ping to check if connection is alive
	if err := c.client.Ping(); err != nil {
		log.Warn().Err(err).Msg("MPD connection lost, reconnecting...")
		c.client.Close()
		c.client = nil
		return c.connectLocked()
	}

	return nil
}

// Close closes the MPD connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		err := c.client.Close()
		c.client = nil
		return err
	}
	return nil
}

// Ping checks if the connection is alive.
func (c *Client) Ping() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil {
		return fmt.Errorf("not connected")
	}
	return c.client.Ping()
}

// Stats returns MPD database statistics (song, album and artist counts).
func (c *Client) Stats() (mpd.Attrs, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client.Stats()
}

// CurrentSong returns the currently playing song.
func (c *Client) CurrentSong() (mpd.Attrs, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client.CurrentSong()
}

// Play starts playback. If pos is -1, resumes at the current queue position.
func (c *Client) Play(pos int) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client.Play(pos)
}

// Clear clears the current queue.
func (c *Client) Clear() error {
	if err := c.ensureConnected(); err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client.Clear()
}

// AddID adds a URI to the queue and returns the assigned song id. A pos of -1
// appends; otherwise the song is inserted at that queue position.
func (c *Client) AddID(uri string, pos int) (int, error) {
	if err := c.ensureConnected(); err != nil {
		return -1, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client.AddID(uri, pos)
}

// ListAllInfo lists all songs in the database with their tags.
func (c *Client) ListAllInfo(uri string) ([]mpd.Attrs, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client.ListAllInfo(uri)
}

// FindTracks finds all tracks matching an exact album-artist, album and date.
func (c *Client) FindTracks(albumArtist, album, date string) ([]mpd.Attrs, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// AttrsList("file") tells the parser each song starts with "file:" key
	cmd := c.client.Command("find albumartist %s album %s date %s", albumArtist, album, date)
	return cmd.AttrsList("file")
}

// StickerGet reads a song sticker. A missing sticker is reported via the
// found flag, not as an error.
func (c *Client) StickerGet(uri, name string) (string, bool, error) {
	if err := c.ensureConnected(); err != nil {
		return "", false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	attrs, err := c.client.Command("sticker get song %s %s", uri, name).Attrs()
	if err != nil {
		if isNoSuchSticker(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sticker get %s: %w", uri, err)
	}

	// Response line is "sticker: name=value"
	raw := attrs["sticker"]
	if idx := strings.Index(raw, "="); idx >= 0 {
		return raw[idx+1:], true, nil
	}
	return raw, true, nil
}

// StickerSet writes a song sticker.
func (c *Client) StickerSet(uri, name, value string) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.client.Command("sticker set song %s %s %s", uri, name, value).OK(); err != nil {
		return fmt.Errorf("sticker set %s: %w", uri, err)
	}
	return nil
}

// StickerDelete removes a song sticker. Deleting a sticker that does not
// exist is not an error; the deleted flag reports whether one was removed.
func (c *Client) StickerDelete(uri, name string) (bool, error) {
	if err := c.ensureConnected(); err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.client.Command("sticker delete song %s %s", uri, name).OK(); err != nil {
		if isNoSuchSticker(err) {
			return false, nil
		}
		return false, fmt.Errorf("sticker delete %s: %w", uri, err)
	}
	return true, nil
}

// isNoSuchSticker matches the MPD "no such sticker" ACK.
func isNoSuchSticker(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "no such sticker")
}
