// Package library mirrors the MPD library into local caches and provides the
// query and playback operations built on top of them.
package library

import (
	"errors"
	"fmt"
)

// Placeholder values substituted for missing track tags during a rebuild.
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	UnknownDate   = "0000"
)

// Sentinel errors translated by the transport layer.
var (
	// ErrNotFound reports that no cached entity has the requested id.
	// Distinct from a found-but-unrated entity, which is not an error.
	ErrNotFound = errors.New("not found")

	// ErrCacheMissing reports that a required cache file does not exist;
	// the caller is expected to run a rebuild first.
	ErrCacheMissing = errors.New("library cache missing")

	// ErrEmptyCache reports that a random-playback operation found no
	// candidates to choose from.
	ErrEmptyCache = errors.New("cache is empty")

	// ErrDaemon reports that an MPD call failed mid-operation.
	ErrDaemon = errors.New("mpd unavailable")
)

// Track is one row of the flat track cache. The id is dense in listing order
// and stable only within one cache build.
type Track struct {
	ID     string `msgpack:"id" json:"id"`
	File   string `msgpack:"file" json:"file"`
	Track  string `msgpack:"track" json:"track"`
	Title  string `msgpack:"title" json:"title"`
	Artist string `msgpack:"artist" json:"artist"`
	Album  string `msgpack:"album" json:"album"`
	Date   string `msgpack:"date" json:"date"`
}

// Album is one row of the album and latest-album caches. The id is the album
// key itself, so it stays stable across rebuilds as long as the metadata is
// unchanged.
type Album struct {
	ID          string `msgpack:"id" json:"id"`
	AlbumArtist string `msgpack:"albumartist" json:"albumartist"`
	Album       string `msgpack:"album" json:"album"`
	Date        string `msgpack:"date" json:"date"`
	Year        int    `msgpack:"year" json:"year"`
}

// AlbumWithRating joins an album cache entry with its stored rating.
// An empty rating means unrated.
type AlbumWithRating struct {
	Album
	Rating string `json:"rating,omitempty"`
}

// Variant selects which album cache a query reads.
type Variant string

const (
	VariantAlbum  Variant = "album"
	VariantLatest Variant = "latest"
)

// ParseVariant decodes an album cache variant name.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantAlbum, VariantLatest:
		return Variant(s), nil
	}
	return "", fmt.Errorf("invalid album cache variant %q", s)
}

// QueueMode selects how entities are added to the play queue.
type QueueMode string

const (
	// ModeAdd appends to the queue.
	ModeAdd QueueMode = "add"
	// ModeInsert places entries right after the current playback position.
	ModeInsert QueueMode = "insert"
	// ModeReplace clears the queue first, then starts playback.
	ModeReplace QueueMode = "replace"
)

// ParseQueueMode decodes a playlist mode.
func ParseQueueMode(s string) (QueueMode, error) {
	switch QueueMode(s) {
	case ModeAdd, ModeInsert, ModeReplace:
		return QueueMode(s), nil
	}
	return "", fmt.Errorf("invalid playlist mode %q", s)
}
