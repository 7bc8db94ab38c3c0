package library

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mpdclerk/clerkd/internal/infra/blob"
)

// epochModified stands in for a missing Last-Modified tag so such tracks
// sort last in the latest-albums pass.
const epochModified = "1970-01-01T00:00:00Z"

// TrackSource is the slice of the MPD surface the builder needs: the full
// track listing with all tags.
type TrackSource interface {
	ListAllTracks() ([]map[string]string, error)
}

// Builder rebuilds the three library cache blobs from the daemon. A rebuild
// is all-or-nothing: a daemon or I/O failure leaves the prior caches intact.
type Builder struct {
	source      TrackSource
	blobs       *blob.Store
	latestCount int
}

// NewBuilder creates a cache builder. latestCount bounds the latest-albums
// cache; zero or negative means unbounded.
func NewBuilder(source TrackSource, blobs *blob.Store, latestCount int) *Builder {
	return &Builder{
		source:      source,
		blobs:       blobs,
		latestCount: latestCount,
	}
}

// Rebuild fetches the complete track listing and rewrites the album, latest
// and track caches. Malformed tags on individual tracks are defaulted, never
// fatal; only a daemon or write failure aborts the rebuild.
func (b *Builder) Rebuild() error {
	start := time.Now()
	log.Info().Msg("Starting library cache rebuild")

	songs, err := b.source.ListAllTracks()
	if err != nil {
		return daemonErr("list tracks", err)
	}

	tracks := make([]Track, 0, len(songs))
	albums := make([]Album, 0)
	seen := make(map[string]struct{})

	for _, song := range songs {
		file := song["file"]
		if file == "" {
			// listallinfo also yields directory and playlist rows
			continue
		}

		tracks = append(tracks, Track{
			ID:     strconv.Itoa(len(tracks)),
			File:   file,
			Track:  song["Track"],
			Title:  tagOrDefault(song, "Title", UnknownTitle),
			Artist: tagOrDefault(song, "Artist", UnknownArtist),
			Album:  tagOrDefault(song, "Album", UnknownAlbum),
			Date:   tagOrDefault(song, "Date", UnknownDate),
		})

		// A missing date defaults before keying, so date-less albums still
		// form a row and their ratings stay reachable.
		date := tagOrDefault(song, "Date", UnknownDate)
		key, ok := DeriveAlbumKey(albumArtistTag(song), song["Album"], date)
		if !ok {
			// Keyless tracks stay in the flat track cache only
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		albums = append(albums, Album{
			ID:          key,
			AlbumArtist: albumArtistTag(song),
			Album:       song["Album"],
			Date:        date,
			Year:        parseYear(date),
		})
	}

	latest := b.buildLatest(songs)

	if err := b.blobs.SaveAll(map[string]interface{}{
		blob.AlbumCache:  albums,
		blob.LatestCache: latest,
		blob.TracksCache: tracks,
	}); err != nil {
		return fmt.Errorf("persist caches: %w", err)
	}

	log.Info().
		Int("tracks", len(tracks)).
		Int("albums", len(albums)).
		Int("latest", len(latest)).
		Dur("duration", time.Since(start)).
		Msg("Library cache rebuild complete")
	return nil
}

// buildLatest produces the latest-albums cache: the same entries as the album
// cache, but ordered by the recency of their most recently modified track and
// capped at the configured count.
func (b *Builder) buildLatest(songs []map[string]string) []Album {
	recent := make([]map[string]string, 0, len(songs))
	for _, song := range songs {
		if song["file"] != "" {
			recent = append(recent, song)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return lastModified(recent[i]) > lastModified(recent[j])
	})

	latest := make([]Album, 0)
	seen := make(map[string]struct{})
	for _, song := range recent {
		date := tagOrDefault(song, "Date", UnknownDate)
		key, ok := DeriveAlbumKey(albumArtistTag(song), song["Album"], date)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		latest = append(latest, Album{
			ID:          key,
			AlbumArtist: albumArtistTag(song),
			Album:       song["Album"],
			Date:        date,
			Year:        parseYear(date),
		})
		if b.latestCount > 0 && len(latest) >= b.latestCount {
			break
		}
	}
	return latest
}

// albumArtistTag returns the AlbumArtist tag, falling back to Artist.
func albumArtistTag(song map[string]string) string {
	if v := song["AlbumArtist"]; v != "" {
		return v
	}
	return song["Artist"]
}

func tagOrDefault(song map[string]string, key, fallback string) string {
	if v := song[key]; v != "" {
		return v
	}
	return fallback
}

func lastModified(song map[string]string) string {
	if v := song["Last-Modified"]; v != "" {
		return v
	}
	return epochModified
}

// parseYear derives the sortable integer year from a date tag. Dates may be
// a bare year or a full timestamp; anything non-numeric yields 0.
func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
