package library

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/mpdclerk/clerkd/internal/infra/blob"
	"github.com/mpdclerk/clerkd/internal/ratings"
)

// PlaybackClient is the slice of the MPD surface the query/mutation facade
// needs for queue and playback operations.
type PlaybackClient interface {
	Clear() error
	AddID(uri string, pos int) (int, error)
	Play(pos int) error
	CurrentSong() (map[string]string, error)
	FindTracks(albumArtist, album, date string) ([]map[string]string, error)
}

// Options configure the facade's playback behavior.
type Options struct {
	// RandomTracks is the number of tracks queued by PlayRandomTracks.
	RandomTracks int
	// PreferredArtist, when set, restricts random track selection to tracks
	// by that artist.
	PreferredArtist string
}

// Service is the query/mutation facade over the caches, the rating stores
// and the daemon. Caches are re-read from disk per call so concurrent
// rebuilds and other processes sharing the data directory are picked up with
// bounded staleness.
type Service struct {
	mpd      PlaybackClient
	blobs    *blob.Store
	ratings  *ratings.Store
	stickers *ratings.StickerStore
	builder  *Builder
	opts     Options
}

// NewService creates the facade.
func NewService(mpd PlaybackClient, blobs *blob.Store, ratingStore *ratings.Store, stickers *ratings.StickerStore, builder *Builder, opts Options) *Service {
	if opts.RandomTracks <= 0 {
		opts.RandomTracks = 20
	}
	return &Service{
		mpd:      mpd,
		blobs:    blobs,
		ratings:  ratingStore,
		stickers: stickers,
		builder:  builder,
		opts:     opts,
	}
}

// RebuildCache rebuilds all three library caches from the daemon.
func (s *Service) RebuildCache() error {
	return s.builder.Rebuild()
}

// EnsureCache rebuilds the caches when any of the three files is missing.
func (s *Service) EnsureCache() error {
	if s.blobs.Exists(blob.AlbumCache) && s.blobs.Exists(blob.LatestCache) && s.blobs.Exists(blob.TracksCache) {
		return nil
	}
	return s.builder.Rebuild()
}

// ListAlbums returns the requested album cache joined with stored ratings.
// Ratings are reloaded from disk first so writes from other processes are
// visible.
func (s *Service) ListAlbums(variant Variant) ([]AlbumWithRating, error) {
	albums, err := s.loadAlbums(variant)
	if err != nil {
		return nil, err
	}
	if err := s.ratings.Reload(); err != nil {
		return nil, err
	}

	out := make([]AlbumWithRating, 0, len(albums))
	for _, a := range albums {
		rating, _ := s.ratings.Get(a.ID)
		out = append(out, AlbumWithRating{Album: a, Rating: rating})
	}
	return out, nil
}

// ListTracks returns the flat track cache.
func (s *Service) ListTracks() ([]Track, error) {
	return s.loadTracks()
}

// GetAlbumRating returns the stored rating for the album with the given id.
// An unrated album yields an empty rating; an unknown id yields ErrNotFound.
func (s *Service) GetAlbumRating(id string) (string, error) {
	album, err := s.findAlbum(id)
	if err != nil {
		return "", err
	}
	if err := s.ratings.Reload(); err != nil {
		return "", err
	}
	rating, _ := s.ratings.Get(album.ID)
	return rating, nil
}

// SetAlbumRating applies a rating change to the album with the given id.
func (s *Service) SetAlbumRating(id string, change ratings.Change) (bool, error) {
	album, err := s.findAlbum(id)
	if err != nil {
		return false, err
	}
	if err := s.ratings.Reload(); err != nil {
		return false, err
	}
	return s.ratings.Apply(album.ID, change)
}

// GetTrackRating returns the sticker rating for the track with the given id.
// An absent sticker yields an empty rating.
func (s *Service) GetTrackRating(id string) (string, error) {
	track, err := s.findTrack(id)
	if err != nil {
		return "", err
	}
	rating, _, err := s.stickers.Get(track.File)
	if err != nil {
		return "", daemonErr("track rating", err)
	}
	return rating, nil
}

// SetTrackRating applies a rating change to the track with the given id.
func (s *Service) SetTrackRating(id string, change ratings.Change) (bool, error) {
	track, err := s.findTrack(id)
	if err != nil {
		return false, err
	}
	changed, err := s.stickers.Apply(track.File, change)
	if err != nil {
		return false, daemonErr("track rating", err)
	}
	return changed, nil
}

// AddAlbumsToQueue adds the albums with the given ids to the play queue in
// the order given, each album's tracks in track-number order. Replace clears
// the queue first; replace and insert start playback afterwards.
func (s *Service) AddAlbumsToQueue(ids []string, mode QueueMode) error {
	albums := make([]Album, 0, len(ids))
	for _, id := range ids {
		album, err := s.findAlbum(id)
		if err != nil {
			return err
		}
		albums = append(albums, album)
	}

	pos, err := s.prepareQueue(mode)
	if err != nil {
		return err
	}
	for _, album := range albums {
		if pos, err = s.enqueueAlbum(album, pos); err != nil {
			return err
		}
	}
	return s.playAfter(mode)
}

// AddTracksToQueue adds the tracks with the given ids to the play queue,
// preserving their relative order.
func (s *Service) AddTracksToQueue(ids []string, mode QueueMode) error {
	tracks := make([]Track, 0, len(ids))
	for _, id := range ids {
		track, err := s.findTrack(id)
		if err != nil {
			return err
		}
		tracks = append(tracks, track)
	}

	pos, err := s.prepareQueue(mode)
	if err != nil {
		return err
	}
	for _, track := range tracks {
		if pos, err = s.enqueue(track.File, pos); err != nil {
			return err
		}
	}
	return s.playAfter(mode)
}

// PlayRandomAlbum clears the queue, picks one album uniformly at random from
// the full album cache, queues its tracks in track-number order and starts
// playback. Returns a human-readable description of what is playing.
func (s *Service) PlayRandomAlbum() (string, error) {
	albums, err := s.loadAlbums(VariantAlbum)
	if err != nil {
		return "", err
	}
	if len(albums) == 0 {
		return "", fmt.Errorf("album %w", ErrEmptyCache)
	}

	album := albums[rand.Intn(len(albums))]

	if err := s.mpd.Clear(); err != nil {
		return "", daemonErr("clear queue", err)
	}
	if _, err := s.enqueueAlbum(album, -1); err != nil {
		return "", err
	}
	if err := s.mpd.Play(-1); err != nil {
		return "", daemonErr("start playback", err)
	}
	return fmt.Sprintf("Playing: %s - %s (%s)", album.AlbumArtist, album.Album, album.Date), nil
}

// PlayRandomTracks clears the queue, picks the configured number of tracks
// uniformly at random without replacement from the track cache (optionally
// restricted to the preferred artist), queues them and starts playback.
func (s *Service) PlayRandomTracks() (string, error) {
	tracks, err := s.loadTracks()
	if err != nil {
		return "", err
	}

	pool := tracks
	if s.opts.PreferredArtist != "" {
		pool = make([]Track, 0, len(tracks))
		for _, t := range tracks {
			if t.Artist == s.opts.PreferredArtist {
				pool = append(pool, t)
			}
		}
	}
	if len(pool) == 0 {
		return "", fmt.Errorf("track %w", ErrEmptyCache)
	}

	count := s.opts.RandomTracks
	if count > len(pool) {
		count = len(pool)
	}

	if err := s.mpd.Clear(); err != nil {
		return "", daemonErr("clear queue", err)
	}
	for _, i := range rand.Perm(len(pool))[:count] {
		if _, err := s.enqueue(pool[i].File, -1); err != nil {
			return "", err
		}
	}
	if err := s.mpd.Play(-1); err != nil {
		return "", daemonErr("start playback", err)
	}
	return fmt.Sprintf("Playing %d random tracks", count), nil
}

// CurrentAlbumRating returns the stored rating for the album of the song
// currently playing. No current song yields ErrNotFound; a song whose tags
// cannot form an album key simply reads as unrated.
func (s *Service) CurrentAlbumRating() (string, error) {
	key, ok, err := s.currentSongKey()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	if err := s.ratings.Reload(); err != nil {
		return "", err
	}
	rating, _ := s.ratings.Get(key)
	return rating, nil
}

// RateCurrentAlbum applies a rating change to the album of the song currently
// playing. A song without a derivable album key reports changed=false.
func (s *Service) RateCurrentAlbum(change ratings.Change) (bool, error) {
	key, ok, err := s.currentSongKey()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := s.ratings.Reload(); err != nil {
		return false, err
	}
	return s.ratings.Apply(key, change)
}

func (s *Service) currentSongKey() (string, bool, error) {
	song, err := s.mpd.CurrentSong()
	if err != nil {
		return "", false, daemonErr("current song", err)
	}
	if len(song) == 0 || song["file"] == "" {
		return "", false, fmt.Errorf("no song playing: %w", ErrNotFound)
	}

	date := song["Date"]
	if date == "" {
		date = UnknownDate
	}
	key, ok := DeriveAlbumKey(albumArtistTag(song), song["Album"], date)
	return key, ok, nil
}

// prepareQueue applies the mode's pre-add step and returns the insert
// position (-1 appends).
func (s *Service) prepareQueue(mode QueueMode) (int, error) {
	switch mode {
	case ModeReplace:
		if err := s.mpd.Clear(); err != nil {
			return -1, daemonErr("clear queue", err)
		}
		return -1, nil
	case ModeInsert:
		return s.insertPos(), nil
	default:
		return -1, nil
	}
}

// insertPos finds the queue position right after the current song. When
// nothing is playing, inserts degrade to appends.
func (s *Service) insertPos() int {
	song, err := s.mpd.CurrentSong()
	if err != nil {
		return -1
	}
	pos, err := strconv.Atoi(song["Pos"])
	if err != nil {
		return -1
	}
	return pos + 1
}

func (s *Service) playAfter(mode QueueMode) error {
	if mode != ModeReplace && mode != ModeInsert {
		return nil
	}
	if err := s.mpd.Play(-1); err != nil {
		return daemonErr("start playback", err)
	}
	return nil
}

// enqueueAlbum queues all tracks of an album in track-number order, returning
// the advanced insert position.
func (s *Service) enqueueAlbum(album Album, pos int) (int, error) {
	found, err := s.mpd.FindTracks(album.AlbumArtist, album.Album, album.Date)
	if err != nil {
		return pos, daemonErr("find album tracks", err)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return trackNumber(found[i]["Track"]) < trackNumber(found[j]["Track"])
	})

	for _, track := range found {
		if pos, err = s.enqueue(track["file"], pos); err != nil {
			return pos, err
		}
	}
	return pos, nil
}

// enqueue adds one file to the queue, advancing pos when inserting.
func (s *Service) enqueue(file string, pos int) (int, error) {
	if _, err := s.mpd.AddID(file, pos); err != nil {
		return pos, daemonErr("add "+file+" to queue", err)
	}
	if pos >= 0 {
		pos++
	}
	return pos, nil
}

// daemonErr tags an MPD failure so the transport layer can map it distinctly
// from internal errors.
func daemonErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDaemon, err)
}

// trackNumber parses a Track tag, tolerating the "3/12" form.
func trackNumber(tag string) int {
	for i := 0; i < len(tag); i++ {
		if tag[i] < '0' || tag[i] > '9' {
			tag = tag[:i]
			break
		}
	}
	n, err := strconv.Atoi(tag)
	if err != nil {
		return 0
	}
	return n
}

func (s *Service) loadAlbums(variant Variant) ([]Album, error) {
	name := blob.AlbumCache
	if variant == VariantLatest {
		name = blob.LatestCache
	}

	var albums []Album
	if err := s.blobs.Load(name, &albums); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", name, ErrCacheMissing)
		}
		return nil, err
	}
	return albums, nil
}

func (s *Service) loadTracks() ([]Track, error) {
	var tracks []Track
	if err := s.blobs.Load(blob.TracksCache, &tracks); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", blob.TracksCache, ErrCacheMissing)
		}
		return nil, err
	}
	return tracks, nil
}

// findAlbum scans the full album cache for the given synthetic id. Library
// sizes make a linear scan acceptable; no index is maintained.
func (s *Service) findAlbum(id string) (Album, error) {
	albums, err := s.loadAlbums(VariantAlbum)
	if err != nil {
		return Album{}, err
	}
	for _, a := range albums {
		if a.ID == id {
			return a, nil
		}
	}
	return Album{}, fmt.Errorf("album %q: %w", id, ErrNotFound)
}

func (s *Service) findTrack(id string) (Track, error) {
	tracks, err := s.loadTracks()
	if err != nil {
		return Track{}, err
	}
	for _, t := range tracks {
		if t.ID == id {
			return t, nil
		}
	}
	return Track{}, fmt.Errorf("track %q: %w", id, ErrNotFound)
}
