// Package blob persists library snapshots and ratings as msgpack files under
// one data directory. Files are replaced atomically so a concurrent reader
// never observes a half-written blob.
package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Fixed file names inside the data directory. The layout is process-wide and
// shared with any other clerkd frontends pointed at the same directory.
const (
	AlbumCache   = "album.cache"
	LatestCache  = "latest.cache"
	TracksCache  = "tracks.cache"
	RatingsCache = "ratings.cache"
)

// ErrNotFound is returned by Load when the blob file does not exist.
var ErrNotFound = errors.New("cache file not found")

// Store reads and writes msgpack blobs in a single data directory.
type Store struct {
	dir string
}

// NewStore creates a store bound to dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Open ensures the data directory exists.
func (s *Store) Open() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	log.Debug().Str("dir", s.dir).Msg("Blob store opened")
	return nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether the named blob file is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// Load decodes the named blob into v. A missing file yields ErrNotFound; an
// empty file leaves v untouched.
func (s *Store) Load(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Save encodes v and atomically replaces the named blob.
func (s *Store) Save(name string, v interface{}) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.writeAtomic(name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// SaveAll replaces several blobs together. Every temp file is written and
// synced before the first rename, so an encode or write failure leaves all
// prior blobs untouched. The rename phase itself is not transactional: a
// rename failing after another has succeeded leaves the set partially
// updated, though renames within one directory rarely fail once the temp
// files exist.
func (s *Store) SaveAll(blobs map[string]interface{}) error {
	type staged struct {
		tmp   string
		final string
	}

	var files []staged
	cleanup := func() {
		for _, f := range files {
			os.Remove(f.tmp)
		}
	}

	for name, v := range blobs {
		data, err := msgpack.Marshal(v)
		if err != nil {
			cleanup()
			return fmt.Errorf("encode %s: %w", name, err)
		}
		tmp, err := s.writeTemp(name, data)
		if err != nil {
			cleanup()
			return fmt.Errorf("write %s: %w", name, err)
		}
		files = append(files, staged{tmp: tmp, final: filepath.Join(s.dir, name)})
	}

	for _, f := range files {
		if err := os.Rename(f.tmp, f.final); err != nil {
			cleanup()
			return fmt.Errorf("replace %s: %w", f.final, err)
		}
	}
	return nil
}

func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := s.writeTemp(name, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *Store) writeTemp(name string, data []byte) (string, error) {
	f, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
