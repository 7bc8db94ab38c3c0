package ratings

import "fmt"

// stickerName is the MPD sticker under which track ratings are stored.
const stickerName = "rating"

// StickerClient is the slice of the MPD surface the sticker store needs.
// Absent stickers are reported via the found/deleted flags, never as errors.
type StickerClient interface {
	StickerGet(uri, name string) (value string, found bool, err error)
	StickerSet(uri, name, value string) error
	StickerDelete(uri, name string) (deleted bool, err error)
}

// StickerStore stores per-track ratings in the daemon itself, keyed by file
// path. Nothing is persisted locally, so track ratings survive cache
// rebuilds independently of the album rating file.
type StickerStore struct {
	client StickerClient
}

// NewStickerStore creates a sticker-backed track rating store.
func NewStickerStore(client StickerClient) *StickerStore {
	return &StickerStore{client: client}
}

// Get returns the rating sticker for a track file, if any.
func (s *StickerStore) Get(uri string) (string, bool, error) {
	value, found, err := s.client.StickerGet(uri, stickerName)
	if err != nil {
		return "", false, fmt.Errorf("get track rating: %w", err)
	}
	return value, found, nil
}

// Apply performs a rating mutation on a track file. Unsetting an absent
// sticker and re-setting the identical value both report changed=false.
// Daemon failures propagate; a track rating mutation never fails silently.
func (s *StickerStore) Apply(uri string, change Change) (bool, error) {
	switch change.Op {
	case OpNone:
		return false, nil
	case OpUnset:
		deleted, err := s.client.StickerDelete(uri, stickerName)
		if err != nil {
			return false, fmt.Errorf("delete track rating: %w", err)
		}
		return deleted, nil
	case OpSet:
		current, found, err := s.client.StickerGet(uri, stickerName)
		if err != nil {
			return false, fmt.Errorf("read track rating: %w", err)
		}
		if found && current == change.Value {
			return false, nil
		}
		if err := s.client.StickerSet(uri, stickerName, change.Value); err != nil {
			return false, fmt.Errorf("set track rating: %w", err)
		}
		return true, nil
	}
	return false, nil
}
