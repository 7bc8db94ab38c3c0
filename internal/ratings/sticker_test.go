package ratings

import (
	"errors"
	"testing"
)

// MockStickerClient implements the StickerClient interface for testing.
type MockStickerClient struct {
	Stickers map[string]string

	GetError    error
	SetError    error
	DeleteError error

	SetCalls    int
	DeleteCalls int
}

func NewMockStickerClient() *MockStickerClient {
	return &MockStickerClient{Stickers: make(map[string]string)}
}

func (m *MockStickerClient) StickerGet(uri, name string) (string, bool, error) {
	if m.GetError != nil {
		return "", false, m.GetError
	}
	v, ok := m.Stickers[uri+"\x00"+name]
	return v, ok, nil
}

func (m *MockStickerClient) StickerSet(uri, name, value string) error {
	m.SetCalls++
	if m.SetError != nil {
		return m.SetError
	}
	m.Stickers[uri+"\x00"+name] = value
	return nil
}

func (m *MockStickerClient) StickerDelete(uri, name string) (bool, error) {
	m.DeleteCalls++
	if m.DeleteError != nil {
		return false, m.DeleteError
	}
	key := uri + "\x00" + name
	if _, ok := m.Stickers[key]; !ok {
		return false, nil
	}
	delete(m.Stickers, key)
	return true, nil
}

func TestStickerSetGetRoundTrip(t *testing.T) {
	client := NewMockStickerClient()
	s := NewStickerStore(client)

	changed, err := s.Apply("music/track.flac", Change{Op: OpSet, Value: "7"})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("setting a new rating should report changed=true")
	}

	v, found, err := s.Get("music/track.flac")
	if err != nil {
		t.Fatal(err)
	}
	if !found || v != "7" {
		t.Errorf("Get() = %q, %v; want \"7\", true", v, found)
	}
}

func TestStickerGetAbsent(t *testing.T) {
	s := NewStickerStore(NewMockStickerClient())

	_, found, err := s.Get("music/unrated.flac")
	if err != nil {
		t.Fatalf("absent sticker must not be an error: %v", err)
	}
	if found {
		t.Error("expected found=false for absent sticker")
	}
}

func TestStickerSetIdenticalValue(t *testing.T) {
	client := NewMockStickerClient()
	s := NewStickerStore(client)

	s.Apply("music/track.flac", Change{Op: OpSet, Value: "5"})
	setCalls := client.SetCalls

	changed, err := s.Apply("music/track.flac", Change{Op: OpSet, Value: "5"})
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("re-setting the identical value should report changed=false")
	}
	if client.SetCalls != setCalls {
		t.Error("re-setting the identical value should not hit the daemon")
	}
}

func TestStickerDeleteAbsent(t *testing.T) {
	s := NewStickerStore(NewMockStickerClient())

	changed, err := s.Apply("music/track.flac", Change{Op: OpUnset})
	if err != nil {
		t.Fatalf("deleting an absent sticker must not be an error: %v", err)
	}
	if changed {
		t.Error("deleting an absent sticker should report changed=false")
	}
}

func TestStickerNoOp(t *testing.T) {
	client := NewMockStickerClient()
	client.Stickers["music/track.flac\x00rating"] = "4"
	s := NewStickerStore(client)

	changed, err := s.Apply("music/track.flac", Change{Op: OpNone})
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("no-op should report changed=false")
	}
	if client.SetCalls != 0 || client.DeleteCalls != 0 {
		t.Error("no-op must not hit the daemon")
	}
	if client.Stickers["music/track.flac\x00rating"] != "4" {
		t.Error("no-op must not alter the stored sticker")
	}
}

func TestStickerErrorsPropagate(t *testing.T) {
	client := NewMockStickerClient()
	client.SetError = errors.New("connection reset")
	s := NewStickerStore(client)

	if _, err := s.Apply("music/track.flac", Change{Op: OpSet, Value: "6"}); err == nil {
		t.Error("daemon failure on set must propagate")
	}

	client = NewMockStickerClient()
	client.DeleteError = errors.New("connection reset")
	s = NewStickerStore(client)

	if _, err := s.Apply("music/track.flac", Change{Op: OpUnset}); err == nil {
		t.Error("daemon failure on delete must propagate")
	}
}
