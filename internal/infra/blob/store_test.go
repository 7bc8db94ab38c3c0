package blob

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(t.TempDir())

	var out []string
	err := s.Load(AlbumCache, &out)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, RatingsCache), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir)
	out := map[string]string{}
	if err := s.Load(RatingsCache, &out); err != nil {
		t.Fatalf("Load() of empty file should not error, got %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty map, got %v", out)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}

	type entry struct {
		ID    string `msgpack:"id"`
		Title string `msgpack:"title"`
		Year  int    `msgpack:"year"`
	}

	in := []entry{
		{ID: "a|||b|||2001", Title: "b", Year: 2001},
		{ID: "c|||d|||1999", Title: "d", Year: 1999},
	}
	if err := s.Save(AlbumCache, in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	var out []entry
	if err := s.Load(AlbumCache, &out); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d entries, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, in[i], out[i])
		}
	}
}

func TestSaveAllReplacesTogether(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}

	err := s.SaveAll(map[string]interface{}{
		AlbumCache:  []string{"a"},
		LatestCache: []string{"b"},
		TracksCache: []string{"c", "d"},
	})
	if err != nil {
		t.Fatalf("SaveAll() error: %v", err)
	}

	for _, name := range []string{AlbumCache, LatestCache, TracksCache} {
		if !s.Exists(name) {
			t.Errorf("expected %s to exist", name)
		}
	}

	var tracks []string
	if err := s.Load(TracksCache, &tracks); err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 || tracks[0] != "c" || tracks[1] != "d" {
		t.Errorf("unexpected tracks blob: %v", tracks)
	}
}

func TestSaveAllLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.SaveAll(map[string]interface{}{AlbumCache: []int{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != AlbumCache {
			t.Errorf("unexpected leftover file %s", e.Name())
		}
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Save(RatingsCache, map[string]string{"k": "5"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(RatingsCache, map[string]string{"k": "7"}); err != nil {
		t.Fatal(err)
	}

	out := map[string]string{}
	if err := s.Load(RatingsCache, &out); err != nil {
		t.Fatal(err)
	}
	if out["k"] != "7" {
		t.Errorf("expected overwritten value '7', got %q", out["k"])
	}
}
