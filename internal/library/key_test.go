package library

import "testing"

func TestDeriveAlbumKey(t *testing.T) {
	key, ok := DeriveAlbumKey("Artist", "Album", "2020")
	if !ok {
		t.Fatal("expected a key for complete metadata")
	}
	if key != "Artist|||Album|||2020" {
		t.Errorf("unexpected key %q", key)
	}
}

func TestDeriveAlbumKeyDeterministic(t *testing.T) {
	a, _ := DeriveAlbumKey("Artist", "Album", "2020")
	b, _ := DeriveAlbumKey("Artist", "Album", "2020")
	if a != b {
		t.Errorf("identical inputs produced different keys: %q vs %q", a, b)
	}
}

func TestDeriveAlbumKeyComponentsMatter(t *testing.T) {
	base, _ := DeriveAlbumKey("Artist", "Album", "2020")

	variants := [][3]string{
		{"Other", "Album", "2020"},
		{"Artist", "Other", "2020"},
		{"Artist", "Album", "2021"},
	}
	for _, v := range variants {
		key, ok := DeriveAlbumKey(v[0], v[1], v[2])
		if !ok {
			t.Fatalf("expected a key for %v", v)
		}
		if key == base {
			t.Errorf("changing a component should change the key: %v", v)
		}
	}
}

func TestDeriveAlbumKeyMissingComponents(t *testing.T) {
	tests := []struct {
		name                string
		artist, album, date interface{}
	}{
		{name: "empty artist", artist: "", album: "Album", date: "2020"},
		{name: "empty album", artist: "Artist", album: "", date: "2020"},
		{name: "empty date", artist: "Artist", album: "Album", date: ""},
		{name: "absence marker", artist: "none", album: "Album", date: "2020"},
		{name: "nil input", artist: nil, album: "Album", date: "2020"},
		{name: "empty sequence", artist: []string{}, album: "Album", date: "2020"},
		{name: "unexpected type", artist: 42, album: "Album", date: "2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if key, ok := DeriveAlbumKey(tt.artist, tt.album, tt.date); ok {
				t.Errorf("expected no key, got %q", key)
			}
		})
	}
}

func TestDeriveAlbumKeySingletonLists(t *testing.T) {
	key, ok := DeriveAlbumKey([]string{"Artist", "Second"}, []interface{}{"Album"}, "2020")
	if !ok {
		t.Fatal("expected a key for list-valued tags")
	}
	if key != "Artist|||Album|||2020" {
		t.Errorf("expected first element of each list to be used, got %q", key)
	}
}
