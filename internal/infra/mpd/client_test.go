package mpd_test

import (
	"testing"

	"github.com/mpdclerk/clerkd/internal/infra/mpd"
)

// 16600 is assumed to have no listener; these tests exercise the error paths
// of the lazy-reconnect wrapper without a running MPD.

func TestNewClient(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if client == nil {
		t.Error("NewClient should return a non-nil client")
	}
}

func TestClientConnectFailure(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	err := client.Connect()
	if err == nil {
		t.Error("Connect should fail for non-existent server")
		client.Close()
	}
}

func TestClientPingWithoutConnect(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if err := client.Ping(); err == nil {
		t.Error("Ping should fail when not connected")
	}
}

func TestClientCurrentSongWithoutServer(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if _, err := client.CurrentSong(); err == nil {
		t.Error("CurrentSong should fail without a server")
	}
}

func TestClientClearWithoutServer(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if err := client.Clear(); err == nil {
		t.Error("Clear should fail without a server")
	}
}

func TestClientAddIDWithoutServer(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if _, err := client.AddID("test.flac", -1); err == nil {
		t.Error("AddID should fail without a server")
	}
}

func TestClientListAllInfoWithoutServer(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if _, err := client.ListAllInfo("/"); err == nil {
		t.Error("ListAllInfo should fail without a server")
	}
}

func TestClientFindTracksWithoutServer(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if _, err := client.FindTracks("Artist", "Album", "2001"); err == nil {
		t.Error("FindTracks should fail without a server")
	}
}

func TestClientStickerGetWithoutServer(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if _, _, err := client.StickerGet("test.flac", "rating"); err == nil {
		t.Error("StickerGet should fail without a server")
	}
}

func TestClientStickerSetWithoutServer(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if err := client.StickerSet("test.flac", "rating", "7"); err == nil {
		t.Error("StickerSet should fail without a server")
	}
}

func TestClientStickerDeleteWithoutServer(t *testing.T) {
	client := mpd.NewClient("localhost", 16600, "")

	if _, err := client.StickerDelete("test.flac", "rating"); err == nil {
		t.Error("StickerDelete should fail without a server")
	}
}
