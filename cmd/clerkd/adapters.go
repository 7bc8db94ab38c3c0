package main

import (
	"github.com/mpdclerk/clerkd/internal/infra/mpd"
)

// libraryClient adapts the MPD client to the plain-map interfaces the library
// package consumes, keeping the gompd types out of the domain packages.
type libraryClient struct {
	mpd *mpd.Client
}

func (c *libraryClient) ListAllTracks() ([]map[string]string, error) {
	rows, err := c.mpd.ListAllInfo("/")
	if err != nil {
		return nil, err
	}
	return attrMaps(rows), nil
}

func (c *libraryClient) Clear() error {
	return c.mpd.Clear()
}

func (c *libraryClient) AddID(uri string, pos int) (int, error) {
	return c.mpd.AddID(uri, pos)
}

func (c *libraryClient) Play(pos int) error {
	return c.mpd.Play(pos)
}

func (c *libraryClient) CurrentSong() (map[string]string, error) {
	song, err := c.mpd.CurrentSong()
	if err != nil {
		return nil, err
	}
	return map[string]string(song), nil
}

func (c *libraryClient) FindTracks(albumArtist, album, date string) ([]map[string]string, error) {
	rows, err := c.mpd.FindTracks(albumArtist, album, date)
	if err != nil {
		return nil, err
	}
	return attrMaps(rows), nil
}

func attrMaps(rows []mpd.Attrs) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		out[i] = map[string]string(row)
	}
	return out
}
