package library

const (
	// keyDelimiter joins the album key components. Chosen to be unlikely in
	// real metadata; no escaping is performed, so a genuine "|||" in a tag
	// would collide (accepted, matching the daemon-side absence of escaping).
	keyDelimiter = "|||"

	// absentMarker is the literal the daemon's tag system uses for "no value".
	absentMarker = "none"
)

// DeriveAlbumKey computes the stable composite album identity from
// album-artist, album title and release date. Each input may be a string or
// a sequence (tag values sometimes arrive as singleton lists; msgpack decodes
// those as []interface{}), in which case the first element is used. The key
// is a pure function of its inputs; any missing, empty or absent-marker
// component yields ok=false, never an error.
func DeriveAlbumKey(albumArtist, album, date interface{}) (string, bool) {
	artist, ok := coerceTag(albumArtist)
	if !ok {
		return "", false
	}
	title, ok := coerceTag(album)
	if !ok {
		return "", false
	}
	release, ok := coerceTag(date)
	if !ok {
		return "", false
	}
	return artist + keyDelimiter + title + keyDelimiter + release, true
}

// coerceTag normalizes a scalar-or-sequence tag value to a plain string.
func coerceTag(v interface{}) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []string:
		if len(t) == 0 {
			return "", false
		}
		s = t[0]
	case []interface{}:
		if len(t) == 0 {
			return "", false
		}
		return coerceTag(t[0])
	default:
		return "", false
	}
	if s == "" || s == absentMarker {
		return "", false
	}
	return s, true
}
