package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/mpdclerk/clerkd/internal/library"
	"github.com/mpdclerk/clerkd/internal/ratings"
	"github.com/mpdclerk/clerkd/internal/version"
)

// ratingRequest is the body of every rating mutation.
type ratingRequest struct {
	Rating string `json:"rating"`
}

// queueRequest is the body of the playlist endpoints.
type queueRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Ping(); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"mpd":    "disconnected",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"mpd":    "connected",
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, version.GetInfo())
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("variant")
	if name == "" {
		name = string(library.VariantAlbum)
	}
	variant, err := library.ParseVariant(name)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	albums, err := s.library.ListAlbums(variant)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, albums)
}

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.library.ListTracks()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleGetAlbumRating(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rating, err := s.library.GetAlbumRating(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "rating": rating})
}

func (s *Server) handleSetAlbumRating(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	change, ok := decodeRating(w, r)
	if !ok {
		return
	}

	changed, err := s.library.SetAlbumRating(id, change)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"id": id, "changed": changed})
}

func (s *Server) handleGetTrackRating(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rating, err := s.library.GetTrackRating(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "rating": rating})
}

func (s *Server) handleSetTrackRating(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	change, ok := decodeRating(w, r)
	if !ok {
		return
	}

	changed, err := s.library.SetTrackRating(id, change)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"id": id, "changed": changed})
}

func (s *Server) handleQueueAlbum(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	mode, ok := decodeMode(w, r)
	if !ok {
		return
	}

	if err := s.library.AddAlbumsToQueue([]string{id}, mode); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQueueTrack(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	mode, ok := decodeMode(w, r)
	if !ok {
		return
	}

	if err := s.library.AddTracksToQueue([]string{id}, mode); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRandomAlbum(w http.ResponseWriter, r *http.Request) {
	msg, err := s.library.PlayRandomAlbum()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) handleRandomTracks(w http.ResponseWriter, r *http.Request) {
	msg, err := s.library.PlayRandomTracks()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) handleRebuildCache(w http.ResponseWriter, r *http.Request) {
	if err := s.library.RebuildCache(); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCurrentRating(w http.ResponseWriter, r *http.Request) {
	rating, err := s.library.CurrentAlbumRating()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"rating": rating})
}

func (s *Server) handleRateCurrent(w http.ResponseWriter, r *http.Request) {
	change, ok := decodeRating(w, r)
	if !ok {
		return
	}

	changed, err := s.library.RateCurrentAlbum(change)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"changed": changed})
}

// decodeRating reads and validates a rating mutation body, writing the 400
// response itself on failure.
func decodeRating(w http.ResponseWriter, r *http.Request) (ratings.Change, bool) {
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return ratings.Change{}, false
	}
	change, err := ratings.ParseChange(req.Rating)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return ratings.Change{}, false
	}
	return change, true
}

// decodeMode reads the playlist mode from the body. An empty body appends.
func decodeMode(w http.ResponseWriter, r *http.Request) (library.QueueMode, bool) {
	var req queueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return "", false
	}
	if req.Mode == "" {
		return library.ModeAdd, true
	}
	mode, err := library.ParseQueueMode(req.Mode)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return "", false
	}
	return mode, true
}

// respondServiceError maps facade sentinel errors onto HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, library.ErrCacheMissing), errors.Is(err, library.ErrEmptyCache):
		respondError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, library.ErrDaemon):
		log.Warn().Err(err).Msg("MPD call failed")
		respondError(w, http.StatusBadGateway, err)
	default:
		log.Error().Err(err).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, err)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
