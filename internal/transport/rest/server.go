// Package rest exposes the library facade over a small JSON REST API.
package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mpdclerk/clerkd/internal/library"
)

// HealthChecker is the liveness probe against the music daemon.
type HealthChecker interface {
	Ping() error
}

// Server maps HTTP routes onto the library facade. It carries no state of its
// own; all domain logic lives behind the facade.
type Server struct {
	library *library.Service
	health  HealthChecker
	handler http.Handler
}

// NewServer creates the REST server.
func NewServer(svc *library.Service, health HealthChecker) *Server {
	s := &Server{
		library: svc,
		health:  health,
	}

	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/version", s.handleVersion).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/albums", s.handleListAlbums).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/tracks", s.handleListTracks).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/albums/{id}/rating", s.handleGetAlbumRating).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/albums/{id}/rating", s.handleSetAlbumRating).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/tracks/{id}/rating", s.handleGetTrackRating).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/tracks/{id}/rating", s.handleSetTrackRating).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/playlist/albums/{id}", s.handleQueueAlbum).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/playlist/tracks/{id}", s.handleQueueTrack).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/playback/random/album", s.handleRandomAlbum).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/playback/random/tracks", s.handleRandomTracks).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/cache/rebuild", s.handleRebuildCache).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/current/rating", s.handleCurrentRating).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/current/rating", s.handleRateCurrent).Methods(http.MethodPost)

	s.handler = corsMiddleware(r)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// corsMiddleware sets CORS headers on ALL responses, including error
// responses, so browser frontends on another origin can read them.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
