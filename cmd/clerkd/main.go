// Package main is the entry point for the clerkd music library daemon.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mpdclerk/clerkd/internal/config"
	"github.com/mpdclerk/clerkd/internal/infra/blob"
	"github.com/mpdclerk/clerkd/internal/infra/mpd"
	"github.com/mpdclerk/clerkd/internal/library"
	"github.com/mpdclerk/clerkd/internal/ratings"
	"github.com/mpdclerk/clerkd/internal/transport/rest"
	"github.com/mpdclerk/clerkd/internal/version"
)

func main() {
	// Command line flags; flags override the config file
	configPath := flag.String("config", "", "Config file path (default: XDG config dir)")
	port := flag.String("port", "8015", "HTTP server port")
	mpdHost := flag.String("mpd-host", "", "MPD host (overrides config)")
	mpdPort := flag.Int("mpd-port", 0, "MPD port (overrides config)")
	mpdPassword := flag.String("mpd-password", "", "MPD password (overrides config)")
	dataDir := flag.String("data-dir", "", "Cache data directory (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *mpdHost != "" {
		cfg.MPD.Host = *mpdHost
	}
	if *mpdPort != 0 {
		cfg.MPD.Port = *mpdPort
	}
	if *mpdPassword != "" {
		cfg.MPD.Password = *mpdPassword
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	versionInfo := version.GetInfo()
	log.Info().Msgf("%s", versionInfo.String())
	log.Info().
		Str("port", *port).
		Str("mpd_host", cfg.MPD.Host).
		Int("mpd_port", cfg.MPD.Port).
		Bool("password_set", cfg.MPD.Password != "").
		Str("data_dir", cfg.DataDir).
		Msg("Configuration")

	// Connect to MPD
	mpdClient := mpd.NewClient(cfg.MPD.Host, cfg.MPD.Port, cfg.MPD.Password)
	if err := mpdClient.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MPD")
	}
	defer mpdClient.Close()

	if err := mpdClient.Ping(); err != nil {
		log.Fatal().Err(err).Msg("MPD ping failed")
	}
	if stats, err := mpdClient.Stats(); err == nil {
		log.Info().
			Str("songs", stats["songs"]).
			Str("albums", stats["albums"]).
			Str("artists", stats["artists"]).
			Msg("MPD connection verified")
	}

	// Open the cache blob store
	blobs := blob.NewStore(cfg.DataDir)
	if err := blobs.Open(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("Failed to open data directory")
	}

	// Wire the library facade
	client := &libraryClient{mpd: mpdClient}
	builder := library.NewBuilder(client, blobs, cfg.Library.LatestAlbums)
	svc := library.NewService(
		client,
		blobs,
		ratings.NewStore(blobs),
		ratings.NewStickerStore(mpdClient),
		builder,
		library.Options{
			RandomTracks:    cfg.Library.RandomTracks,
			PreferredArtist: cfg.Library.PreferredArtist,
		},
	)

	// First run: build the caches before serving
	if err := svc.EnsureCache(); err != nil {
		log.Fatal().Err(err).Msg("Initial cache build failed")
	}

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      rest.NewServer(svc, mpdClient),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("addr", ":"+*port).Msg("HTTP server listening")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	log.Info().Msg("Server stopped")
}
