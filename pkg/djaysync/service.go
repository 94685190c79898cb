package djaysync

import (
	"context"
	"errors"
	"fmt"

	"github.com/himanishpuri/djaysync/pkg/djaysync/music"
	"github.com/himanishpuri/djaysync/pkg/logger"
	"github.com/himanishpuri/djaysync/pkg/models"
)

var ErrNoDBPath = errors.New("no djay library path configured")

// syncService is the default implementation of the Service interface.
type syncService struct {
	library Library
	planner *Planner
	updater Updater
	log     Logger
	config  *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	lib := cfg.Library
	if lib == nil {
		if cfg.DBPath == "" {
			return nil, ErrNoDBPath
		}
		var err error
		lib, err = OpenLibrary(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open library: %w", err)
		}
	}

	upd := cfg.Updater
	if upd == nil {
		upd = music.NewUpdater(music.Options{
			NoOverwrite:      cfg.NoOverwrite,
			UpdateAllMatches: cfg.UpdateAllMatches,
		}, cfg.ScriptTimeout)
	}

	return &syncService{
		library: lib,
		planner: NewPlanner(lib, cfg.Logger),
		updater: upd,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

// ListPlaylists returns the library's playlists sorted by name.
func (s *syncService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return s.library.ListPlaylists(ctx)
}

// PlanPlaylist resolves a playlist and plans an update for each of its tracks.
func (s *syncService) PlanPlaylist(ctx context.Context, nameOrUUID string) ([]models.PlannedUpdate, error) {
	playlist, err := s.library.FindPlaylist(ctx, nameOrUUID)
	if err != nil {
		return nil, err
	}

	ids, err := s.library.PlaylistTrackIDs(ctx, playlist.UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist %q: %w", playlist.Name, err)
	}
	s.log.Infof("Playlist %q has %d tracks", playlist.Name, len(ids))

	if s.config.Limit > 0 && len(ids) > s.config.Limit {
		ids = ids[:s.config.Limit]
		s.log.Infof("Limiting to first %d tracks", s.config.Limit)
	}

	planned, err := s.planner.PlanTracks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("planning failed: %w", err)
	}

	s.log.Infof("Planned %d tracks (%d without title/artist dropped)", len(planned), len(ids)-len(planned))
	return planned, nil
}

// Apply writes each planned update in order and tallies the outcomes.
// Skippable updates are counted as skipped without invoking the updater.
func (s *syncService) Apply(ctx context.Context, updates []models.PlannedUpdate, onResult ResultFunc) (models.Summary, error) {
	summary := models.Summary{}

	for _, u := range updates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var outcome models.Outcome
		if u.Skippable() {
			outcome = models.Outcome{Kind: models.OutcomeSkipped, Message: "no djay values"}
		} else {
			outcome = s.updater.Apply(ctx, u)
		}

		if outcome.Kind == models.OutcomeError {
			s.log.Warnf("Update failed for %s - %s: %s", u.Artist, u.Title, outcome.Message)
		}

		summary.Add(outcome)
		if onResult != nil {
			onResult(u, outcome)
		}
	}

	s.log.Infof("Apply finished: %s", summary)
	return summary, nil
}

// LibraryStats returns record counts per database2 collection.
func (s *syncService) LibraryStats(ctx context.Context) (map[string]int64, error) {
	return s.library.Stats(ctx)
}

// Close releases all resources held by the service.
func (s *syncService) Close() error {
	return s.library.Close()
}
