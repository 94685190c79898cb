package djaysync

import (
	"context"

	"github.com/himanishpuri/djaysync/pkg/models"
)

type Service interface {
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	PlanPlaylist(ctx context.Context, nameOrUUID string) ([]models.PlannedUpdate, error)
	Apply(ctx context.Context, updates []models.PlannedUpdate, onResult ResultFunc) (models.Summary, error)
	LibraryStats(ctx context.Context) (map[string]int64, error)
	Close() error
}

// ResultFunc is called after each update is applied.
type ResultFunc func(u models.PlannedUpdate, o models.Outcome)

// TrackSource supplies the per-track lookups the planner reconciles.
// Methods return nil values, not errors, when a row does not exist.
type TrackSource interface {
	PrimaryFields(ctx context.Context, titleID string) (*models.TempoKey, error)
	AnalysisBlob(ctx context.Context, titleID string) ([]byte, error)
	DisplayMetadata(ctx context.Context, titleID string) (*models.TrackMetadata, error)
}

// Library is a djay media library.
type Library interface {
	TrackSource
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	FindPlaylist(ctx context.Context, nameOrUUID string) (*models.Playlist, error)
	PlaylistTrackIDs(ctx context.Context, playlistUUID string) ([]string, error)
	Stats(ctx context.Context) (map[string]int64, error)
	Close() error
}

// Updater applies one planned update to the music library.
type Updater interface {
	Apply(ctx context.Context, u models.PlannedUpdate) models.Outcome
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
