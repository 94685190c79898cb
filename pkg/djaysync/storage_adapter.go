package djaysync

import (
	"context"

	"github.com/himanishpuri/djaysync/pkg/djaysync/storage"
	"github.com/himanishpuri/djaysync/pkg/models"
)

// storageAdapter adapts the storage.DBClient to implement the Library interface.
type storageAdapter struct {
	db *storage.DBClient
}

// OpenLibrary opens a djay MediaLibrary.db read-only.
func OpenLibrary(dbPath string) (Library, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return &storageAdapter{db: db}, nil
}

func (s *storageAdapter) PrimaryFields(ctx context.Context, titleID string) (*models.TempoKey, error) {
	row, err := s.db.MediaItemIndex(ctx, titleID)
	if err != nil || row == nil {
		return nil, err
	}
	return &models.TempoKey{BPM: row.BPM, KeyIndex: row.MusicalKeySignatureIndex}, nil
}

func (s *storageAdapter) AnalysisBlob(ctx context.Context, titleID string) ([]byte, error) {
	return s.db.AnalyzedData(ctx, titleID)
}

func (s *storageAdapter) DisplayMetadata(ctx context.Context, titleID string) (*models.TrackMetadata, error) {
	return s.db.TrackMetadata(ctx, titleID)
}

func (s *storageAdapter) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return s.db.ListPlaylists(ctx)
}

func (s *storageAdapter) FindPlaylist(ctx context.Context, nameOrUUID string) (*models.Playlist, error) {
	return s.db.FindPlaylist(ctx, nameOrUUID)
}

func (s *storageAdapter) PlaylistTrackIDs(ctx context.Context, playlistUUID string) ([]string, error) {
	return s.db.PlaylistTrackIDs(ctx, playlistUUID)
}

func (s *storageAdapter) Stats(ctx context.Context) (map[string]int64, error) {
	return s.db.CollectionCounts(ctx)
}

func (s *storageAdapter) Close() error {
	return s.db.Close()
}
