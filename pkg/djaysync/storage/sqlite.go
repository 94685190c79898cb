//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/himanishpuri/djaysync/pkg/djaysync/blob"
	"github.com/himanishpuri/djaysync/pkg/models"
	"github.com/himanishpuri/djaysync/pkg/utils"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// database2 collections read by djaysync.
const (
	CollectionPlaylists     = "mediaItemPlaylists"
	CollectionPlaylistItems = "mediaItemPlaylistItems"
	CollectionMediaItems    = "mediaItems"
	CollectionAlbums        = "mediaAlbums"
	CollectionAnalyzedData  = "mediaItemAnalyzedData"

	// RootPlaylistKey is djay's invisible container playlist.
	RootPlaylistKey = "mediaItemPlaylist-root"
)

const errDBClientNil = "db client is nil"

var ErrPlaylistNotFound = errors.New("playlist not found")

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Record is a row of djay's database2 table: an opaque tagged blob keyed by
// collection and key.
type Record struct {
	Collection string `gorm:"column:collection;primaryKey"`
	Key        string `gorm:"column:key;primaryKey"`
	Data       []byte `gorm:"column:data"`
}

func (Record) TableName() string { return "database2" }

// MediaItemIndex is a row of the secondaryIndex_mediaItemIndex table.
type MediaItemIndex struct {
	TitleID                  string   `gorm:"column:titleID;primaryKey"`
	BPM                      *float64 `gorm:"column:bpm"`
	MusicalKeySignatureIndex *int     `gorm:"column:musicalKeySignatureIndex"`
}

func (MediaItemIndex) TableName() string { return "secondaryIndex_mediaItemIndex" }

// NewDBClientWithPath opens a djay MediaLibrary.db read-only.
func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if _, err := utils.RegularFileSize(dbPath); err != nil {
		return nil, fmt.Errorf("opening djay library: %w", err)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_pragma=query_only(1)&_pragma=busy_timeout(5000)"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if !db.Migrator().HasTable(&Record{}) {
		sqlDB.Close()
		return nil, fmt.Errorf("%s does not look like a djay library: missing table database2", dbPath)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *DBClient) check() error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return nil
}

// record returns the blob stored under (collection, key), or nil when there is none.
func (c *DBClient) record(ctx context.Context, collection, key string) ([]byte, error) {
	var rows []Record
	err := c.DB.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying %s/%s: %w", collection, key, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if rows[0].Data == nil {
		return []byte{}, nil
	}
	return rows[0].Data, nil
}

// eachRecord streams every record of a collection to fn in table order.
func (c *DBClient) eachRecord(ctx context.Context, collection string, fn func(key string, data []byte)) error {
	rows, err := c.DB.WithContext(ctx).
		Model(&Record{}).
		Select("key", "data").
		Where("collection = ?", collection).
		Rows()
	if err != nil {
		return fmt.Errorf("querying %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return fmt.Errorf("scanning %s row: %w", collection, err)
		}
		fn(key, data)
	}
	return rows.Err()
}

// ListPlaylists returns every named playlist sorted case-insensitively by name.
func (c *DBClient) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	var out []models.Playlist
	err := c.eachRecord(ctx, CollectionPlaylists, func(key string, data []byte) {
		if key == RootPlaylistKey {
			return
		}
		name, ok := blob.ValueBeforeKey(data, "name")
		if !ok || name == "" {
			return
		}
		out = append(out, models.Playlist{UUID: key, Name: name})
	})
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	sort.SliceStable(out, func(i, j int) bool {
		return fold.String(out[i].Name) < fold.String(out[j].Name)
	})
	return out, nil
}

// FindPlaylist resolves a playlist by exact name. A UUID that matches no name
// is looked up as a playlist key instead.
func (c *DBClient) FindPlaylist(ctx context.Context, nameOrUUID string) (*models.Playlist, error) {
	playlists, err := c.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}

	for i := range playlists {
		if playlists[i].Name == nameOrUUID {
			return &playlists[i], nil
		}
	}
	if utils.IsUUID(nameOrUUID) {
		for i := range playlists {
			if playlists[i].UUID == nameOrUUID {
				return &playlists[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPlaylistNotFound, nameOrUUID)
}

// PlaylistTrackIDs returns the track references of a playlist in table order.
func (c *DBClient) PlaylistTrackIDs(ctx context.Context, playlistUUID string) ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	var ids []string
	err := c.eachRecord(ctx, CollectionPlaylistItems, func(_ string, data []byte) {
		pu, ok := blob.ValueBeforeKey(data, "playlistUUID")
		if !ok || pu != playlistUUID {
			return
		}
		if tid, ok := blob.ValueBeforeKey(data, "mediaItemUUID"); ok && tid != "" {
			ids = append(ids, tid)
		}
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// MediaItemIndex returns the structured index row of a track, or nil when there is none.
func (c *DBClient) MediaItemIndex(ctx context.Context, titleID string) (*MediaItemIndex, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	var rows []MediaItemIndex
	err := c.DB.WithContext(ctx).
		Where("titleID = ?", titleID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying media item index: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// AnalyzedData returns the raw mediaItemAnalyzedData blob of a track, or nil when there is none.
func (c *DBClient) AnalyzedData(ctx context.Context, titleID string) ([]byte, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.record(ctx, CollectionAnalyzedData, titleID)
}

// TrackMetadata returns title, artist and album name of a track, or nil when
// the track has no mediaItems record. Missing fields are left empty.
func (c *DBClient) TrackMetadata(ctx context.Context, titleID string) (*models.TrackMetadata, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	data, err := c.record(ctx, CollectionMediaItems, titleID)
	if err != nil || data == nil {
		return nil, err
	}

	meta := &models.TrackMetadata{}
	meta.Title, _ = blob.ValueBeforeKey(data, "title")
	meta.Artist, _ = blob.ValueBeforeKey(data, "artist")

	albumID, ok := blob.ValueBeforeKey(data, "album")
	if !ok || albumID == "" {
		return meta, nil
	}

	albumData, err := c.record(ctx, CollectionAlbums, albumID)
	if err != nil {
		return nil, err
	}
	if albumData != nil {
		meta.Album, _ = blob.ValueBeforeKey(albumData, "name")
	}
	return meta, nil
}

// CollectionCounts returns the number of database2 rows per collection.
func (c *DBClient) CollectionCounts(ctx context.Context) (map[string]int64, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	var rows []struct {
		Collection string
		N          int64
	}
	err := c.DB.WithContext(ctx).
		Model(&Record{}).
		Select("collection, COUNT(*) AS n").
		Group("collection").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting collections: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Collection] = r.N
	}
	return counts, nil
}
