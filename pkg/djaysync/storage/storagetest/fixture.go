// Package storagetest builds small djay libraries on disk for tests.
package storagetest

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/himanishpuri/djaysync/pkg/djaysync/blob"
	"github.com/himanishpuri/djaysync/pkg/djaysync/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Field is one tagged string value in a record.
type Field struct {
	Name  string
	Value string
}

// EncodeFields lays fields out the way djay stores string values:
// 0x08 <value> 0x00 0x08 <name> 0x00.
func EncodeFields(fields ...Field) []byte {
	var buf bytes.Buffer
	for _, f := range fields {
		buf.WriteByte(blob.MarkerByte)
		buf.WriteString(f.Value)
		buf.WriteByte(blob.Terminator)
		buf.WriteByte(blob.MarkerByte)
		buf.WriteString(f.Name)
		buf.WriteByte(blob.Terminator)
	}
	return buf.Bytes()
}

// AnalyzedData encodes a mediaItemAnalyzedData record in the newer layout
// (key byte after its marker). Nil arguments leave the field out.
func AnalyzedData(bpm *float32, key *byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x02, 0x01})
	if bpm != nil {
		var f [4]byte
		binary.LittleEndian.PutUint32(f[:], math.Float32bits(*bpm))
		buf.Write(f[:])
		buf.Write(blob.BPMMarker)
	}
	if key != nil {
		buf.Write(blob.KeySignatureMarker)
		buf.WriteByte(*key)
		buf.WriteString("\x08isStraight\x00")
	}
	return buf.Bytes()
}

// Library is a writable djay library fixture.
type Library struct {
	Path string
	DB   *gorm.DB
	t    testing.TB
}

// NewLibrary creates an empty library with djay's tables in a temp dir.
func NewLibrary(t testing.TB) *Library {
	t.Helper()

	path := filepath.Join(t.TempDir(), "MediaLibrary.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create fixture library: %v", err)
	}
	if err := db.AutoMigrate(&storage.Record{}, &storage.MediaItemIndex{}); err != nil {
		t.Fatalf("Failed to migrate fixture library: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	return &Library{Path: path, DB: db, t: t}
}

// Put stores a raw database2 record.
func (l *Library) Put(collection, key string, data []byte) *Library {
	l.t.Helper()
	rec := storage.Record{Collection: collection, Key: key, Data: data}
	if err := l.DB.Create(&rec).Error; err != nil {
		l.t.Fatalf("Failed to insert %s/%s: %v", collection, key, err)
	}
	return l
}

func (l *Library) AddPlaylist(uuid, name string) *Library {
	return l.Put(storage.CollectionPlaylists, uuid, EncodeFields(Field{"name", name}))
}

func (l *Library) AddPlaylistItem(key, playlistUUID, titleID string) *Library {
	return l.Put(storage.CollectionPlaylistItems, key, EncodeFields(
		Field{"playlistUUID", playlistUUID},
		Field{"mediaItemUUID", titleID},
	))
}

// AddTrack stores a mediaItems record. An empty albumID leaves the album out.
func (l *Library) AddTrack(titleID, title, artist, albumID string) *Library {
	fields := []Field{{"title", title}, {"artist", artist}}
	if albumID != "" {
		fields = append(fields, Field{"album", albumID})
	}
	return l.Put(storage.CollectionMediaItems, titleID, EncodeFields(fields...))
}

func (l *Library) AddAlbum(albumID, name string) *Library {
	return l.Put(storage.CollectionAlbums, albumID, EncodeFields(Field{"name", name}))
}

func (l *Library) AddAnalyzedData(titleID string, data []byte) *Library {
	return l.Put(storage.CollectionAnalyzedData, titleID, data)
}

// AddIndex stores a secondaryIndex_mediaItemIndex row.
func (l *Library) AddIndex(titleID string, bpm *float64, key *int) *Library {
	l.t.Helper()
	row := storage.MediaItemIndex{TitleID: titleID, BPM: bpm, MusicalKeySignatureIndex: key}
	if err := l.DB.Create(&row).Error; err != nil {
		l.t.Fatalf("Failed to insert index row %s: %v", titleID, err)
	}
	return l
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
