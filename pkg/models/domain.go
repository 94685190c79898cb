package models

// Playlist is a djay playlist.
type Playlist struct {
	UUID string // database2 key of the playlist record
	Name string
}

// TrackMetadata is the display information Music.app tracks are matched on.
type TrackMetadata struct {
	Title  string
	Artist string
	Album  string // Empty when the track has no album
}

// TempoKey holds the structured tempo and key columns of a track.
// Nil fields are NULL in the library.
type TempoKey struct {
	BPM      *float64
	KeyIndex *int
}

// Empty reports whether neither column carries a value.
func (t *TempoKey) Empty() bool {
	return t == nil || (t.BPM == nil && t.KeyIndex == nil)
}

// Provenance records which lookup supplied a track's tempo and key.
type Provenance string

const (
	ProvenancePrimary     Provenance = "primary"
	ProvenanceBlobDecoded Provenance = "blob-decoded"
	ProvenanceNone        Provenance = "none"
)

// PlannedUpdate is the reconciled set of Music.app fields for one track.
type PlannedUpdate struct {
	TitleID  string // djay track reference
	Title    string
	Artist   string
	Album    string
	BPMRaw   *float64 // Tempo as stored by djay
	BPM      *int     // Rounded tempo written to Music.app
	KeyIndex *int     // djay key index, 0-23
	KeyLabel string   // Camelot label written to the Comment field
	Source   Provenance
}

// Skippable reports whether the update carries nothing to write.
func (u PlannedUpdate) Skippable() bool {
	return u.BPM == nil && u.KeyLabel == ""
}
