package djaysync

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/himanishpuri/djaysync/pkg/djaysync/storage/storagetest"
	"github.com/himanishpuri/djaysync/pkg/logger"
	"github.com/himanishpuri/djaysync/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	primary map[string]*models.TempoKey
	blobs   map[string][]byte
	meta    map[string]*models.TrackMetadata
	err     error
	calls   []string
}

func (f *fakeSource) PrimaryFields(_ context.Context, id string) (*models.TempoKey, error) {
	f.calls = append(f.calls, "primary:"+id)
	return f.primary[id], f.err
}

func (f *fakeSource) AnalysisBlob(_ context.Context, id string) ([]byte, error) {
	f.calls = append(f.calls, "blob:"+id)
	return f.blobs[id], nil
}

func (f *fakeSource) DisplayMetadata(_ context.Context, id string) (*models.TrackMetadata, error) {
	f.calls = append(f.calls, "meta:"+id)
	return f.meta[id], nil
}

func quietLogger() Logger {
	return logger.New(logger.Config{Level: logger.DEBUG, Output: io.Discard})
}

func ptr[T any](v T) *T { return &v }

func newFakeSource() *fakeSource {
	return &fakeSource{
		primary: map[string]*models.TempoKey{},
		blobs:   map[string][]byte{},
		meta: map[string]*models.TrackMetadata{
			"t1": {Title: "Blue Monday", Artist: "New Order", Album: "Power, Corruption & Lies"},
		},
	}
}

func TestRoundBPM(t *testing.T) {
	tests := []struct {
		name string
		raw  *float64
		want *int
	}{
		{"nil", nil, nil},
		{"round up", ptr(127.6), ptr(128)},
		{"round down", ptr(127.4), ptr(127)},
		{"half to even up", ptr(127.5), ptr(128)},
		{"half to even down", ptr(126.5), ptr(126)},
		{"exact", ptr(120.0), ptr(120)},
		{"zero", ptr(0.0), ptr(0)},
		{"nan", ptr(math.NaN()), nil},
		{"inf", ptr(math.Inf(1)), nil},
		{"neg inf", ptr(math.Inf(-1)), nil},
		{"too large", ptr(1e12), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundBPM(tt.raw))
		})
	}
}

func TestPlanTrackPrimaryTempoOnly(t *testing.T) {
	src := newFakeSource()
	src.primary["t1"] = &models.TempoKey{BPM: ptr(120.0)}
	src.blobs["t1"] = storagetest.AnalyzedData(ptr(float32(90)), ptr(byte(3)))

	u, ok, err := NewPlanner(src, quietLogger()).PlanTrack(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, ok)

	want := models.PlannedUpdate{
		TitleID: "t1",
		Title:   "Blue Monday",
		Artist:  "New Order",
		Album:   "Power, Corruption & Lies",
		BPMRaw:  ptr(120.0),
		BPM:     ptr(120),
		Source:  models.ProvenancePrimary,
	}
	if diff := cmp.Diff(want, u); diff != "" {
		t.Errorf("PlanTrack mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, u.Skippable())
	assert.NotContains(t, src.calls, "blob:t1")
}

func TestPlanTrackBlobDecodedKeyOnly(t *testing.T) {
	src := newFakeSource()
	src.blobs["t1"] = storagetest.AnalyzedData(nil, ptr(byte(14)))

	u, ok, err := NewPlanner(src, quietLogger()).PlanTrack(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.ProvenanceBlobDecoded, u.Source)
	assert.Equal(t, "9B - G - 2d", u.KeyLabel)
	assert.Equal(t, ptr(14), u.KeyIndex)
	assert.Nil(t, u.BPM)
	assert.Nil(t, u.BPMRaw)
	assert.False(t, u.Skippable())
}

func TestPlanTrackEmptyPrimaryFallsBackToBlob(t *testing.T) {
	src := newFakeSource()
	src.primary["t1"] = &models.TempoKey{}
	src.blobs["t1"] = storagetest.AnalyzedData(ptr(float32(127.5)), nil)

	u, ok, err := NewPlanner(src, quietLogger()).PlanTrack(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.ProvenanceBlobDecoded, u.Source)
	assert.Equal(t, ptr(127.5), u.BPMRaw)
	assert.Equal(t, ptr(128), u.BPM)
	assert.Empty(t, u.KeyLabel)
}

func TestPlanTrackNoSource(t *testing.T) {
	src := newFakeSource()

	u, ok, err := NewPlanner(src, quietLogger()).PlanTrack(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.ProvenanceNone, u.Source)
	assert.Nil(t, u.BPM)
	assert.Nil(t, u.KeyIndex)
	assert.Empty(t, u.KeyLabel)
	assert.True(t, u.Skippable())
}

func TestPlanTrackUndecodableBlob(t *testing.T) {
	src := newFakeSource()
	src.blobs["t1"] = []byte("\x08garbage\x00\x01\x02")

	u, ok, err := NewPlanner(src, quietLogger()).PlanTrack(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.ProvenanceNone, u.Source)
	assert.True(t, u.Skippable())
}

func TestPlanTrackNaNTempo(t *testing.T) {
	src := newFakeSource()
	src.blobs["t1"] = storagetest.AnalyzedData(ptr(float32(math.NaN())), nil)

	u, ok, err := NewPlanner(src, quietLogger()).PlanTrack(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.ProvenanceBlobDecoded, u.Source)
	require.NotNil(t, u.BPMRaw)
	assert.Nil(t, u.BPM)
	assert.True(t, u.Skippable())
}

func TestPlanTrackDropsTracksWithoutDisplayFields(t *testing.T) {
	src := newFakeSource()
	src.meta["no-artist"] = &models.TrackMetadata{Title: "Untitled"}
	src.meta["no-title"] = &models.TrackMetadata{Artist: "Unknown"}
	src.primary["no-artist"] = &models.TempoKey{BPM: ptr(124.0)}

	p := NewPlanner(src, quietLogger())
	for _, id := range []string{"no-artist", "no-title", "missing"} {
		_, ok, err := p.PlanTrack(context.Background(), id)
		require.NoError(t, err, id)
		assert.False(t, ok, id)
	}
}

func TestPlanTrackPropagatesSourceErrors(t *testing.T) {
	src := newFakeSource()
	boom := errors.New("disk I/O error")
	src.err = boom

	_, _, err := NewPlanner(src, quietLogger()).PlanTrack(context.Background(), "t1")

	assert.ErrorIs(t, err, boom)
}

func TestPlanTracksKeepsOrder(t *testing.T) {
	src := newFakeSource()
	src.meta["t2"] = &models.TrackMetadata{Title: "Age of Love", Artist: "Age of Love"}
	src.primary["t2"] = &models.TempoKey{KeyIndex: ptr(23)}

	planned, err := NewPlanner(src, quietLogger()).PlanTracks(context.Background(), []string{"t2", "gone", "t1"})
	require.NoError(t, err)
	require.Len(t, planned, 2)

	assert.Equal(t, "t2", planned[0].TitleID)
	assert.Equal(t, "1A - Abm - 6m", planned[0].KeyLabel)
	assert.Equal(t, "t1", planned[1].TitleID)
}

func TestPlanTracksStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPlanner(newFakeSource(), quietLogger()).PlanTracks(ctx, []string{"t1"})

	assert.ErrorIs(t, err, context.Canceled)
}
