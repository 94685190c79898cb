package djaysync

import (
	"context"
	"fmt"
	"math"

	"github.com/himanishpuri/djaysync/pkg/djaysync/blob"
	"github.com/himanishpuri/djaysync/pkg/logger"
	"github.com/himanishpuri/djaysync/pkg/models"
)

// Planner turns track references into planned Music.app updates.
type Planner struct {
	source TrackSource
	log    Logger
}

func NewPlanner(source TrackSource, log Logger) *Planner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Planner{source: source, log: log}
}

// RoundBPM rounds a raw tempo half-to-even. Non-finite tempos and tempos
// outside the int32 range yield nil.
func RoundBPM(raw *float64) *int {
	if raw == nil {
		return nil
	}
	r := math.RoundToEven(*raw)
	if math.IsNaN(r) || math.IsInf(r, 0) || r > math.MaxInt32 || r < math.MinInt32 {
		return nil
	}
	bpm := int(r)
	return &bpm
}

// PlanTrack builds the update for one track. The second result is false when
// the track lacks a title or artist and therefore cannot be matched in
// Music.app.
func (p *Planner) PlanTrack(ctx context.Context, titleID string) (models.PlannedUpdate, bool, error) {
	meta, err := p.source.DisplayMetadata(ctx, titleID)
	if err != nil {
		return models.PlannedUpdate{}, false, fmt.Errorf("track %s metadata: %w", titleID, err)
	}
	if meta == nil || meta.Title == "" || meta.Artist == "" {
		p.log.Debugf("Dropping %s: no title/artist", titleID)
		return models.PlannedUpdate{}, false, nil
	}

	tk, src, err := p.tempoKey(ctx, titleID)
	if err != nil {
		return models.PlannedUpdate{}, false, err
	}

	u := models.PlannedUpdate{
		TitleID:  titleID,
		Title:    meta.Title,
		Artist:   meta.Artist,
		Album:    meta.Album,
		BPMRaw:   tk.BPM,
		BPM:      RoundBPM(tk.BPM),
		KeyIndex: tk.KeyIndex,
		Source:   src,
	}
	if tk.KeyIndex != nil {
		u.KeyLabel, _ = KeyLabel(*tk.KeyIndex)
	}
	return u, true, nil
}

// tempoKey prefers the structured index row and falls back to decoding the
// analyzed-data blob.
func (p *Planner) tempoKey(ctx context.Context, titleID string) (models.TempoKey, models.Provenance, error) {
	primary, err := p.source.PrimaryFields(ctx, titleID)
	if err != nil {
		return models.TempoKey{}, "", fmt.Errorf("track %s index: %w", titleID, err)
	}
	if !primary.Empty() {
		return *primary, models.ProvenancePrimary, nil
	}

	data, err := p.source.AnalysisBlob(ctx, titleID)
	if err != nil {
		return models.TempoKey{}, "", fmt.Errorf("track %s analyzed data: %w", titleID, err)
	}
	if data == nil {
		return models.TempoKey{}, models.ProvenanceNone, nil
	}

	a := blob.DecodeAnalyzedData(data)
	if a.Empty() {
		p.log.Debugf("Analyzed data of %s has no bpm or key (%d bytes)", titleID, len(data))
		return models.TempoKey{}, models.ProvenanceNone, nil
	}
	if a.KeyIndex != nil {
		p.log.Debugf("Key of %s read from %s layout", titleID, a.KeyLayout)
	}
	return models.TempoKey{BPM: a.BPM, KeyIndex: a.KeyIndex}, models.ProvenanceBlobDecoded, nil
}

// PlanTracks plans each track in order, dropping tracks PlanTrack rejects.
func (p *Planner) PlanTracks(ctx context.Context, titleIDs []string) ([]models.PlannedUpdate, error) {
	planned := make([]models.PlannedUpdate, 0, len(titleIDs))
	for _, id := range titleIDs {
		if err := ctx.Err(); err != nil {
			return planned, err
		}
		u, ok, err := p.PlanTrack(ctx, id)
		if err != nil {
			return planned, err
		}
		if ok {
			planned = append(planned, u)
		}
	}
	return planned, nil
}
