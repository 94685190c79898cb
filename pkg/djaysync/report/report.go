// Package report renders planned updates for humans and spreadsheets.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/himanishpuri/djaysync/pkg/models"
	"github.com/himanishpuri/djaysync/pkg/utils"
	"github.com/natefinch/atomic"
)

// DefaultPreview is the number of planned updates shown before applying.
const DefaultPreview = 25

// DefaultSkippedLimit is the number of skipped tracks printed in detail.
const DefaultSkippedLimit = 50

var csvHeader = []string{"artist", "title", "album", "titleID", "bpm_raw", "key_idx", "derived_key", "source"}

// Skipped returns the updates that carry nothing to write, in order.
func Skipped(updates []models.PlannedUpdate) []models.PlannedUpdate {
	var out []models.PlannedUpdate
	for _, u := range updates {
		if u.Skippable() {
			out = append(out, u)
		}
	}
	return out
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WritePreview writes one line for each of the first n updates.
func WritePreview(w io.Writer, updates []models.PlannedUpdate, n int) error {
	if n <= 0 || n > len(updates) {
		n = len(updates)
	}
	for _, u := range updates[:n] {
		_, err := fmt.Fprintf(w, "- %s / %s | album=%s | bpm=%s | djKeyIdx=%s | comment='%s' | src=%s\n",
			u.Artist, u.Title, orDash(u.Album), orDash(formatInt(u.BPM)),
			orDash(formatInt(u.KeyIndex)), u.KeyLabel, u.Source)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteSkipped writes a detail block per skipped update. A limit of 0 writes
// all of them.
func WriteSkipped(w io.Writer, skipped []models.PlannedUpdate, limit int) error {
	if _, err := fmt.Fprintf(w, "--- SKIPPED TRACK DETAIL REPORT ---\nSkipped tracks: %d\n\n", len(skipped)); err != nil {
		return err
	}

	rows := skipped
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	for _, u := range rows {
		_, err := fmt.Fprintf(w, "%s / %s\n  titleID: %s\n  bpm_raw: %s\n  key_idx: %s\n  derived_key: %s\n  source: %s\n\n",
			u.Artist, u.Title, u.TitleID, orDash(formatFloat(u.BPMRaw)),
			orDash(formatInt(u.KeyIndex)), orDash(u.KeyLabel), u.Source)
		if err != nil {
			return err
		}
	}
	if len(rows) < len(skipped) {
		if _, err := fmt.Fprintf(w, "... %d more not shown\n", len(skipped)-len(rows)); err != nil {
			return err
		}
	}
	return nil
}

// FormatCSV writes updates as CSV with a header row.
func FormatCSV(w io.Writer, updates []models.PlannedUpdate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, u := range updates {
		err := cw.Write([]string{
			u.Artist,
			u.Title,
			u.Album,
			u.TitleID,
			formatFloat(u.BPMRaw),
			formatInt(u.KeyIndex),
			u.KeyLabel,
			string(u.Source),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV replaces path with a CSV of updates. The file is swapped in
// atomically, so an interrupted run never leaves a truncated report.
func WriteCSV(path string, updates []models.PlannedUpdate) error {
	var buf bytes.Buffer
	if err := FormatCSV(&buf, updates); err != nil {
		return fmt.Errorf("formatting csv: %w", err)
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
