package music

import (
	"strings"
	"testing"

	"github.com/himanishpuri/djaysync/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestEscape(t *testing.T) {
	assert.Equal(t, `Say \"Hi\"`, Escape(`Say "Hi"`))
	assert.Equal(t, `AC\\DC`, Escape(`AC\DC`))
	assert.Equal(t, `\\\"`, Escape(`\"`))
	assert.Equal(t, "plain", Escape("plain"))
}

func TestBuildScriptSingleMatch(t *testing.T) {
	u := models.PlannedUpdate{
		Title:    `Don't "Stop"`,
		Artist:   "Röyksopp",
		Album:    "Melody A.M.",
		BPM:      intPtr(118),
		KeyLabel: "9B - G - 2d",
	}

	script, ok := BuildScript(u, Options{})
	require.True(t, ok)

	assert.Contains(t, script, `whose name is "Don't \"Stop\"" and artist is "Röyksopp" and album is "Melody A.M.")`)
	assert.Contains(t, script, "set bpm of t to 118\n")
	assert.Contains(t, script, `set comment of t to "9B - G - 2d"`)
	assert.Contains(t, script, `return "AMBIGUOUS:" & n`)
	assert.Contains(t, script, "set t to item 1 of matches")
	assert.NotContains(t, script, "repeat with t in matches")
	assert.NotContains(t, script, "if (bpm of t is 0)")
	assert.True(t, strings.HasPrefix(script, `tell application "Music"`))
	assert.True(t, strings.HasSuffix(script, "end tell\n"))
}

func TestBuildScriptAllMatches(t *testing.T) {
	u := models.PlannedUpdate{Title: "Xtal", Artist: "Aphex Twin", BPM: intPtr(101)}

	script, ok := BuildScript(u, Options{UpdateAllMatches: true})
	require.True(t, ok)

	assert.Contains(t, script, "repeat with t in matches\nset bpm of t to 101\nend repeat")
	assert.Contains(t, script, `return "OK:" & n`)
	assert.NotContains(t, script, "AMBIGUOUS")
	assert.NotContains(t, script, "and album is")
	assert.NotContains(t, script, "set comment")
}

func TestBuildScriptNoOverwrite(t *testing.T) {
	u := models.PlannedUpdate{Title: "T", Artist: "A", BPM: intPtr(90), KeyLabel: "1A - Abm - 6m"}

	script, ok := BuildScript(u, Options{NoOverwrite: true})
	require.True(t, ok)

	assert.Contains(t, script, "if (bpm of t is 0) then\nset bpm of t to 90\nend if")
	assert.Contains(t, script, "if (comment of t is \"\") then\nset comment of t to \"1A - Abm - 6m\"\nend if")
}

func TestBuildScriptNothingToWrite(t *testing.T) {
	_, ok := BuildScript(models.PlannedUpdate{Title: "T", Artist: "A"}, Options{})
	assert.False(t, ok)
}

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		in   string
		want models.Outcome
	}{
		{"OK", models.Outcome{Kind: models.OutcomeApplied}},
		{"OK\n", models.Outcome{Kind: models.OutcomeApplied}},
		{"OK:3", models.Outcome{Kind: models.OutcomeAppliedMultiple, Count: 3}},
		{"AMBIGUOUS:2", models.Outcome{Kind: models.OutcomeAmbiguous, Count: 2}},
		{"NOTFOUND", models.Outcome{Kind: models.OutcomeNotFound}},
		{"SKIP: no djay values", models.Outcome{Kind: models.OutcomeSkipped, Message: "no djay values"}},
		{"ERR -1728: Can't get track", models.Outcome{Kind: models.OutcomeError, Message: "ERR -1728: Can't get track"}},
		{"", models.Outcome{Kind: models.OutcomeError}},
		{"OKAY", models.Outcome{Kind: models.OutcomeError, Message: "OKAY"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOutcome(tt.in))
		})
	}
}
