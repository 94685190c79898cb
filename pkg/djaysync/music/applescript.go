// Package music writes planned BPM and key updates into the macOS Music
// library by running AppleScript through osascript.
package music

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/himanishpuri/djaysync/pkg/models"
)

// Options control how matched Music.app tracks are updated.
type Options struct {
	// NoOverwrite only fills a BPM of 0 and an empty comment.
	NoOverwrite bool
	// UpdateAllMatches updates every matching track instead of refusing
	// ambiguous matches.
	UpdateAllMatches bool
}

// Escape quotes s for use inside an AppleScript string literal.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func updateBlock(u models.PlannedUpdate, opts Options) string {
	var lines []string

	if u.BPM != nil {
		set := fmt.Sprintf("set bpm of t to %d", *u.BPM)
		if opts.NoOverwrite {
			set = "if (bpm of t is 0) then\n" + set + "\nend if"
		}
		lines = append(lines, set)
	}
	if u.KeyLabel != "" {
		set := fmt.Sprintf(`set comment of t to "%s"`, Escape(u.KeyLabel))
		if opts.NoOverwrite {
			set = "if (comment of t is \"\") then\n" + set + "\nend if"
		}
		lines = append(lines, set)
	}
	return strings.Join(lines, "\n")
}

// BuildScript renders the AppleScript that applies u. The second result is
// false when u has nothing to write.
func BuildScript(u models.PlannedUpdate, opts Options) (string, bool) {
	block := updateBlock(u, opts)
	if block == "" {
		return "", false
	}

	filter := fmt.Sprintf(`name is "%s" and artist is "%s"`, Escape(u.Title), Escape(u.Artist))
	if u.Album != "" {
		filter += fmt.Sprintf(` and album is "%s"`, Escape(u.Album))
	}

	var b strings.Builder
	b.WriteString("tell application \"Music\"\n")
	b.WriteString("try\n")
	fmt.Fprintf(&b, "set matches to (every track of library playlist 1 whose %s)\n", filter)
	b.WriteString("set n to (count of matches)\n")
	if opts.UpdateAllMatches {
		b.WriteString("if n is 0 then return \"NOTFOUND\"\n")
		b.WriteString("repeat with t in matches\n")
		b.WriteString(block + "\n")
		b.WriteString("end repeat\n")
		b.WriteString("return \"OK:\" & n\n")
	} else {
		b.WriteString("if n is 0 then\n")
		b.WriteString("return \"NOTFOUND\"\n")
		b.WriteString("else if n is not 1 then\n")
		b.WriteString("return \"AMBIGUOUS:\" & n\n")
		b.WriteString("end if\n")
		b.WriteString("set t to item 1 of matches\n")
		b.WriteString(block + "\n")
		b.WriteString("return \"OK\"\n")
	}
	b.WriteString("on error errMsg number errNum\n")
	b.WriteString("return \"ERR \" & errNum & \": \" & errMsg\n")
	b.WriteString("end try\n")
	b.WriteString("end tell\n")
	return b.String(), true
}

// ParseOutcome classifies the text a script returned.
func ParseOutcome(out string) models.Outcome {
	out = strings.TrimSpace(out)

	switch {
	case out == "OK":
		return models.Outcome{Kind: models.OutcomeApplied}
	case strings.HasPrefix(out, "OK:"):
		n, _ := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(out, "OK:")))
		return models.Outcome{Kind: models.OutcomeAppliedMultiple, Count: n}
	case strings.HasPrefix(out, "AMBIGUOUS:"):
		n, _ := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(out, "AMBIGUOUS:")))
		return models.Outcome{Kind: models.OutcomeAmbiguous, Count: n}
	case strings.HasPrefix(out, "NOTFOUND"):
		return models.Outcome{Kind: models.OutcomeNotFound}
	case strings.HasPrefix(out, "SKIP"):
		msg := strings.TrimPrefix(strings.TrimPrefix(out, "SKIP"), ":")
		return models.Outcome{Kind: models.OutcomeSkipped, Message: strings.TrimSpace(msg)}
	default:
		return models.Outcome{Kind: models.OutcomeError, Message: out}
	}
}
