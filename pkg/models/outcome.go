package models

import (
	"fmt"
	"strings"
)

// OutcomeKind classifies the result of applying one planned update.
type OutcomeKind int

const (
	OutcomeApplied OutcomeKind = iota
	OutcomeAppliedMultiple
	OutcomeAmbiguous
	OutcomeNotFound
	OutcomeSkipped
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeApplied:
		return "OK"
	case OutcomeAppliedMultiple:
		return "OK_MULTI"
	case OutcomeAmbiguous:
		return "AMBIGUOUS"
	case OutcomeNotFound:
		return "NOTFOUND"
	case OutcomeSkipped:
		return "SKIP"
	case OutcomeError:
		return "ERR"
	default:
		return "UNKNOWN"
	}
}

// Outcome is what the update collaborator reported for one track.
type Outcome struct {
	Kind    OutcomeKind
	Count   int    // Matched tracks for OutcomeAppliedMultiple and OutcomeAmbiguous
	Message string // Raw response, kept for OutcomeError and OutcomeSkipped
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeAppliedMultiple, OutcomeAmbiguous:
		return fmt.Sprintf("%s:%d", o.Kind, o.Count)
	case OutcomeError, OutcomeSkipped:
		if o.Message != "" {
			return fmt.Sprintf("%s: %s", o.Kind, o.Message)
		}
	}
	return o.Kind.String()
}

var summaryOrder = []OutcomeKind{
	OutcomeApplied,
	OutcomeAppliedMultiple,
	OutcomeAmbiguous,
	OutcomeNotFound,
	OutcomeSkipped,
	OutcomeError,
}

// Summary counts outcomes over one apply run.
type Summary map[OutcomeKind]int

// Add records one outcome.
func (s Summary) Add(o Outcome) {
	s[o.Kind]++
}

// Total returns the number of recorded outcomes.
func (s Summary) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

func (s Summary) String() string {
	parts := make([]string, 0, len(summaryOrder))
	for _, k := range summaryOrder {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s[k]))
	}
	return strings.Join(parts, " ")
}
