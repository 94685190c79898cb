package blob

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Field markers inside mediaItemAnalyzedData records.
var (
	BPMMarker          = []byte("\x08bpm\x00")
	KeySignatureMarker = []byte("\x08keySignatureIndex\x00")
)

const (
	// MaxKeyIndex is the highest valid keySignatureIndex (12 pitch classes x major/minor).
	MaxKeyIndex = 23

	keyTag        byte = 0x0F
	keyWindowSize      = 32
)

// Analysis holds the values recovered from one analyzed-data record.
// Nil fields were not found.
type Analysis struct {
	BPM      *float64
	KeyIndex *int
	// KeyLayout names the byte layout the key index was read from.
	KeyLayout string
}

// Empty reports whether nothing could be recovered.
func (a Analysis) Empty() bool {
	return a.BPM == nil && a.KeyIndex == nil
}

// keyStrategy inspects the bytes around the key marker found at pos and
// returns a candidate byte.
type keyStrategy struct {
	name string
	find func(buf []byte, pos int) (byte, bool)
}

// keyStrategies is ordered by precedence. Both byte layouts below have been
// seen in libraries written by different djay versions:
//
//	... 0x08 "keySignatureIndex" 0x00 <key> 0x08 "isStraight" 0x00 ...
//	... 0x0F <key> 0x08 "keySignatureIndex" 0x00 ...
//
// Append new layouts at the end so existing precedence is preserved.
var keyStrategies = []keyStrategy{
	{name: "after-marker", find: byteAfterMarker},
	{name: "before-marker", find: byteBeforeMarker},
	{name: "tagged-window", find: taggedByteInWindow},
}

func byteAfterMarker(buf []byte, pos int) (byte, bool) {
	after := pos + len(KeySignatureMarker)
	if after >= len(buf) {
		return 0, false
	}
	return buf[after], true
}

func byteBeforeMarker(buf []byte, pos int) (byte, bool) {
	if pos < 1 {
		return 0, false
	}
	return buf[pos-1], true
}

func taggedByteInWindow(buf []byte, pos int) (byte, bool) {
	start := max(0, pos-keyWindowSize)
	idx := bytes.LastIndexByte(buf[start:pos], keyTag)
	if idx < 0 {
		return 0, false
	}
	next := start + idx + 1
	if next >= pos {
		return 0, false
	}
	return buf[next], true
}

// DecodeAnalyzedData recovers the tempo and key index from a
// mediaItemAnalyzedData record. Either value may be absent; malformed input
// only ever results in absence.
func DecodeAnalyzedData(buf []byte) Analysis {
	var a Analysis

	if bpm, ok := decodeBPM(buf); ok {
		a.BPM = &bpm
	}
	if key, layout, ok := decodeKeyIndex(buf); ok {
		a.KeyIndex = &key
		a.KeyLayout = layout
	}
	return a
}

// decodeBPM reads the little-endian float32 stored directly before the bpm marker.
func decodeBPM(buf []byte) (float64, bool) {
	p := bytes.Index(buf, BPMMarker)
	if p < 4 {
		return 0, false
	}
	bits := binary.LittleEndian.Uint32(buf[p-4 : p])
	return float64(math.Float32frombits(bits)), true
}

func decodeKeyIndex(buf []byte) (int, string, bool) {
	pos := bytes.Index(buf, KeySignatureMarker)
	if pos < 0 {
		return 0, "", false
	}
	for _, s := range keyStrategies {
		if b, ok := s.find(buf, pos); ok && b <= MaxKeyIndex {
			return int(b), s.name, true
		}
	}
	return 0, "", false
}
