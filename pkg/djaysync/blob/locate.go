// Package blob extracts individual values from the tagged records djay stores
// in the database2 table. The container format is undocumented, so every
// lookup here is a best-effort scan that reports absence instead of failing.
package blob

import (
	"bytes"
	"unicode/utf8"
)

const (
	// MarkerByte prefixes every tagged field name and string value.
	MarkerByte byte = 0x08
	// Terminator closes a field name or string value.
	Terminator byte = 0x00
)

// ValueBeforeKey returns the string value stored immediately before the first
// occurrence of field in buf. A value is the span between the nearest marker
// byte and the nearest terminator preceding the field name:
//
//	0x08 <value> 0x00 ... <field>
//
// The second result is false when the field is missing, when the span cannot
// be bounded, or when it is not valid UTF-8.
func ValueBeforeKey(buf []byte, field string) (string, bool) {
	pos := bytes.Index(buf, []byte(field))
	if pos < 0 {
		return "", false
	}

	end := bytes.LastIndexByte(buf[:pos], Terminator)
	if end < 0 {
		return "", false
	}

	start := bytes.LastIndexByte(buf[:end], MarkerByte)
	if start < 0 {
		return "", false
	}

	span := buf[start+1 : end]
	if !utf8.Valid(span) {
		return "", false
	}
	return string(span), true
}
