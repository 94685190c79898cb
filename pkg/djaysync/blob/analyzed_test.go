package blob

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32le(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func TestDecodeBPMOnly(t *testing.T) {
	buf := join(f32le(128.0), []byte("\x08bpm\x00"))

	a := DecodeAnalyzedData(buf)

	require.NotNil(t, a.BPM)
	assert.Equal(t, 128.0, *a.BPM)
	assert.Nil(t, a.KeyIndex)
}

func TestDecodeBPMFullPrecision(t *testing.T) {
	f := float32(127.34567)
	buf := join([]byte{0x01, 0x02}, f32le(f), BPMMarker, []byte{0x05})

	a := DecodeAnalyzedData(buf)

	require.NotNil(t, a.BPM)
	assert.Equal(t, float64(f), *a.BPM)
}

func TestDecodeBPMInsufficientPrefix(t *testing.T) {
	for n := 0; n < 4; n++ {
		buf := join(bytes.Repeat([]byte{0x42}, n), BPMMarker)
		a := DecodeAnalyzedData(buf)
		assert.Nil(t, a.BPM, "prefix of %d bytes", n)
	}
}

func TestDecodeBPMUsesFirstMarker(t *testing.T) {
	buf := join(f32le(100), BPMMarker, f32le(140), BPMMarker)

	a := DecodeAnalyzedData(buf)

	require.NotNil(t, a.BPM)
	assert.Equal(t, 100.0, *a.BPM)
}

func TestDecodeBPMNaNIsKept(t *testing.T) {
	buf := join(f32le(float32(math.NaN())), BPMMarker)

	a := DecodeAnalyzedData(buf)

	require.NotNil(t, a.BPM)
	assert.True(t, math.IsNaN(*a.BPM))
}

func TestDecodeKeyIndexLayouts(t *testing.T) {
	tests := []struct {
		name       string
		buf        []byte
		wantKey    int
		wantLayout string
	}{
		{
			name:       "byte after marker",
			buf:        join(KeySignatureMarker, []byte{14}, []byte("\x08isStraight\x00")),
			wantKey:    14,
			wantLayout: "after-marker",
		},
		{
			name:       "byte before marker",
			buf:        join([]byte{0x30, 7}, KeySignatureMarker, []byte{0xFF}),
			wantKey:    7,
			wantLayout: "before-marker",
		},
		{
			name:       "before marker at end of buffer",
			buf:        join([]byte{23}, KeySignatureMarker),
			wantKey:    23,
			wantLayout: "before-marker",
		},
		{
			name:       "tagged byte in window",
			buf:        join([]byte{0x0F, 9, 0x40, 0x41}, KeySignatureMarker, []byte{0xFF}),
			wantKey:    9,
			wantLayout: "tagged-window",
		},
		{
			name:       "zero is a valid key",
			buf:        join(KeySignatureMarker, []byte{0}),
			wantKey:    0,
			wantLayout: "after-marker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DecodeAnalyzedData(tt.buf)
			require.NotNil(t, a.KeyIndex)
			assert.Equal(t, tt.wantKey, *a.KeyIndex)
			assert.Equal(t, tt.wantLayout, a.KeyLayout)
			assert.Nil(t, a.BPM)
		})
	}
}

func TestDecodeKeyIndexPrecedence(t *testing.T) {
	// tag layout, direct-before and direct-after all present
	all := join([]byte{0x0F, 9, 3}, KeySignatureMarker, []byte{12})
	a := DecodeAnalyzedData(all)
	require.NotNil(t, a.KeyIndex)
	assert.Equal(t, 12, *a.KeyIndex)

	// after-marker byte out of range: before-marker wins over the tag
	noAfter := join([]byte{0x0F, 9, 3}, KeySignatureMarker, []byte{24})
	a = DecodeAnalyzedData(noAfter)
	require.NotNil(t, a.KeyIndex)
	assert.Equal(t, 3, *a.KeyIndex)

	// only the tag layout remains
	onlyTag := join([]byte{0x0F, 9, 0x99}, KeySignatureMarker, []byte{0xFF})
	a = DecodeAnalyzedData(onlyTag)
	require.NotNil(t, a.KeyIndex)
	assert.Equal(t, 9, *a.KeyIndex)
}

func TestDecodeKeyIndexWindowBounds(t *testing.T) {
	// tag sits exactly at the first byte of the 32-byte window
	inside := join([]byte{0x0F, 3}, bytes.Repeat([]byte{0x40}, 30), KeySignatureMarker, []byte{0xFF})
	a := DecodeAnalyzedData(inside)
	require.NotNil(t, a.KeyIndex)
	assert.Equal(t, 3, *a.KeyIndex)

	// one byte further back and the tag falls outside the window
	outside := join([]byte{0x0F, 3}, bytes.Repeat([]byte{0x40}, 31), KeySignatureMarker, []byte{0xFF})
	a = DecodeAnalyzedData(outside)
	assert.Nil(t, a.KeyIndex)
}

func TestDecodeKeyIndexOnlyLastTagConsidered(t *testing.T) {
	buf := join([]byte{0x0F, 4, 0x0F, 0x50, 0x40}, KeySignatureMarker, []byte{0xFF})

	a := DecodeAnalyzedData(buf)

	assert.Nil(t, a.KeyIndex)
}

func TestDecodeKeyIndexAbsent(t *testing.T) {
	tests := map[string][]byte{
		"empty":             nil,
		"no marker":         []byte("\x0F\x05\x08keySignature\x00\x05"),
		"out of range":      join([]byte{0x40}, KeySignatureMarker, []byte{0x40}),
		"marker only":       KeySignatureMarker,
		"bpm only":          join(f32le(90), BPMMarker),
		"tag then big byte": join([]byte{0x30, 0x0F, 0x30}, KeySignatureMarker),
	}

	for name, buf := range tests {
		t.Run(name, func(t *testing.T) {
			a := DecodeAnalyzedData(buf)
			assert.Nil(t, a.KeyIndex)
			assert.Empty(t, a.KeyLayout)
		})
	}
}

func TestDecodeBothFields(t *testing.T) {
	buf := join(
		[]byte{0x0A, 0x01},
		f32le(123.5), BPMMarker,
		[]byte{0x0F, 17}, KeySignatureMarker, []byte("\x08isStraight\x00"),
	)

	a := DecodeAnalyzedData(buf)

	require.NotNil(t, a.BPM)
	require.NotNil(t, a.KeyIndex)
	assert.Equal(t, 123.5, *a.BPM)
	// the byte after the marker is the next field's marker byte (8), which
	// is in range and therefore takes precedence
	assert.Equal(t, 8, *a.KeyIndex)
	assert.False(t, a.Empty())
}

func TestAnalysisEmpty(t *testing.T) {
	assert.True(t, DecodeAnalyzedData([]byte("nothing here")).Empty())
}

func FuzzDecodeAnalyzedData(f *testing.F) {
	f.Add(join(f32le(128), BPMMarker))
	f.Add(join([]byte{0x0F, 9}, KeySignatureMarker))
	f.Add(join(KeySignatureMarker, []byte{3}))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, buf []byte) {
		a := DecodeAnalyzedData(buf)
		if a.KeyIndex != nil && (*a.KeyIndex < 0 || *a.KeyIndex > MaxKeyIndex) {
			t.Fatalf("key index %d out of range", *a.KeyIndex)
		}
		if a.BPM != nil && !bytes.Contains(buf, BPMMarker) {
			t.Fatal("bpm decoded without marker")
		}
	})
}
