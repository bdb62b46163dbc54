package dmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameForNewlines(t *testing.T) {
	parts, err := frameFor(ModeNewlines, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("hello"), {0x0A}}, parts)
}

func TestFrameForNulls(t *testing.T) {
	parts, err := frameFor(ModeNulls, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("hello"), {0x00}}, parts)
}

func TestFrameForRaw(t *testing.T) {
	parts, err := frameFor(ModeRaw, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("hello")}, parts)
}

// TestFramesBinaryRoundTrip pins down SPEC_FULL.md §13's resolution of the
// Frames length-semantics open question: the 2-byte prefix is the payload
// length only, and a receiver advances 2+L bytes per record (spec.md §8
// scenario 2).
func TestFramesBinaryRoundTrip(t *testing.T) {
	payload := []byte{0x00, 0xFF, 0x0A, 0x42}
	parts, err := frameFor(ModeFrames, payload)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 2)
	assert.Equal(t, payload, parts[1])

	wire := append(append([]byte{}, parts[0]...), parts[1]...)
	require.Len(t, wire, 6)

	ps, pe, next, ok := findBoundary(ModeFrames, wire, len(wire))
	require.True(t, ok)
	assert.Equal(t, 2, ps)
	assert.Equal(t, 6, pe)
	assert.Equal(t, 6, next)
	assert.Equal(t, payload, wire[ps:pe])
}

func TestFrameForOversize(t *testing.T) {
	_, err := frameFor(ModeFrames, make([]byte, maxFrameLen+1))
	assert.ErrorIs(t, err, ErrOversizeRecord)
}

func TestFindBoundaryNewlines(t *testing.T) {
	buf := []byte("hello\nworld\n")
	ps, pe, next, ok := findBoundary(ModeNewlines, buf, len(buf))
	require.True(t, ok)
	assert.Equal(t, 0, ps)
	assert.Equal(t, 5, pe)
	assert.Equal(t, 6, next)

	firstNext := next
	ps, pe, _, ok = findBoundary(ModeNewlines, buf[firstNext:], len(buf)-firstNext)
	require.True(t, ok)
	assert.Equal(t, "world", string(buf[firstNext+ps:firstNext+pe]))
}

func TestFindBoundaryNoneFound(t *testing.T) {
	buf := []byte("no delimiter here")
	_, _, _, ok := findBoundary(ModeNewlines, buf, len(buf))
	assert.False(t, ok)
}

func TestFindBoundaryFramesPartialHeader(t *testing.T) {
	_, _, _, ok := findBoundary(ModeFrames, []byte{0x04}, 1)
	assert.False(t, ok)
}

func TestFindBoundaryFramesPartialPayload(t *testing.T) {
	buf := []byte{0x04, 0x00, 'a', 'b'} // length says 4, only 2 payload bytes present
	_, _, _, ok := findBoundary(ModeFrames, buf, len(buf))
	assert.False(t, ok)
}
