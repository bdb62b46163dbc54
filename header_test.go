package dmq

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderFreshInitializationAndRoundTrip(t *testing.T) {
	data := make([]byte, headerSize)
	h := newHeaderView(data)
	base := filepath.Join(t.TempDir(), "q")
	h.initializeFresh(base, ModeFrames)

	assert.True(t, h.valid())
	assert.Equal(t, 0, h.ReadTarget())
	assert.Equal(t, 0, h.WriteTarget())
	assert.Equal(t, ModeFrames, h.Mode())
	assert.EqualValues(t, 0, h.ReadOffset())
	assert.EqualValues(t, 0, h.Position())
	assert.Equal(t, base+"0", h.QFile(qfQ0))
	assert.Equal(t, base+"1", h.QFile(qfQ1))
	assert.Equal(t, base+"map", h.QFile(qfMap))

	h.SetReadTarget(1)
	h.SetPosition(12345)
	assert.Equal(t, 1, h.ReadTarget())
	assert.EqualValues(t, 12345, h.Position())
}

func TestHeaderUnspecifiedModeDefaultsToNewlines(t *testing.T) {
	data := make([]byte, headerSize)
	h := newHeaderView(data)
	h.initializeFresh(filepath.Join(t.TempDir(), "q"), ModeUnspecified)
	assert.Equal(t, ModeNewlines, h.Mode())
}

func TestHeaderInvalidUntilInitialized(t *testing.T) {
	data := make([]byte, headerSize)
	h := newHeaderView(data)
	assert.False(t, h.valid())
}

func TestHeaderSetQFileTooLongPanics(t *testing.T) {
	data := make([]byte, headerSize)
	h := newHeaderView(data)
	longPath := make([]byte, headerPathMaxLen+1)
	for i := range longPath {
		longPath[i] = 'a'
	}
	require.Panics(t, func() {
		h.SetQFile(qfQ0, string(longPath))
	})
}
