package dmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAllocGetFree(t *testing.T) {
	var r registry
	d := &descriptor{base: "q"}

	h, err := r.alloc(d)
	require.NoError(t, err)
	assert.Equal(t, Handle(0), h)

	got, err := r.get(h)
	require.NoError(t, err)
	assert.Same(t, d, got)

	require.NoError(t, r.free(h))

	_, err = r.get(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestRegistryExhaustion(t *testing.T) {
	var r registry
	for i := 0; i < maxDescriptors; i++ {
		_, err := r.alloc(&descriptor{})
		require.NoError(t, err)
	}

	_, err := r.alloc(&descriptor{})
	assert.ErrorIs(t, err, ErrDescriptorTableFull)
}

func TestRegistryFreeingReclaimsSlot(t *testing.T) {
	var r registry
	handles := make([]Handle, maxDescriptors)
	for i := range handles {
		h, err := r.alloc(&descriptor{})
		require.NoError(t, err)
		handles[i] = h
	}

	require.NoError(t, r.free(handles[3]))

	h, err := r.alloc(&descriptor{base: "reused"})
	require.NoError(t, err)
	assert.Equal(t, handles[3], h)
}

func TestRegistryGetOutOfRangeHandle(t *testing.T) {
	var r registry
	_, err := r.get(Handle(maxDescriptors))
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = r.get(Handle(-1))
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestRegistryFreeUnallocatedSlot(t *testing.T) {
	var r registry
	assert.ErrorIs(t, r.free(Handle(0)), ErrInvalidHandle)
}
