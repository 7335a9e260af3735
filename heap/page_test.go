package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_FindBestFitPicksSmallestSufficientRun(t *testing.T) {
	p := newPage()
	p.markRun(0, 10, true)   // occupied
	p.markRun(10, 5, false)  // free run of 5
	p.markRun(15, 3, true)   // occupied
	p.markRun(18, 20, false) // free run of 20

	start, ok := p.findBestFit(4)
	require.True(t, ok)
	assert.Equal(t, 10, start, "the 5-chunk run fits 4 and is smaller than the 20-chunk run")
}

func TestPage_FindBestFitFailsWhenNothingFits(t *testing.T) {
	p := newPage()
	p.markRun(0, ChunksPerPage, true)
	_, ok := p.findBestFit(1)
	assert.False(t, ok)
}

func TestPage_MarkRunRoundTrips(t *testing.T) {
	p := newPage()
	p.markRun(5, 3, true)
	assert.True(t, p.bitSet(5))
	assert.True(t, p.bitSet(7))
	assert.False(t, p.bitSet(8))

	p.markRun(5, 3, false)
	assert.False(t, p.bitSet(5))
}

func TestChunksFor_RoundsUp(t *testing.T) {
	assert.Equal(t, 1, chunksFor(1))
	assert.Equal(t, 1, chunksFor(ChunkSize))
	assert.Equal(t, 2, chunksFor(ChunkSize+1))
}
