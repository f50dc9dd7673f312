package id

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransferID(t *testing.T) {
	tid := NewTransferID()
	assert.True(t, strings.HasPrefix(tid.String(), "tr_"))
	assert.True(t, IsValid(tid.String()))
}

func TestTransferIDsUnique(t *testing.T) {
	seen := make(map[TransferID]bool)
	for i := 0; i < 1000; i++ {
		tid := NewTransferID()
		assert.False(t, seen[tid], "duplicate id %s", tid)
		seen[tid] = true
	}
}

func TestTransferIDsSortByTime(t *testing.T) {
	first := NewTransferID()
	time.Sleep(2 * time.Millisecond)
	second := NewTransferID()

	assert.Less(t, first.String(), second.String())
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Truncate(time.Millisecond)
	tid := NewTransferID()

	ts, err := Timestamp(tid.String())
	require.NoError(t, err)
	assert.False(t, ts.Before(before))
	assert.WithinDuration(t, time.Now(), ts, time.Second)
}

func TestIsValidRejectsGarbage(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("tr"))
	assert.False(t, IsValid("tr_not-a-ulid"))
	assert.False(t, IsValid("01ARZ3NDEKTSV4RRFFQ69G5FAV")) // missing prefix
}

func TestDeterministicEntropy(t *testing.T) {
	entropy := bytes.NewReader(make([]byte, 32))
	gen := NewGeneratorWithEntropy(entropy)

	first := gen.GenerateString()
	require.Len(t, first, 26)
}

func TestDefaultSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
