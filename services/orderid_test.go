package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numericOrderID = regexp.MustCompile(`^\d+$`)

func TestOrderIDGenUniqueWithinSameMillisecond(t *testing.T) {
	frozen := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	gen := newOrderIDGen(func() time.Time { return frozen })

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := gen.Next()
		require.False(t, seen[id], "duplicate id %s on iteration %d", id, i)
		seen[id] = true
		assert.Regexp(t, numericOrderID, id)
	}
}

func TestOrderIDGenStrictlyIncreases(t *testing.T) {
	ts := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	calls := 0
	gen := newOrderIDGen(func() time.Time {
		calls++
		// Clock advances one millisecond every third call.
		return ts.Add(time.Duration(calls/3) * time.Millisecond)
	})

	prev := gen.Next()
	for i := 0; i < 20; i++ {
		next := gen.Next()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestOrderIDGenEmbedsUnixMillisecond(t *testing.T) {
	frozen := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	gen := newOrderIDGen(func() time.Time { return frozen })

	id := gen.Next()
	require.Len(t, id, 16)
	assert.Equal(t, "1718020800000", id[:13])
	assert.Equal(t, "000", id[13:])
}
