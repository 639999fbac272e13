package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckpoint_IsZero(t *testing.T) {
	assert.True(t, Checkpoint{}.IsZero())
	assert.False(t, Checkpoint{Page: 1}.IsZero())
	assert.False(t, Checkpoint{Count: 5, Exact: true}.IsZero())
}

func TestCheckpoint_ResolvedCount(t *testing.T) {
	t.Run("exact count is used as stored", func(t *testing.T) {
		cp := Checkpoint{Page: 2, Count: 150, Exact: true}
		assert.Equal(t, 150, cp.ResolvedCount(100))
	})

	t.Run("derived count is page times page size", func(t *testing.T) {
		cp := Checkpoint{Page: 2}
		assert.Equal(t, 200, cp.ResolvedCount(100))
	})

	t.Run("fresh checkpoint", func(t *testing.T) {
		assert.Equal(t, 0, Checkpoint{}.ResolvedCount(100))
	})
}
