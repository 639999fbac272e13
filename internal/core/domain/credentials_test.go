package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialPool(t *testing.T) {
	t.Run("drops empty tokens", func(t *testing.T) {
		pool, err := NewCredentialPool([]string{"a", "", "b"})
		require.NoError(t, err)
		assert.Equal(t, 2, pool.Len())
		assert.Equal(t, "a", pool.Current())
	})

	t.Run("empty pool", func(t *testing.T) {
		_, err := NewCredentialPool([]string{"", ""})
		assert.ErrorIs(t, err, ErrNoCredentials)

		_, err = NewCredentialPool(nil)
		assert.ErrorIs(t, err, ErrNoCredentials)
	})
}

func TestCredentialPool_Advance(t *testing.T) {
	pool, err := NewCredentialPool([]string{"t0", "t1", "t2"})
	require.NoError(t, err)

	assert.Equal(t, "t1", pool.Advance())
	assert.Equal(t, "t2", pool.Advance())
	assert.Equal(t, "t0", pool.Advance())
	assert.Equal(t, 0, pool.Cursor())

	for i := 0; i < 10; i++ {
		pool.Advance()
		assert.GreaterOrEqual(t, pool.Cursor(), 0)
		assert.Less(t, pool.Cursor(), pool.Len())
	}
}

func TestCredentialPool_SingleToken(t *testing.T) {
	pool, err := NewCredentialPool([]string{"only"})
	require.NoError(t, err)

	assert.Equal(t, "only", pool.Advance())
	assert.Equal(t, 0, pool.Cursor())
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask("short"))
	assert.Equal(t, "ghp_...wxyz", Mask("ghp_abcdefghijklmnopqrstuvwxyz"))
}

func TestNewAnonymousPool(t *testing.T) {
	pool := NewAnonymousPool()

	assert.Equal(t, 1, pool.Len())
	assert.Equal(t, "", pool.Current())
	assert.True(t, pool.Anonymous())

	named, err := NewCredentialPool([]string{"tok"})
	require.NoError(t, err)
	assert.False(t, named.Anonymous())
}
