package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartArithmetic(t *testing.T) {
	c := New()

	require.NoError(t, c.Add(3, 1))
	require.NoError(t, c.Add(3, 2))
	require.NoError(t, c.Add(1, 1))

	assert.Equal(t, 4, c.Count())
	assert.Equal(t, []Line{{ProductID: 1, Quantity: 1}, {ProductID: 3, Quantity: 3}}, c.Lines())

	require.NoError(t, c.Set(3, 5))
	assert.Equal(t, 5, c[3])

	require.NoError(t, c.Set(3, 0))
	_, ok := c[3]
	assert.False(t, ok)

	c.Remove(1)
	assert.Equal(t, 0, c.Count())
	assert.Empty(t, c.Lines())
}

func TestCartRejectsBadQuantities(t *testing.T) {
	c := New()

	assert.ErrorIs(t, c.Add(1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(1, -2), ErrInvalidQuantity)
	assert.Error(t, c.Set(1, MaxQuantity+1))

	require.NoError(t, c.Add(1, MaxQuantity))
	assert.Error(t, c.Add(1, 1))
}

func TestFromWire(t *testing.T) {
	c, err := FromWire(map[string]int{"7": 2, "9": 0, "2": 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 7}, c.IDs())

	_, err = FromWire(map[string]int{"abc": 1})
	assert.Error(t, err)

	_, err = FromWire(map[string]int{"0": 1})
	assert.Error(t, err)
}
