package random_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-battle/internal/pkg/random"
)

func TestSeededIsReproducible(t *testing.T) {
	a := random.NewSeeded(42, 7)
	b := random.NewSeeded(42, 7)

	for i := 0; i < 50; i++ {
		va, err := a.Roll(6)
		require.NoError(t, err)
		vb, err := b.Roll(6)
		require.NoError(t, err)
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 1)
		assert.LessOrEqual(t, va, 6)
	}
}

func TestSeededRejectsBadSize(t *testing.T) {
	_, err := random.NewSeeded(1, 1).Roll(0)
	assert.Error(t, err)
}

func TestShuffleKeepsElements(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, random.Shuffle(random.NewSeeded(3, 3), items))
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, items)

	again := []int{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, random.Shuffle(random.NewSeeded(3, 3), again))
	assert.Equal(t, items, again)
}

func TestShuffleScripted(t *testing.T) {
	// i=2 swaps with index 0, i=1 swaps with itself
	items := []string{"a", "b", "c"}
	require.NoError(t, random.Shuffle(random.NewScripted(1, 2), items))
	assert.Equal(t, []string{"c", "b", "a"}, items)
}

func TestScriptedExhausted(t *testing.T) {
	r := random.NewScripted(2)
	v, err := random.Index(r, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 0, r.Remaining())

	_, err = r.Roll(3)
	assert.Error(t, err)
}
