package profile

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSample(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	got := sample(append([]int(nil), pool...), 4, rand.IntN)
	assert.Len(t, got, 4)
	seen := map[int]bool{}
	for _, v := range got {
		assert.False(t, seen[v], "duplicate %d", v)
		seen[v] = true
	}

	all := sample(append([]int(nil), pool...), 50, rand.IntN)
	assert.ElementsMatch(t, pool, all)

	assert.Empty(t, sample([]int{}, 3, rand.IntN))
}
