package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := map[string]bool{}

	for range 200 {
		c, err := Generate()
		require.NoError(t, err)
		assert.Len(t, c, 6)

		for _, r := range c {
			assert.True(t, r >= '0' && r <= '9', "code must be numeric, got %q", c)
		}

		seen[c] = true
	}

	// 200 draws from a million values collapsing to a handful would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 150)
}
