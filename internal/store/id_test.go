package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	t.Run("shape", func(t *testing.T) {
		id, err := NewID()
		require.NoError(t, err, "should generate an id")

		assert.Len(t, id, 8, "ids are 8 characters")
		for _, r := range id {
			assert.Contains(t, idAlphabet, string(r), "ids only use the upper-case alphanumeric alphabet")
		}
	})

	t.Run("draws differ", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 100 {
			id, err := NewID()
			require.NoError(t, err, "should generate an id")
			seen[id] = true
		}

		assert.Greater(t, len(seen), 90, "draws should not repeat in practice")
	})
}
