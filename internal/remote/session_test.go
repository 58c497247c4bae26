package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRemoteSession(t *testing.T) {
	clear := func(t *testing.T) {
		for _, name := range sessionMarkers {
			t.Setenv(name, "")
		}
	}

	t.Run("no markers", func(t *testing.T) {
		clear(t)
		assert.False(t, IsRemoteSession())
	})

	for _, marker := range sessionMarkers {
		t.Run(marker, func(t *testing.T) {
			clear(t)
			t.Setenv(marker, "10.0.0.1 22")
			assert.True(t, IsRemoteSession())
		})
	}
}
