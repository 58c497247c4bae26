package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseDisplayRenderSuccess(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.RenderSuccess("Archived photos", 300*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, SymbolComplete)
	assert.Contains(t, out, "Archived photos")
	assert.Contains(t, out, "(0.3s)")
}

func TestPhaseDisplayRenderFailed(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.RenderFailed("Upload", 2300*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, SymbolFail)
	assert.Contains(t, out, "Upload")
	assert.Contains(t, out, "(2.3s)")
}

func TestPhaseDisplayRenderSkipped(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		var buf bytes.Buffer
		NewPhaseDisplay(&buf).RenderSkipped("Archive", "single file")

		out := buf.String()
		assert.Contains(t, out, SymbolSkipped)
		assert.Contains(t, out, "Archive")
		assert.Contains(t, out, "(single file)")
	})

	t.Run("without reason", func(t *testing.T) {
		var buf bytes.Buffer
		NewPhaseDisplay(&buf).RenderSkipped("Archive", "")

		out := buf.String()
		assert.Contains(t, out, SymbolSkipped)
		assert.NotContains(t, out, "()")
	})
}

func TestPhaseDisplayRenderInfo(t *testing.T) {
	var buf bytes.Buffer
	NewPhaseDisplay(&buf).RenderInfo("cached at ~/.local/share")

	assert.Contains(t, buf.String(), "cached at ~/.local/share")
}

func TestPhaseDisplayDivider(t *testing.T) {
	var buf bytes.Buffer
	NewPhaseDisplay(&buf).Divider()

	assert.Contains(t, buf.String(), "━")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{300 * time.Millisecond, "(0.3s)"},
		{2 * time.Second, "(2.0s)"},
		{2*time.Minute + 4*time.Second, "(2m4s)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
