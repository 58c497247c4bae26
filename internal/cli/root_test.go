package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudlift/cloudlift/internal/config"
	"github.com/cloudlift/cloudlift/internal/rclone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootFlags(t *testing.T) {
	flags := []string{
		"file", "dir", "remote-dir", "remote-name",
		"keep-rclone", "remove-rclone", "no-cleanup",
	}
	for _, name := range flags {
		assert.NotNilf(t, rootCmd.Flags().Lookup(name), "flag --%s should be registered", name)
	}

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"),
		"--config should be available on subcommands too")
}

func TestSubcommandsRegistered(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"init", "doctor", "clean", "version", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestRemoveInstallation(t *testing.T) {
	t.Run("nothing cached", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		assert.NoError(t, removeInstallation())
	})

	t.Run("removes the cache directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		dataDir, err := config.DataDir()
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "rclone"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(dataDir, "rclone", rclone.BinaryName), []byte("bin"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(dataDir, "rclone.conf"), []byte("[gdrive]\n"), 0o600))

		require.NoError(t, removeInstallation())

		_, statErr := os.Stat(dataDir)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestSetVersionInfo(t *testing.T) {
	origV, origC, origD := version, commit, date
	t.Cleanup(func() { SetVersionInfo(origV, origC, origD) })

	SetVersionInfo("1.2.3", "abc123", "2026-08-23")

	assert.Equal(t, "1.2.3", version)
	assert.Equal(t, "abc123", commit)
	assert.Equal(t, "2026-08-23", date)
}
