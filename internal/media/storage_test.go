package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipers-engine/internal/common/config"
)

func TestDiskStorage_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStorage(config.MediaConfig{UploadDir: dir, BaseURL: "https://cdn.example.com/videos/"})
	require.NoError(t, err)

	url, err := s.Save("cliper-1.mp4", []byte("video-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/videos/cliper-1.mp4", url)

	data, err := os.ReadFile(filepath.Join(dir, "cliper-1.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))

	require.NoError(t, s.Remove("cliper-1.mp4"))
	_, err = os.Stat(filepath.Join(dir, "cliper-1.mp4"))
	assert.True(t, os.IsNotExist(err))

	// Removing a missing file is not an error.
	assert.NoError(t, s.Remove("cliper-1.mp4"))
}

func TestDiskStorage_RejectsTraversal(t *testing.T) {
	s, err := NewDiskStorage(config.MediaConfig{UploadDir: t.TempDir(), BaseURL: "https://cdn.example.com"})
	require.NoError(t, err)

	_, err = s.Save("../escape.mp4", []byte("x"))
	assert.Error(t, err)
	assert.Error(t, s.Remove("../escape.mp4"))
}
