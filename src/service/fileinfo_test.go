package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMimeDefaultsWhenUnreadable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	assert.Equal(t, DefaultFileMime, FileMime(missing))
	assert.Equal(t, DefaultFileDescription, FileDescription(missing))
}

func TestFileMimeDetectsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some plain text\n"), 0o644))

	assert.Equal(t, "text/plain", FileMime(path))
	assert.Equal(t, "ASCII text", FileDescription(path))
}

func TestFileMimeDetectsPNG(t *testing.T) {
	// Minimal PNG header is enough for magic-byte detection.
	header := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, header, 0o644))

	assert.Equal(t, "image/png", FileMime(path))
	assert.Equal(t, "PNG image data", FileDescription(path))
}

func TestFileDescriptionFallsBackToMime(t *testing.T) {
	// A format without a friendly name comes back as the raw MIME type.
	path := filepath.Join(t.TempDir(), "style.css")
	require.NoError(t, os.WriteFile(path, []byte("body { color: red }\n"), 0o644))

	desc := FileDescription(path)
	assert.NotEqual(t, DefaultFileDescription, desc)
	assert.NotEmpty(t, desc)
}
