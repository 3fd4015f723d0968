package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/smart-crop/pkg/types"
)

func TestGetFileExtension(t *testing.T) {
	assert.Equal(t, "jpg", GetFileExtension("a/b/photo.JPG"))
	assert.Equal(t, "", GetFileExtension("photo"))
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "notes.txt", "sub/c.webp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, EnsureDir(filepath.Dir(path)))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	isImage := func(path string) bool { return GetFileExtension(path) != "txt" }

	files, err := ListImageFiles(dir, isImage)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "sub", "c.webp"),
	}, files)

	single, err := ListImageFiles(filepath.Join(dir, "a.jpg"), isImage)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.jpg")}, single)

	_, err = ListImageFiles(filepath.Join(dir, "missing"), isImage)
	assert.Error(t, err)
}

func TestCropFilename(t *testing.T) {
	size := types.Size{Width: 800, Height: 600}
	assert.Equal(t, filepath.Join("out", "007_800x600.jpg"), CropFilename("out", 7, size, "jpeg"))
	assert.Equal(t, filepath.Join("out", "012_800x600.webp"), CropFilename("out", 12, size, "webp"))
}

func TestGenerateOutputFilename(t *testing.T) {
	size := types.Size{Width: 64, Height: 64}
	got := GenerateOutputFilename("in/my:photo.png", "out", "pre_", "_c", size, "")
	assert.Equal(t, filepath.Join("out", "pre_my_photo_64x64_c.png"), got)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c", SanitizeFilename(" a/b?c. "))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "2.0 MB", FormatFileSize(2*1024*1024))
}
