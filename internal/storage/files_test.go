package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStoreCreatesFolders(t *testing.T) {
	root := t.TempDir()
	_, err := NewFileStore(root)
	require.NoError(t, err)

	for _, folder := range []string{
		FolderUserAvatars, FolderArtistAvatars, FolderAlbumArtwork,
		FolderMediaArtwork, FolderMediaFiles,
	} {
		info, err := os.Stat(filepath.Join(root, folder))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestDeleteMissingFileIsNoError(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete("media_files/never-existed.mp3"))
	assert.NoError(t, store.Delete(""))
}

func TestPathJoinsRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "media_files/x.mp3"), store.Path("media_files/x.mp3"))
}

func TestGeneratedName(t *testing.T) {
	name := generatedName("My Song (Live).mp3")
	assert.True(t, strings.HasPrefix(name, "my-song-"))
	assert.True(t, strings.HasSuffix(name, ".mp3"))
	assert.NotContains(t, name, "(")
	assert.NotContains(t, name, " ")

	// two uploads of the same file never collide
	assert.NotEqual(t, generatedName("a.mp3"), generatedName("a.mp3"))
}

func TestGeneratedNameTransliterates(t *testing.T) {
	name := generatedName("آهنگ جدید.mp3")
	assert.True(t, strings.HasSuffix(name, ".mp3"))
	for _, r := range strings.TrimSuffix(name, ".mp3") {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-',
			"unexpected rune %q in %q", r, name)
	}
}

func TestGeneratedNameEmptyBase(t *testing.T) {
	name := generatedName("....mp3")
	assert.True(t, strings.HasPrefix(name, "file-"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", ContentType("media_files/a.mp3"))
	assert.Equal(t, "application/octet-stream", ContentType("media_files/a.weird"))
}
