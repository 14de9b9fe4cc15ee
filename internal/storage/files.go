// Package storage keeps uploaded media and artwork on the local filesystem.
// Stored names are generated, never the client's: the original name is
// transliterated to ASCII and suffixed with a UUID so collisions and path
// tricks cannot happen.
package storage

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/unidecode"
)

// Upload folders, one per owning entity kind.
const (
	FolderUserAvatars   = "user_avatars"
	FolderArtistAvatars = "artist_avatars"
	FolderAlbumArtwork  = "album_artwork"
	FolderMediaArtwork  = "media_artwork"
	FolderMediaFiles    = "media_files"
)

// FileStore saves and removes uploaded files under a single root directory.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	for _, folder := range []string{
		FolderUserAvatars, FolderArtistAvatars, FolderAlbumArtwork,
		FolderMediaArtwork, FolderMediaFiles,
	} {
		if err := os.MkdirAll(filepath.Join(root, folder), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload folder: %w", err)
		}
	}
	return &FileStore{root: root}, nil
}

// Save writes the uploaded file into folder and returns the relative path
// under the store root.
func (s *FileStore) Save(file *multipart.FileHeader, folder string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := generatedName(file.Filename)
	rel := filepath.Join(folder, name)

	dst, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return rel, nil
}

// Delete removes a stored file by its relative path. A missing file is not
// an error; retried deletes must succeed.
func (s *FileStore) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, rel))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Path returns the absolute path of a stored file.
func (s *FileStore) Path(rel string) string {
	return filepath.Join(s.root, rel)
}

// Media formats the store serves. The system mime table does not reliably
// carry audio types, so they are pinned here.
var mediaContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
}

// ContentType resolves the MIME type of a stored file from its extension,
// falling back to application/octet-stream.
func ContentType(rel string) string {
	ext := strings.ToLower(filepath.Ext(rel))
	if ct, ok := mediaContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// generatedName transliterates the original base name to ASCII, strips
// anything outside [a-z0-9-], and appends a UUID before the extension.
func generatedName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.ToLower(unidecode.Unidecode(base))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "file"
	}
	return slug + "-" + uuid.NewString() + ext
}
