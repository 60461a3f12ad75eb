package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"storefront-service/apperrors"
)

var allowedExtensions = map[string]bool{
	"pdf":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// DiskStore keeps uploaded assets in one managed directory. Stored names are
// generated server-side, so nothing from the client (beyond the validated
// extension) ever reaches the filesystem.
type DiskStore struct {
	BaseDir string
}

func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{BaseDir: baseDir}, nil
}

// Save validates the original name's extension against the allow-list,
// generates a collision-resistant stored name and writes the bytes. The
// extension check runs before anything touches disk.
func (s *DiskStore) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if !allowedExtensions[ext] {
		return "", apperrors.New(http.StatusBadRequest, "File type not allowed.", nil)
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	name := fmt.Sprintf("asset_%d_%s.%s", time.Now().Unix(), hex.EncodeToString(suffix), ext)

	f, err := os.Create(filepath.Join(s.BaseDir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

// Resolve reduces a caller-supplied reference (filename or full URL) to a
// bare object name inside BaseDir. Only the final path segment survives, so
// traversal sequences never escape the managed directory. References that
// collapse to a directory ("", ".", "..", "/") resolve to nothing: no object
// can carry those names, and BaseDir itself must never be a delete target.
func (s *DiskStore) Resolve(ref string) string {
	name := path.Base(strings.ReplaceAll(ref, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}

// Delete removes the referenced object. A missing object is success:
// already-gone is the desired end state.
func (s *DiskStore) Delete(ref string) (existed bool, err error) {
	name := s.Resolve(ref)
	if name == "" {
		return false, nil
	}
	target := filepath.Join(s.BaseDir, name)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.Remove(target); err != nil {
		return true, err
	}
	return true, nil
}

// Open returns a reader over the referenced object plus its content type and
// size, or ErrNotFound when the object is absent.
func (s *DiskStore) Open(ref string) (io.ReadCloser, string, int64, error) {
	name := s.Resolve(ref)
	if name == "" {
		return nil, "", 0, apperrors.ErrNotFound
	}
	target := filepath.Join(s.BaseDir, name)

	info, err := os.Stat(target)
	if os.IsNotExist(err) {
		return nil, "", 0, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, "", 0, err
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, "", 0, err
	}
	return f, ContentTypeFor(name), info.Size(), nil
}

// ContentTypeFor maps a stored name's extension to its MIME type.
func ContentTypeFor(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
