// Package storage implements the file-store collaborator for uploaded
// images. The core never touches the filesystem directly; it saves through a
// FileStore and keeps only the returned ref.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gather/internal/models"

	"github.com/google/uuid"
)

// Kind selects the upload area and its size limit.
type Kind string

const (
	// KindProfile is for avatar images, capped at 2 MiB.
	KindProfile Kind = "profile"
	// KindGallery is for gallery photos, capped at 5 MiB.
	KindGallery Kind = "gallery"
)

const (
	maxProfileBytes = 2 * 1024 * 1024
	maxGalleryBytes = 5 * 1024 * 1024
)

var allowedExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// FileStore stores and releases uploaded files. Save returns a path-like ref
// rooted under the store's base; Delete releases a previously returned ref.
type FileStore interface {
	Save(ctx context.Context, r io.Reader, kind Kind, originalName string, ownerID uint) (string, error)
	Delete(ctx context.Context, ref string) error
}

// maxBytes returns the size limit for the kind.
func maxBytes(kind Kind) int64 {
	if kind == KindProfile {
		return maxProfileBytes
	}
	return maxGalleryBytes
}

// checkName validates the extension and returns it lowercased.
func checkName(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExts[ext]; !ok {
		return "", models.NewValidationError(fmt.Sprintf("file type %q is not allowed (png, jpg, jpeg, gif)", ext))
	}
	return ext, nil
}

// Local is a FileStore rooted at a directory on disk.
type Local struct {
	base string
}

// NewLocal returns a Local store rooted at base, creating it if needed.
func NewLocal(base string) (*Local, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, models.NewStorageFailureError("create upload dir", err)
	}
	return &Local{base: base}, nil
}

// Save streams r into the kind's subdirectory, enforcing the extension
// whitelist and the per-kind size limit. The returned ref is relative to the
// store base, e.g. "gallery/7/550e8400.png".
func (s *Local) Save(ctx context.Context, r io.Reader, kind Kind, originalName string, ownerID uint) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", models.NewStorageFailureError("store file", err)
	}
	ext, err := checkName(originalName)
	if err != nil {
		return "", err
	}

	ref := path.Join(string(kind), fmt.Sprintf("%d", ownerID), uuid.NewString()+ext)
	full := filepath.Join(s.base, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", models.NewStorageFailureError("store file", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", models.NewStorageFailureError("store file", err)
	}

	limit := maxBytes(kind)
	// Read one byte past the limit so oversize uploads are detected without
	// buffering the whole stream.
	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", models.NewStorageFailureError("store file", err)
	}
	if n > limit {
		_ = os.Remove(full)
		return "", models.NewValidationError(fmt.Sprintf("file exceeds the %d MiB limit", limit/(1024*1024)))
	}
	return ref, nil
}

// Delete removes the file for ref. Refs that escape the base are rejected;
// a missing file is not an error.
func (s *Local) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageFailureError("delete file", err)
	}
	clean := path.Clean(ref)
	if clean == "." || strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		return models.NewValidationError("invalid file ref")
	}
	err := os.Remove(filepath.Join(s.base, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return models.NewStorageFailureError("delete file", err)
	}
	return nil
}

// Fake is an in-memory FileStore for tests.
type Fake struct {
	Files map[string][]byte
}

// NewFake returns an empty in-memory store.
func NewFake() *Fake {
	return &Fake{Files: map[string][]byte{}}
}

// Save buffers the upload in memory under a deterministic-ish ref.
func (s *Fake) Save(_ context.Context, r io.Reader, kind Kind, originalName string, ownerID uint) (string, error) {
	ext, err := checkName(originalName)
	if err != nil {
		return "", err
	}
	limit := maxBytes(kind)
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", models.NewStorageFailureError("store file", err)
	}
	if int64(len(data)) > limit {
		return "", models.NewValidationError(fmt.Sprintf("file exceeds the %d MiB limit", limit/(1024*1024)))
	}
	ref := path.Join(string(kind), fmt.Sprintf("%d", ownerID), fmt.Sprintf("file%d%s", len(s.Files)+1, ext))
	s.Files[ref] = data
	return ref, nil
}

// Delete forgets the ref.
func (s *Fake) Delete(_ context.Context, ref string) error {
	delete(s.Files, ref)
	return nil
}
