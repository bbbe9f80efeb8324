package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"storefront_server/lib"
	"storefront_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffBytes is how much of an upload is read to detect its type
const sniffBytes = 3072

var imageExtensions = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
	{"image/gif", ".gif"},
}

// StorageService stores marketplace images on local disk
type StorageService struct {
	logger *gecho.Logger
	cfg    *structs.StorageConfig
}

func NewStorageService(logger *gecho.Logger, cfg *structs.Config) *StorageService {
	return &StorageService{logger: logger, cfg: cfg.Storage}
}

// EnsureDir creates the upload directory if needed
func (ss *StorageService) EnsureDir() error {
	return os.MkdirAll(ss.cfg.UploadDir, 0o755)
}

func (ss *StorageService) MaxImages() int {
	return ss.cfg.MaxImagesPerItem
}

func (ss *StorageService) publicPrefix() string {
	return strings.TrimRight(ss.cfg.PublicPrefix, "/")
}

// imageExtension returns the file extension for a supported image type
func imageExtension(mtype *mimetype.MIME) (string, bool) {
	for _, img := range imageExtensions {
		if mtype.Is(img.mime) {
			return img.ext, true
		}
	}
	return "", false
}

// SaveImage validates and stores an image and returns its public URL.
// Nothing is left on disk when it fails.
func (ss *StorageService) SaveImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	limited := io.LimitReader(r, ss.cfg.MaxImageBytes+1)
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(limited, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", lib.ErrUnsupportedImage
	}

	mtype := mimetype.Detect(head)
	ext, ok := imageExtension(mtype)
	if !ok {
		ss.logger.Debug("Rejected upload", gecho.Field("filename", filename), gecho.Field("mime", mtype.String()))
		return "", lib.ErrUnsupportedImage
	}

	if err := ss.EnsureDir(); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(ss.cfg.UploadDir, ".upload-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	written, err := tmp.Write(head)
	if err != nil {
		cleanup()
		return "", err
	}
	rest, err := io.Copy(tmp, limited)
	if err != nil {
		cleanup()
		return "", err
	}
	if int64(written)+rest > ss.cfg.MaxImageBytes {
		cleanup()
		return "", lib.ErrImageTooLarge
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}

	name := uuid.New().String() + ext
	if err := os.Rename(tmpName, filepath.Join(ss.cfg.UploadDir, name)); err != nil {
		os.Remove(tmpName)
		return "", err
	}

	return ss.publicPrefix() + "/" + name, nil
}

// DeleteByURL removes a stored file. URLs outside the public prefix are ignored.
func (ss *StorageService) DeleteByURL(url string) error {
	prefix := ss.publicPrefix() + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return nil
	}

	err := os.Remove(filepath.Join(ss.cfg.UploadDir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		ss.logger.Warn("Failed to delete stored file", gecho.Field("error", err), gecho.Field("url", url))
		return err
	}
	return nil
}

// DeleteAll removes every file in urls, logging failures
func (ss *StorageService) DeleteAll(urls []string) {
	for _, u := range urls {
		_ = ss.DeleteByURL(u)
	}
}
