package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxFileSize   = 5 * 1024 * 1024
	MaxFilesCount = 5
)

// ErrInvalidUpload wraps every rejection caused by the client's files.
var ErrInvalidUpload = errors.New("invalid upload")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ImageStore keeps location images on the local filesystem under dir and
// hands out URLs under urlPrefix.
type ImageStore struct {
	dir       string
	urlPrefix string
}

func NewImageStore(dir, urlPrefix string) *ImageStore {
	return &ImageStore{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}
}

func (s *ImageStore) Dir() string {
	return s.dir
}

// SaveLocationImages writes files to <dir>/<locationID>/ and returns their
// public URLs in upload order. Nothing is written unless every file passes
// validation.
func (s *ImageStore) SaveLocationImages(locationID uint, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrInvalidUpload)
	}
	if len(files) > MaxFilesCount {
		return nil, fmt.Errorf("%w: at most %d images per request", ErrInvalidUpload, MaxFilesCount)
	}
	for _, fh := range files {
		if fh.Size > MaxFileSize {
			return nil, fmt.Errorf("%w: %s exceeds 5MB", ErrInvalidUpload, fh.Filename)
		}
		if !allowedExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
			return nil, fmt.Errorf("%w: %s must be jpg, png or webp", ErrInvalidUpload, fh.Filename)
		}
	}

	sub := strconv.FormatUint(uint64(locationID), 10)
	uploadDir := filepath.Join(s.dir, sub)
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	var urls []string
	for _, fh := range files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		dst := filepath.Join(uploadDir, name)
		if err := copyFile(fh, dst); err != nil {
			for _, p := range written {
				os.Remove(p)
			}
			return nil, err
		}
		written = append(written, dst)
		urls = append(urls, path.Join(s.urlPrefix, sub, name))
	}
	return urls, nil
}

// RemoveLocation deletes every stored image of a location.
func (s *ImageStore) RemoveLocation(locationID uint) error {
	return os.RemoveAll(filepath.Join(s.dir, strconv.FormatUint(uint64(locationID), 10)))
}

func copyFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
