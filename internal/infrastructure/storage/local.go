package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"fxvault.backend/internal/config"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/pkg/logger"
	"fxvault.backend/pkg/utils"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

var allowedTypes = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

var storedName = regexp.MustCompile(`^[0-9a-f-]{36}\.(png|jpg|webp|pdf)$`)

// StoredFile describes a saved upload.
type StoredFile struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// LocalStorage keeps uploads on the local filesystem under generated names.
type LocalStorage struct {
	dir          string
	publicPrefix string
	maxBytes     int64
}

// NewLocalStorage creates the upload directory when missing.
func NewLocalStorage(cfg config.StorageConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &LocalStorage{
		dir:          cfg.UploadDir,
		publicPrefix: strings.TrimRight(cfg.PublicPrefix, "/"),
		maxBytes:     maxBytes,
	}, nil
}

// MaxBytes is the largest accepted upload.
func (s *LocalStorage) MaxBytes() int64 {
	return s.maxBytes
}

// Save sniffs the content, rejects anything but png, jpeg, webp and pdf, and writes it to disk.
func (s *LocalStorage) Save(ctx context.Context, r io.Reader) (*StoredFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, domainerrors.NewError("file is empty", domainerrors.ErrInvalidInput)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domainerrors.NewError(fmt.Sprintf("file exceeds %d bytes", s.maxBytes), domainerrors.ErrInvalidInput)
	}

	mtype := mimetype.Detect(data)
	ext, ok := allowedTypes[baseType(mtype.String())]
	if !ok {
		return nil, domainerrors.NewError("unsupported file type "+mtype.String(), domainerrors.ErrInvalidInput)
	}

	name := utils.GenerateUUIDv7().String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o640); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	logger.Debug(ctx, "Upload stored", zap.String("name", name), zap.Int("size", len(data)))

	return &StoredFile{
		Name:        name,
		URL:         s.publicPrefix + "/" + name,
		ContentType: baseType(mtype.String()),
		Size:        int64(len(data)),
	}, nil
}

// Open returns a reader for a stored upload; unknown or malformed names are ErrNotFound.
func (s *LocalStorage) Open(name string) (io.ReadSeekCloser, string, error) {
	if !storedName.MatchString(name) {
		return nil, "", domainerrors.ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", domainerrors.ErrNotFound
		}
		return nil, "", err
	}
	head := make([]byte, 512)
	n, _ := f.Read(head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, "", err
	}
	return f, baseType(mimetype.Detect(head[:n]).String()), nil
}

func baseType(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		return strings.TrimSpace(mime[:i])
	}
	return mime
}
