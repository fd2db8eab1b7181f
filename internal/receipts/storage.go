package receipts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// URLPrefix is where the web server exposes stored receipts.
const URLPrefix = "/receipts/"

var ErrEmptyFile = errors.New("receipt file is empty")

// Storage keeps receipt images on local disk under dir.
type Storage struct {
	dir string
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts dir: %w", err)
	}

	return &Storage{dir: dir}, nil
}

func (s *Storage) Dir() string {
	return s.dir
}

// Save writes data as <key><ext> and returns the public URL of the file.
func (s *Storage) Save(ctx context.Context, key, fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := objectName(key, fileName)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp receipt: %w", err)
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write receipt: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close receipt: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("store receipt: %w", err)
	}

	return URLPrefix + name, nil
}

func objectName(key, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return path.Base(key) + ext
}
