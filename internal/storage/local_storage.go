package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jaevor/go-nanoid"
)

type LocalStorage struct {
	basePath  string
	newSuffix func() string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	newSuffix, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return &LocalStorage{basePath: basePath, newSuffix: newSuffix}, nil
}

// SaveNew writes a blob under a fresh random name and returns its path.
// The name never derives from user input.
func (ls *LocalStorage) SaveNew(data []byte) (string, error) {
	path := filepath.Join(ls.basePath, ls.newSuffix())

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return "", err
	}

	return path, nil
}

// Open returns the stored blob, or its pre-generated size variant when a
// selector is given. An absent variant is a miss, never a fallback to the
// original.
func (ls *LocalStorage) Open(path, size string) (io.ReadCloser, error) {
	if size != "" {
		path = path + "_" + size
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob at %s not found: %w", path, err)
		}
		return nil, err
	}

	return file, nil
}

func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}
