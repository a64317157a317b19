package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLocalStorage(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "blobs")

	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)
	require.NotNil(t, storage)
	require.Equal(t, tempDir, storage.BasePath())

	// Sprawdź, czy katalog bazowy został utworzony
	_, err = os.Stat(tempDir)
	require.NoError(t, err, "Base directory should be created")
}

func TestLocalStorage_SaveNew(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	content := []byte("Hello, world!")
	path, err := storage.SaveNew(content)
	require.NoError(t, err)

	// Ścieżka ma losowy 21-znakowy sufiks pod katalogiem bazowym
	require.Equal(t, tempDir, filepath.Dir(path))
	require.Len(t, filepath.Base(path), 21)

	fileInfo, err := os.Stat(path)
	require.NoError(t, err, "File should exist after save")
	require.Equal(t, int64(len(content)), fileInfo.Size())

	// Dwa zapisy tej samej zawartości dostają różne ścieżki
	path2, err := storage.SaveNew(content)
	require.NoError(t, err)
	require.NotEqual(t, path, path2)
}

func TestLocalStorage_Open(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	content := "original bytes"
	path, err := storage.SaveNew([]byte(content))
	require.NoError(t, err)

	readCloser, err := storage.Open(path, "")
	require.NoError(t, err)
	retrieved, err := io.ReadAll(readCloser)
	require.NoError(t, err)
	readCloser.Close()
	require.Equal(t, content, string(retrieved))
}

func TestLocalStorage_OpenSizeVariant(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	path, err := storage.SaveNew([]byte("full resolution"))
	require.NoError(t, err)

	// Worker zapisuje warianty obok oryginału jako <ścieżka>_<rozmiar>
	err = os.WriteFile(path+"_250", []byte("thumb 250"), 0o644)
	require.NoError(t, err)

	readCloser, err := storage.Open(path, "250")
	require.NoError(t, err)
	retrieved, err := io.ReadAll(readCloser)
	require.NoError(t, err)
	readCloser.Close()
	require.Equal(t, "thumb 250", string(retrieved))
}

func TestLocalStorage_MissingVariantNoFallback(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	path, err := storage.SaveNew([]byte("full resolution"))
	require.NoError(t, err)

	// Brak wariantu nie może po cichu zwrócić oryginału
	_, err = storage.Open(path, "500")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "not found"))
}

func TestLocalStorage_OpenNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	_, err = storage.Open(filepath.Join(tempDir, "no_such_blob"), "")
	require.Error(t, err)
}
