package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/clicksapp/clicks/internal/pkg/logger"
)

// LocalStorage stores files on the local filesystem.
type LocalStorage struct {
	basePath string // root directory for stored files
	baseURL  string // URL prefix under which the root is served
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// Files become reachable under baseURL with the same relative layout.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFile stores an uploaded file under subPath with a generated name.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("no file provided")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dirPath := ls.basePath
	if subPath != "" {
		if strings.Contains(subPath, "..") {
			return nil, fmt.Errorf("invalid storage sub path: %s", subPath)
		}
		dirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	// Name the object with a fresh uuid to prevent collisions; only the
	// original extension is carried over.
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := uuid.New().String() + ext

	dstPath := filepath.Join(dirPath, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	relPath := name
	if subPath != "" {
		relPath = path.Join(subPath, name)
	}

	stored := &StoredFile{
		Path: relPath,
		URL:  ls.baseURL + "/" + relPath,
	}

	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("saved_as", stored.Path).
		Msg("File saved")
	return stored, nil
}

// DeleteFile removes a file by its storage-relative path. Missing files are
// treated as already deleted.
func (ls *LocalStorage) DeleteFile(relPath string) error {
	if relPath == "" {
		return nil
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("invalid file path: %s", relPath)
	}

	physicalPath := filepath.Join(ls.basePath, cleaned)

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// BaseURL returns the URL prefix under which stored files are served
func (ls *LocalStorage) BaseURL() string {
	return ls.baseURL
}
