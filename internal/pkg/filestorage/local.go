package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// SaveBytesWithPath persists raw content into a subdirectory under a
// generated unique filename.
func (ls *LocalStorage) SaveBytesWithPath(data []byte, ext, subPath string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessiblePath := filepath.Join("uploads", subPath, uniqueFilename)

	logger.Info().Str("saved_as", uniqueFilename).Str("accessible_path", accessiblePath).Msg("File saved successfully")
	return accessiblePath, nil
}

// SaveBytes persists raw content under the storage root.
func (ls *LocalStorage) SaveBytes(data []byte, ext string) (string, error) {
	return ls.SaveBytesWithPath(data, ext, "")
}

// SaveFile saves an uploaded file under a generated unique filename.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return ls.SaveBytes(data, filepath.Ext(fileHeader.Filename))
}

// DeleteFile removes a file from the storage filesystem. Returns nil if the
// file does not exist.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	rel := ls.relPath(filePath)
	if rel == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	physicalPath := filepath.Join(ls.basePath, rel)

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the full filesystem path for a given stored path,
// keeping the subdirectory the file was saved under.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	rel := ls.relPath(fileURL)
	if rel == "" {
		return ""
	}
	return filepath.Join(ls.basePath, rel)
}

// relPath maps a stored accessible path ("uploads/<sub>/<file>") back to a
// path relative to the storage root. Paths escaping the root map to "".
func (ls *LocalStorage) relPath(fileURL string) string {
	rel := filepath.ToSlash(filepath.Clean(fileURL))
	rel = strings.TrimPrefix(rel, "/")
	rel = strings.TrimPrefix(rel, "uploads/")
	if rel == "" || rel == "." || rel == "uploads" || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.FromSlash(rel)
}
