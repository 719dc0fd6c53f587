package filestorage

import "mime/multipart"

// FileStorage defines the interface for file storage operations. Evidence
// photos are read fully into memory for analysis before being persisted, so
// SaveBytes is the primary entry point; SaveFile covers direct uploads such
// as student reference photos.
type FileStorage interface {
	// SaveBytes persists raw file content under a generated name and
	// returns the accessible path.
	SaveBytes(data []byte, ext string) (string, error)

	// SaveBytesWithPath persists raw content into a subdirectory.
	SaveBytesWithPath(data []byte, ext, subPath string) (string, error)

	// SaveFile saves an uploaded file and returns the accessible path.
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a file from storage.
	DeleteFile(filePath string) error

	// GetFullPath returns the full filesystem path for a stored file path.
	GetFullPath(fileURL string) string
}
