package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for profile photo storage
type FileStorage interface {
	// SaveFile saves an uploaded file and returns its accessible path
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath saves an uploaded file under a subdirectory
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// DeleteFile removes a previously stored file
	DeleteFile(filePath string) error

	// GetFullPath returns the filesystem path for a stored file URL
	GetFullPath(fileURL string) string
}
