package filestorage

import (
	"mime/multipart"
)

// StoredFile describes a stored binary object
type StoredFile struct {
	Path string // path relative to the storage root, e.g. "42/9f1c...e2.jpg"
	URL  string // publicly accessible URL for the object
}

// FileStorage defines the interface for binary object storage
type FileStorage interface {
	// SaveFile stores a file under a subdirectory and returns where it
	// landed. The stored name is freshly generated; the original
	// filename only contributes its extension.
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error)

	// DeleteFile removes a file by its storage-relative path. Deleting a
	// missing file is not an error.
	DeleteFile(path string) error

	// BaseURL returns the URL prefix under which stored files are served
	BaseURL() string
}
