package core

import (
	"path/filepath"
	"strings"

	"personachat/internal/store"
)

// FileData is a transient attachment: its content is consumed once by
// the prompt composer and never persisted.
type FileData struct {
	Filename string
	MimeType string
	Size     int64
	Content  []byte
}

func (f *FileData) IsImage() bool {
	return f != nil && strings.HasPrefix(f.MimeType, "image/")
}

// Meta returns the attachment metadata that is stored on the message.
func (f *FileData) Meta() []store.Attachment {
	if f == nil {
		return nil
	}
	return []store.Attachment{{
		Filename: f.Filename,
		MimeType: f.MimeType,
		Size:     f.Size,
	}}
}

var allowedMimeTypes = map[string]bool{
	"text/plain":         true,
	"text/csv":           true,
	"application/pdf":    true,
	"application/json":   true,
	"text/html":          true,
	"text/css":           true,
	"text/javascript":    true,
	"application/javascript": true,
	"text/markdown":      true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

var allowedExtensions = map[string]bool{
	".txt": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".java": true, ".cpp": true, ".c": true, ".h": true,
	".css": true, ".html": true, ".json": true, ".md": true, ".pdf": true,
	".doc": true, ".docx": true, ".csv": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

// AllowedFileType accepts text-based files, documents and images, by
// declared mime type or by filename extension.
func AllowedFileType(filename, mimeType string) bool {
	if allowedMimeTypes[mimeType] {
		return true
	}
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}
