// Package media uploads images and documents to object storage and hands
// out presigned upload urls.
package media

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/frahmantamala/training-management/internal"
)

type Kind string

const (
	KindImage    Kind = "images"
	KindDocument Kind = "documents"
)

var allowedTypes = map[Kind][]string{
	KindImage: {"image/jpeg", "image/png", "image/gif", "image/webp"},
	KindDocument: {
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"text/plain",
		"text/csv",
	},
}

var (
	ErrUnsupportedType = internal.NewValidationFieldError("file", "File type is not allowed", internal.ErrCodeUnsupportedMedia)
	ErrFileTooLarge    = internal.NewValidationFieldError("file", "File exceeds the size limit", internal.ErrCodeFileTooLarge)
	ErrStorage         = &internal.AppError{
		Type:       internal.ErrorTypeExternal,
		Code:       internal.ErrCodeStorageFailed,
		Message:    "Object storage is unavailable",
		StatusCode: http.StatusBadGateway,
	}
)

// Storage is the object store the service writes to.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	URL(key string) string
}

// Limits bounds a kind of upload.
type Limits struct {
	MaxSize       int64
	PresignExpiry time.Duration
}

type UploadResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type PresignResponse struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ContentTypeOf returns declared without parameters, or a guess from the
// file extension when declared is empty or generic.
func ContentTypeOf(declared, fileName string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}
	return "application/octet-stream"
}

func allowed(kind Kind, contentType string) bool {
	for _, t := range allowedTypes[kind] {
		if t == contentType {
			return true
		}
	}
	return false
}
