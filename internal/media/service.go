package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	Upload(ctx context.Context, actor auth.Subject, kind Kind, fileName, contentType string, size int64, body io.Reader) (*UploadResponse, error)
	Presign(ctx context.Context, actor auth.Subject, kind Kind, dto PresignDTO) (*PresignResponse, error)
	MaxSize(kind Kind) int64
}

type Service struct {
	storage Storage
	limits  map[Kind]Limits
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(storage Storage, images, documents Limits, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		limits:  map[Kind]Limits{KindImage: images, KindDocument: documents},
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) MaxSize(kind Kind) int64 {
	return s.limits[kind].MaxSize
}

func (s *Service) Upload(ctx context.Context, actor auth.Subject, kind Kind, fileName, contentType string, size int64, body io.Reader) (*UploadResponse, error) {
	contentType = ContentTypeOf(contentType, fileName)
	if err := s.check(kind, contentType, size); err != nil {
		return nil, err
	}

	key := s.objectKey(kind, actor.UserID, fileName)
	if err := s.storage.Put(ctx, key, body, size, contentType); err != nil {
		s.logger.Error("failed to store object", "key", key, "error", err)
		return nil, ErrStorage.WithCause(err)
	}

	s.logger.Info("object uploaded", "key", key, "size", size, "user_id", actor.UserID)
	return &UploadResponse{Key: key, URL: s.storage.URL(key), ContentType: contentType, Size: size}, nil
}

func (s *Service) Presign(ctx context.Context, actor auth.Subject, kind Kind, dto PresignDTO) (*PresignResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	contentType := ContentTypeOf(dto.ContentType, dto.FileName)
	if err := s.check(kind, contentType, dto.Size); err != nil {
		return nil, err
	}

	expiry := s.limits[kind].PresignExpiry
	key := s.objectKey(kind, actor.UserID, dto.FileName)
	uploadURL, err := s.storage.PresignPut(ctx, key, contentType, expiry)
	if err != nil {
		s.logger.Error("failed to presign object", "key", key, "error", err)
		return nil, ErrStorage.WithCause(err)
	}

	return &PresignResponse{
		UploadURL: uploadURL,
		Key:       key,
		URL:       s.storage.URL(key),
		ExpiresAt: s.now().Add(expiry).UTC(),
	}, nil
}

func (s *Service) check(kind Kind, contentType string, size int64) error {
	if !allowed(kind, contentType) {
		return ErrUnsupportedType
	}
	if max := s.limits[kind].MaxSize; max > 0 && size > max {
		msg := fmt.Sprintf("File exceeds the %d byte limit", max)
		return internal.NewValidationFieldError("file", msg, internal.ErrCodeFileTooLarge)
	}
	return nil
}

// objectKey is kind/user/uuid.ext, so client file names never reach the bucket.
func (s *Service) objectKey(kind Kind, userID int64, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%d/%s%s", kind, userID, uuid.NewString(), ext)
}
