package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/platform/media"
	"github.com/epccam/directory-api/internal/redact"
)

// FileStore saves and removes uploaded images. *media.Storage implements it.
type FileStore interface {
	Save(ctx context.Context, r io.Reader, originalName string, avatar bool) (media.Stored, error)
	Remove(ctx context.Context, fileName string, avatar bool) error
}

// Upload is a file received from a client.
type Upload struct {
	// Field is the form field the file came in, used in error messages.
	Field string
	Name  string
	Body  io.Reader
	// BaseURL is the scheme and host the file will be served from.
	BaseURL string
}

// saveUpload stores u and returns the media row describing it, not yet
// persisted.
func saveUpload(ctx context.Context, files FileStore, u Upload, avatar bool) (domain.Media, error) {
	stored, err := files.Save(ctx, u.Body, u.Name, avatar)
	if errors.Is(err, media.ErrUnsupportedImage) {
		return domain.Media{}, domain.NewFieldError(u.Field, u.Field+" must be a png, jpeg, gif, bmp, tiff or webp image")
	}
	if err != nil {
		return domain.Media{}, domain.NewPersistenceError("store uploaded file", err)
	}
	return domain.Media{
		FileName: stored.FileName,
		PathName: media.URL(u.BaseURL, stored),
		Type:     domain.MediaImage,
	}, nil
}

// discardFile removes a file whose database row could not be written or was
// deleted. Failures are logged only.
func discardFile(ctx context.Context, log *slog.Logger, files FileStore, name string, avatar bool) {
	if err := files.Remove(ctx, name, avatar); err != nil {
		log.Warn("failed to remove media file",
			slog.String("file_name", name),
			slog.String("error", redact.Error(err)))
	}
}
