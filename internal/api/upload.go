package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/platform/logger"
	"github.com/epccam/directory-api/internal/service/directory"
)

// uploads reads multipart image uploads bounded by maxBytes.
type uploads struct {
	maxBytes int64
}

// read extracts the file sent in field. The returned release func must be
// called once the upload has been consumed.
func (u uploads) read(w http.ResponseWriter, r *http.Request, field string) (directory.Upload, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes)
	if err := r.ParseMultipartForm(u.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleAPIError(w, r, domain.NewFieldError(field,
				fmt.Sprintf("%s must not exceed %d MB", field, u.maxBytes>>20)))
		} else {
			HandleAPIError(w, r, domain.NewFieldError(field, field+" must be sent as multipart/form-data"))
		}
		return directory.Upload{}, nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		HandleAPIError(w, r, domain.NewFieldError(field, field+" is required"))
		return directory.Upload{}, nil, false
	}
	release := func() {
		if err := file.Close(); err != nil {
			logger.FromContext(r.Context()).Warn("failed to close upload", slog.String("error", err.Error()))
		}
		_ = r.MultipartForm.RemoveAll()
	}
	return directory.Upload{
		Field:   field,
		Name:    header.Filename,
		Body:    file,
		BaseURL: baseURL(r),
	}, release, true
}

// baseURL is the scheme and host the request was addressed to, with a
// trailing slash.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host + "/"
}
