// Package uploads stores binary attachments such as scanned invoices.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoFile is returned when no attachment body is provided.
var ErrNoFile = errors.New("no file provided")

// ErrEmptyName is returned when the attachment has no usable name.
var ErrEmptyName = errors.New("empty file name")

var unsafeChars = regexp.MustCompile(`(?i)[^a-z0-9.\-]+`)

// Upload describes a stored attachment.
type Upload struct {
	OK   bool   `json:"ok"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Service stores attachments through a Store.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Store saves the attachment body under a unique, sanitized name.
func (s *Service) Store(ctx context.Context, name string, body io.Reader) (*Upload, error) {
	if body == nil {
		return nil, ErrNoFile
	}
	clean := Sanitize(name)
	if strings.Trim(clean, "_.") == "" {
		return nil, ErrEmptyName
	}

	stored := fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), uuid.NewString()[:8], clean)
	url, err := s.store.Put(ctx, stored, body)
	if err != nil {
		s.logger.Error("upload failed", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.Info("upload stored", zap.String("name", name), zap.String("url", url))
	return &Upload{OK: true, URL: url, Name: name}, nil
}

// Sanitize replaces every run of characters other than letters, digits,
// dots and dashes with a single underscore.
func Sanitize(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}
