package assets

import (
	"context"

	"go.uber.org/zap"
)

// Store removes uploaded images that are no longer referenced. Uploading is
// handled by the client against the image host directly.
type Store interface {
	Remove(ctx context.Context, url string) error
}

// LogStore records removals without contacting an image host.
type LogStore struct {
	logger *zap.SugaredLogger
}

func NewLogStore(logger *zap.SugaredLogger) *LogStore {
	return &LogStore{logger: logger}
}

func (s *LogStore) Remove(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	s.logger.Infow("image released", "url", url)
	return nil
}

// Recorder keeps the URLs it was asked to remove. Useful in tests.
type Recorder struct {
	Removed []string
	Err     error
}

func (r *Recorder) Remove(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	r.Removed = append(r.Removed, url)
	return r.Err
}
