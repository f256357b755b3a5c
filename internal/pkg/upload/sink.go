package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ruangtulis/ruangtulis/internal/pkg/env"
)

// Sink persists uploaded image bytes and returns the public URL they
// will be served from.
type Sink interface {
	Store(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// localSink writes uploads into a directory served as static files.
type localSink struct {
	dir        string
	publicBase string
}

// NewLocalSink returns a sink writing to dir, served under publicBase.
func NewLocalSink(dir, publicBase string) Sink {
	return &localSink{dir: dir, publicBase: publicBase}
}

func (s *localSink) Store(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	publicURL := s.publicBase + "/" + filename
	log.Infof("[Upload] File stored locally: %s", publicURL)
	return publicURL, nil
}

// Global sink instance, selected by UPLOAD_DRIVER at process start.
var (
	globalSink Sink
	sinkOnce   sync.Once
)

// GetSink returns the configured upload sink, building it on first use.
func GetSink() Sink {
	sinkOnce.Do(func() {
		switch env.GetEnv("UPLOAD_DRIVER", DriverLocal) {
		case DriverS3:
			cfg, err := LoadS3Config()
			if err != nil {
				panic(fmt.Sprintf("upload sink misconfigured: %v", err))
			}
			sink, err := NewS3Sink(cfg)
			if err != nil {
				panic(fmt.Sprintf("failed to initialize S3 upload sink: %v", err))
			}
			globalSink = sink
		default:
			globalSink = NewLocalSink(
				env.GetEnv("UPLOAD_DIR", "public/uploads/articles"),
				env.GetEnv("UPLOAD_PUBLIC_BASE", "/uploads/articles"),
			)
		}
	})
	return globalSink
}
