package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/pkg/storage"
)

// LinkConfig selects buckets, lifetime and per-call timeout for signed links.
type LinkConfig struct {
	ImagesBucket    string
	DocumentsBucket string
	TTL             time.Duration
	Timeout         time.Duration
}

// LinkService issues best-effort signed links. It never returns an error:
// any backend failure is logged, counted and reported as nil.
type LinkService struct {
	backend storage.Backend
	cfg     LinkConfig
	metrics *MetricsService
	logger  *zap.Logger
}

// NewLinkService constructs a LinkService.
func NewLinkService(backend storage.Backend, cfg LinkConfig, metrics *MetricsService, logger *zap.Logger) *LinkService {
	if cfg.ImagesBucket == "" {
		cfg.ImagesBucket = "images"
	}
	if cfg.DocumentsBucket == "" {
		cfg.DocumentsBucket = "pdfs"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkService{backend: backend, cfg: cfg, metrics: metrics, logger: logger}
}

// Sign returns a time-limited URL for path, or nil when path is empty or signing fails.
func (s *LinkService) Sign(ctx context.Context, path string, purpose storage.Purpose) *string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	var (
		bucket   string
		download bool
	)
	switch purpose {
	case storage.PurposeImage:
		bucket = s.cfg.ImagesBucket
	case storage.PurposeDocument:
		bucket, download = s.cfg.DocumentsBucket, true
	default:
		s.logger.Warn("unknown link purpose", zap.String("purpose", string(purpose)), zap.String("path", path))
		return nil
	}

	signCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	link, err := s.backend.CreateSignedURL(signCtx, bucket, path, s.cfg.TTL, download)
	s.metrics.ObserveLinkSigning(string(purpose), err == nil && link != "", time.Since(start))
	if err != nil {
		s.logger.Warn("failed to sign storage link",
			zap.String("bucket", bucket),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil
	}
	if link == "" {
		s.logger.Warn("storage returned an empty link", zap.String("bucket", bucket), zap.String("path", path))
		return nil
	}
	return &link
}
