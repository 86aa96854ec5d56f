package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"bmgrades.app/tracker/common/llm"
	"bmgrades.app/tracker/common/logger"
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/extraction"
)

var (
	// ErrScanUnavailable is returned when no vision model is configured.
	ErrScanUnavailable = errors.New("scanning is not configured")
	ErrImageTooLarge   = errors.New("image too large")
	ErrInvalidScan     = errors.New("invalid scan request")
)

// dataURLOverhead bounds the "data:<type>;base64," prefix when sizing an
// encoded image.
const dataURLOverhead = 256

type ScanRequest struct {
	// Image is a base64 data URL.
	Image    string
	ScanType string
}

type ScanService interface {
	Scan(ctx context.Context, userID int64, req ScanRequest) (*Mutation, *extraction.Result, error)
}

type scanService struct {
	extractor     extraction.Extractor
	gradebook     GradebookService
	catalog       *curriculum.Catalog
	maxImageBytes int
}

// NewScanService builds a ScanService. extractor may be nil, in which case
// every scan fails with ErrScanUnavailable.
func NewScanService(extractor extraction.Extractor, gradebook GradebookService, catalog *curriculum.Catalog, maxImageBytes int) ScanService {
	return &scanService{
		extractor:     extractor,
		gradebook:     gradebook,
		catalog:       catalog,
		maxImageBytes: maxImageBytes,
	}
}

// Scan extracts grades from the image and merges them into the user's
// gradebook. The model call runs without holding the user's lock; the merge
// reloads the gradebook so concurrent changes are kept.
func (s *scanService) Scan(ctx context.Context, userID int64, req ScanRequest) (*Mutation, *extraction.Result, error) {
	if s.extractor == nil {
		return nil, nil, ErrScanUnavailable
	}

	mode, err := extraction.ParseMode(req.ScanType)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidScan, err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:    &userID,
		ScanMode:  logger.Ptr(string(mode)),
		Component: "tracker.scan",
	})

	if len(req.Image) > base64.StdEncoding.EncodedLen(s.maxImageBytes)+dataURLOverhead {
		return nil, nil, ErrImageTooLarge
	}
	img, err := llm.ParseDataURL(req.Image)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidScan, err)
	}
	if len(img.Data) > s.maxImageBytes {
		return nil, nil, ErrImageTooLarge
	}

	state, err := s.gradebook.State(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	cur, err := s.catalog.Get(state.BMType)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.extractor.Extract(ctx, mode, img, cur.Names())
	if err != nil {
		slog.WarnContext(ctx, "scan extraction failed", "error", err)
		return nil, nil, err
	}

	var m *Mutation
	switch mode {
	case extraction.ModeSAL:
		m, err = s.gradebook.ApplySAL(ctx, userID, res)
	default:
		m, err = s.gradebook.ApplyBulletin(ctx, userID, res)
	}
	if err != nil {
		return nil, nil, err
	}
	return m, res, nil
}
