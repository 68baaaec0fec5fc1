package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sangkips/receipt-studio/internal/config"
	"github.com/sangkips/receipt-studio/internal/domain/entity"
	"github.com/sangkips/receipt-studio/internal/domain/enum"
	"github.com/sangkips/receipt-studio/pkg/apperror"
	"github.com/sangkips/receipt-studio/pkg/render"
	"github.com/sangkips/receipt-studio/pkg/utils"
	"go.uber.org/zap"
)

const downloadSucceeded = "Receipt downloaded successfully"

// ExportStatus receives the outcome of a download, once, after it finishes.
type ExportStatus func(ok bool, message string)

// Rasterizer draws a receipt view into an image.
type Rasterizer interface {
	Render(v render.View, scale int) (image.Image, error)
}

// ExportResult is a finished download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Entry       entity.HistoryEntry
	// Warning is set when the history entry could not be persisted.
	Warning string
}

type ExportService struct {
	history *HistoryStore
	raster  Rasterizer
	cfg     config.ExportConfig
	now     func() time.Time
	log     *zap.SugaredLogger
}

func NewExportService(history *HistoryStore, raster Rasterizer, cfg config.ExportConfig, log *zap.SugaredLogger) (*ExportService, error) {
	if history == nil {
		return nil, errors.New("export: history store is required")
	}
	if raster == nil {
		return nil, errors.New("export: rasterizer is required")
	}
	if cfg.Scale < 1 {
		return nil, fmt.Errorf("export: scale must be at least 1, got %d", cfg.Scale)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ExportService{
		history: history,
		raster:  raster,
		cfg:     cfg,
		now:     time.Now,
		log:     log,
	}, nil
}

// Download saves the session's draft to history, then renders and encodes
// it. One export runs per session at a time. status, when set, is told the
// outcome; format and concurrency rejections happen before any work and do
// not report through it.
func (s *ExportService) Download(ctx context.Context, sess *Session, format string, status ExportStatus) (*ExportResult, error) {
	f, err := enum.ParseExportFormat(format)
	if err != nil {
		return nil, apperror.ErrUnsupportedFormat
	}
	if !sess.BeginExport() {
		return nil, apperror.ErrExportInProgress
	}
	defer sess.EndExport()

	result, err := s.download(ctx, sess, f)
	if err != nil {
		s.log.Errorw("export failed", "session", sess.ID.String(), "format", f.String(), "error", err)
		if status != nil {
			status(false, "Download failed: "+err.Error())
		}
		return nil, err
	}

	if status != nil {
		status(true, downloadSucceeded)
	}
	return result, nil
}

func (s *ExportService) download(ctx context.Context, sess *Session, f enum.ExportFormat) (*ExportResult, error) {
	snapshot := sess.Model.Snapshot()

	result := &ExportResult{ContentType: f.ContentType()}
	entry, err := s.history.Save(ctx, snapshot)
	if err != nil {
		if !errors.Is(err, apperror.ErrHistoryNotPersisted) {
			return nil, err
		}
		result.Warning = err.Error()
	}
	result.Entry = entry

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := s.raster.Render(BuildView(snapshot, sess.Model.catalog), s.cfg.Scale)
	if err != nil {
		return nil, err
	}

	switch f {
	case enum.ExportFormatJPG:
		result.Data, err = render.EncodeJPEG(img, s.cfg.JPEGQuality)
	case enum.ExportFormatPDF:
		result.Data, err = render.EncodePDF(img, s.cfg.Scale, s.cfg.PDFJPEGQuality)
	default:
		result.Data, err = render.EncodePNG(img)
	}
	if err != nil {
		return nil, err
	}

	result.Filename = utils.ExportFilename(s.now(), f.Extension())
	return result, nil
}
