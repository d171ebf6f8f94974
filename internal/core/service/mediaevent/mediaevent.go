package mediaevent

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"log/slog"
)

type mediaEventService struct {
	hls            port.HLSService
	uow            port.UnitOfWork
	ladder         []domain.Quality
	segmentSeconds float64
	logger         *slog.Logger
}

// NewMediaEventService creates the handler turning upload completed events into HLS renditions
func NewMediaEventService(hls port.HLSService, uow port.UnitOfWork, ladder []domain.Quality, segmentSeconds float64, logger *slog.Logger) port.MessageService {
	return &mediaEventService{
		hls:            hls,
		uow:            uow,
		ladder:         ladder,
		segmentSeconds: segmentSeconds,
		logger:         logger,
	}
}
