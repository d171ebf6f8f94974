package upload_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"beat-ingest/internal/adapters/eventbroker"
	"beat-ingest/internal/adapters/repository"
	"beat-ingest/internal/adapters/sessionstore/memory"
	"beat-ingest/internal/adapters/storage"
	"beat-ingest/internal/config"
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"beat-ingest/internal/core/service/upload"

	"github.com/docker/go-units"
	"github.com/stretchr/testify/require"
)

var defaultCfg = config.DefaultUploadConfig()

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	store     *memory.SessionStore
	storage   *storage.MockStorage
	uow       *repository.MockUnitOfWork
	publisher *eventbroker.MockPublisher
	service   port.UploadService
}

func newFixture() *fixture {
	f := &fixture{
		store:     memory.NewSessionStore(),
		storage:   storage.NewMockStorage(),
		uow:       repository.NewMockUnitOfWork(),
		publisher: eventbroker.NewMockPublisher(),
	}
	f.service = upload.NewUploadService(f.store, f.storage, f.uow, f.publisher, defaultCfg, discardLogger)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.storage.AssertExpectations(t)
	f.uow.GetMediaAssetRepoMock().AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

// trackRequest is a 25 MiB beat upload by owner 42
func trackRequest() port.InitUploadRequest {
	return port.InitUploadRequest{
		OwnerID:          "42",
		FileName:         "track.wav",
		DeclaredFileSize: 25 * units.MiB,
		ContentType:      "audio/wav",
		Category:         domain.CategoryAudio,
		ParentEntityID:   "beat-1",
	}
}

func initSession(t *testing.T, f *fixture, req port.InitUploadRequest) *domain.UploadSession {
	t.Helper()
	session, err := f.service.Initialize(context.Background(), req)
	require.NoError(t, err)
	return session
}

func markAll(t *testing.T, f *fixture, session *domain.UploadSession) {
	t.Helper()
	for i := 0; i < session.TotalChunks; i++ {
		require.NoError(t, f.service.MarkUploaded(context.Background(), session.ID, i))
	}
}
