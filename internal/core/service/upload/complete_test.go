package upload_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/objectkey"
	"beat-ingest/internal/core/port"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func payload(size int64) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// expectChunkReads serves the chunks of session cut from data
func expectChunkReads(f *fixture, session *domain.UploadSession, data []byte) {
	for i, key := range objectkey.ChunkKeys(*session) {
		start := int64(i) * session.ChunkSize
		end := start + session.ChunkLength(i)
		f.storage.
			On("GetObject", mock.Anything, key).
			Return(io.NopCloser(bytes.NewReader(data[start:end])), nil).
			Once()
	}
}

// expectPut captures the declared number of bytes streamed to the staging object, as the store reads them
func expectPut(f *fixture, session *domain.UploadSession, written *[]byte) {
	f.storage.
		On("PutObject", mock.Anything, mock.MatchedBy(isStaging(session)), mock.Anything, session.DeclaredFileSize, session.ContentType).
		Run(func(args mock.Arguments) {
			buf := make([]byte, args.Get(3).(int64))
			n, _ := io.ReadFull(args.Get(2).(io.Reader), buf)
			*written = buf[:n]
		}).
		Return(nil).
		Once()
}

func expectNoAsset(f *fixture, sessionID string) {
	f.uow.GetMediaAssetRepoMock().
		On("FindBySessionID", mock.Anything, sessionID).
		Return((*domain.MediaAsset)(nil), domain.ErrMediaAssetNotFound)
}

// isStaging matches the per-attempt assembly keys of session
func isStaging(session *domain.UploadSession) func(string) bool {
	prefix := "temp/assembling/" + session.OwnerID + "/" + session.ID + "/"
	return func(key string) bool {
		return strings.HasPrefix(key, prefix) && len(key) > len(prefix)
	}
}

// expectPromote accepts the copy of the staging object onto the final key and the staging cleanup
func expectPromote(f *fixture, session *domain.UploadSession, copiedTo *string) {
	f.storage.
		On("CopyObject", mock.Anything, mock.MatchedBy(isStaging(session)), mock.Anything).
		Run(func(args mock.Arguments) { *copiedTo = args.String(2) }).
		Return(nil).
		Once()
	f.storage.On("DeleteObject", mock.Anything, mock.MatchedBy(isStaging(session))).Return(nil).Once()
}

func TestUploadService_Complete_EndToEnd(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)
	require.True(t, f.service.IsComplete(ctx, session.ID))

	data := payload(25 * units.MiB)
	var written []byte
	var copiedTo string
	var recorded domain.MediaAsset

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil).Once()
	expectChunkReads(f, session, data)
	expectPut(f, session, &written)
	expectPromote(f, session, &copiedTo)
	f.uow.GetMediaAssetRepoMock().
		On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(domain.MediaAsset) }).
		Return(nil)
	for _, key := range objectkey.ChunkKeys(*session) {
		f.storage.On("DeleteObject", mock.Anything, key).Return(nil).Once()
	}
	f.publisher.
		On("PublishUploadCompleted", ctx, mock.MatchedBy(func(e domain.UploadCompletedEvent) bool {
			return e.Type == domain.EventTypeUploadCompleted && e.OwnerID == "42" && e.ParentEntityID == "beat-1"
		})).
		Return(nil)
	f.storage.
		On("PresignGet", ctx, mock.Anything, time.Hour).
		Return(&port.PresignedURL{URL: "https://minio.example.com/bucket/final"}, nil)

	// Act
	completed, err := f.service.Complete(ctx, session.ID, "42", strings.ToUpper(sha256Hex(data)))

	// Assert
	require.NoError(t, err)
	assert.Regexp(t, `^audio/beats/42/beat-1/\d+-[0-9a-f]{16}\.wav$`, completed.FinalKey)
	assert.Equal(t, "https://minio.example.com/bucket/final", completed.DownloadURL)
	assert.True(t, bytes.Equal(data, written), "final object must be the ordered concatenation of chunks")
	assert.Equal(t, completed.FinalKey, copiedTo)

	assert.Equal(t, completed.AssetID, recorded.ID.String())
	assert.Equal(t, completed.FinalKey, recorded.StorageKey)
	assert.Equal(t, sha256Hex(data), recorded.Checksum)
	assert.Equal(t, int64(25*units.MiB), recorded.SizeBytes)

	_, err = f.service.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	f.assertExpectations(t)
}

func TestUploadService_Complete_RetryAfterSuccessIsIdempotent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	asset := &domain.MediaAsset{
		ID:         uuid.New(),
		SessionID:  "done",
		OwnerID:    "42",
		StorageKey: "audio/beats/42/beat-1/1700000000000-abcdef0123456789.wav",
		SizeBytes:  1024,
	}

	f.uow.GetMediaAssetRepoMock().On("FindBySessionID", ctx, "done").Return(asset, nil)
	f.storage.On("StatObject", ctx, asset.StorageKey).Return(&port.ObjectInfo{Key: asset.StorageKey, Size: 1024}, nil)
	f.storage.
		On("PresignGet", ctx, asset.StorageKey, time.Hour).
		Return(&port.PresignedURL{URL: "https://minio.example.com/bucket/again"}, nil)

	// Act
	completed, err := f.service.Complete(ctx, "done", "42", "whatever")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, asset.StorageKey, completed.FinalKey)
	assert.Equal(t, asset.ID.String(), completed.AssetID)
	assert.Equal(t, "https://minio.example.com/bucket/again", completed.DownloadURL)
	f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishUploadCompleted", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUploadService_Complete_RetryAfterSuccess_ChecksOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	asset := &domain.MediaAsset{ID: uuid.New(), SessionID: "done", OwnerID: "42"}
	f.uow.GetMediaAssetRepoMock().On("FindBySessionID", ctx, "done").Return(asset, nil)

	_, err := f.service.Complete(ctx, "done", "7", "whatever")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUploadService_Complete_ResumesAfterCrashBeforeRecording(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)

	finalKey := "audio/beats/42/beat-1/1700000000000-abcdef0123456789.wav"
	stored, err := f.store.Get(ctx, session.ID)
	require.NoError(t, err)
	stored.FinalKey = finalKey
	require.NoError(t, f.store.Save(ctx, *stored))

	data := payload(25 * units.MiB)

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, finalKey).Return(&port.ObjectInfo{Key: finalKey, Size: int64(len(data))}, nil)
	f.storage.On("GetObject", ctx, finalKey).Return(io.NopCloser(bytes.NewReader(data)), nil)
	f.uow.GetMediaAssetRepoMock().On("Create", ctx, mock.Anything).Return(nil)
	f.storage.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishUploadCompleted", ctx, mock.Anything).Return(nil)
	f.storage.On("PresignGet", ctx, finalKey, time.Hour).Return(&port.PresignedURL{URL: "https://minio.example.com/f"}, nil)

	// Act
	completed, err := f.service.Complete(ctx, session.ID, "42", sha256Hex(data))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, finalKey, completed.FinalKey)
	f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.storage.AssertNumberOfCalls(t, "DeleteObject", 3)
	f.assertExpectations(t)
}

func TestUploadService_Complete_ChecksumMismatch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)

	data := payload(25 * units.MiB)
	var written []byte

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil)
	expectChunkReads(f, session, data)
	expectPut(f, session, &written)
	f.storage.On("DeleteObject", ctx, mock.MatchedBy(isStaging(session))).Return(nil).Once()

	// Act
	completed, err := f.service.Complete(ctx, session.ID, "42", sha256Hex([]byte("something else")))

	// Assert
	assert.ErrorIs(t, err, domain.ErrChecksumMismatch)
	assert.Nil(t, completed)

	stored, err := f.service.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.FinalKey)
	f.uow.GetMediaAssetRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishUploadCompleted", mock.Anything, mock.Anything)
	f.storage.AssertNotCalled(t, "CopyObject", mock.Anything, mock.Anything, mock.Anything)
	f.storage.AssertNotCalled(t, "DeleteObject", mock.Anything, stored.FinalKey)
	f.storage.AssertExpectations(t)
}

func TestUploadService_Complete_EmptyChecksumIsMismatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)
	var written []byte

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil)
	expectChunkReads(f, session, payload(25*units.MiB))
	expectPut(f, session, &written)
	f.storage.On("DeleteObject", ctx, mock.Anything).Return(nil)

	_, err := f.service.Complete(ctx, session.ID, "42", "")

	assert.ErrorIs(t, err, domain.ErrChecksumMismatch)
}

func TestUploadService_Complete_ShortChunk(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)
	keys := objectkey.ChunkKeys(*session)
	var written []byte

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil)
	f.storage.On("GetObject", mock.Anything, keys[0]).Return(io.NopCloser(bytes.NewReader(payload(10*units.MiB))), nil)
	f.storage.On("GetObject", mock.Anything, keys[1]).Return(io.NopCloser(bytes.NewReader(payload(3*units.MiB))), nil)
	expectPut(f, session, &written)
	f.storage.On("DeleteObject", ctx, mock.Anything).Return(nil)

	// Act
	_, err := f.service.Complete(ctx, session.ID, "42", "abc")

	// Assert
	assert.ErrorIs(t, err, domain.ErrUploadIncomplete)
	assert.Contains(t, err.Error(), "chunk 1")
	f.storage.AssertNotCalled(t, "GetObject", mock.Anything, keys[2])
}

func TestUploadService_Complete_StorageFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil)
	f.storage.On("GetObject", mock.Anything, mock.Anything).Return(io.NopCloser(bytes.NewReader(payload(10*units.MiB))), nil).Maybe()
	f.storage.
		On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ErrStorageGateway)
	f.storage.On("DeleteObject", ctx, mock.MatchedBy(isStaging(session))).Return(nil)

	_, err := f.service.Complete(ctx, session.ID, "42", "abc")

	assert.ErrorIs(t, err, domain.ErrStorageGateway)
	f.storage.AssertNotCalled(t, "CopyObject", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Complete_Incomplete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	require.NoError(t, f.service.MarkUploaded(ctx, session.ID, 0))
	require.NoError(t, f.service.MarkUploaded(ctx, session.ID, 2))
	expectNoAsset(f, session.ID)

	// Act
	_, err := f.service.Complete(ctx, session.ID, "42", "abc")

	// Assert
	assert.ErrorIs(t, err, domain.ErrUploadIncomplete)
	assert.Contains(t, err.Error(), "2 of 3")
	f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Complete_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("session not found", func(t *testing.T) {
		f := newFixture()
		expectNoAsset(f, "missing")

		_, err := f.service.Complete(ctx, "missing", "42", "abc")

		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("unauthorized", func(t *testing.T) {
		f := newFixture()
		session := initSession(t, f, trackRequest())
		markAll(t, f, session)
		expectNoAsset(f, session.ID)

		_, err := f.service.Complete(ctx, session.ID, "7", "abc")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("ledger lookup failure", func(t *testing.T) {
		f := newFixture()
		f.uow.GetMediaAssetRepoMock().
			On("FindBySessionID", ctx, "s").
			Return((*domain.MediaAsset)(nil), errors.New("db down"))

		_, err := f.service.Complete(ctx, "s", "42", "abc")

		assert.ErrorContains(t, err, "db down")
	})
}

func TestUploadService_Complete_PublishFailureIsLogged(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)
	data := payload(25 * units.MiB)
	var written []byte

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil)
	expectChunkReads(f, session, data)
	expectPut(f, session, &written)
	f.storage.On("CopyObject", ctx, mock.Anything, mock.Anything).Return(nil)
	f.uow.GetMediaAssetRepoMock().On("Create", ctx, mock.Anything).Return(nil)
	f.storage.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishUploadCompleted", ctx, mock.Anything).Return(errors.New("nats down"))
	f.storage.On("PresignGet", ctx, mock.Anything, time.Hour).Return(&port.PresignedURL{URL: "https://minio.example.com/f"}, nil)

	// Act
	completed, err := f.service.Complete(ctx, session.ID, "42", sha256Hex(data))

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, completed.DownloadURL)
}

func TestUploadService_Complete_ImageDoesNotPublish(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, port.InitUploadRequest{
		OwnerID:          "42",
		FileName:         "me.png",
		DeclaredFileSize: 2 * units.MiB,
		ContentType:      "image/png",
		Category:         domain.CategoryProfileImage,
	})
	markAll(t, f, session)
	data := payload(2 * units.MiB)
	var written []byte

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil)
	expectChunkReads(f, session, data)
	expectPut(f, session, &written)
	f.storage.On("CopyObject", ctx, mock.Anything, mock.Anything).Return(nil)
	f.uow.GetMediaAssetRepoMock().On("Create", ctx, mock.Anything).Return(nil)
	f.storage.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)
	f.storage.On("PresignGet", ctx, mock.Anything, time.Hour).Return(&port.PresignedURL{URL: "https://minio.example.com/p"}, nil)

	// Act
	completed, err := f.service.Complete(ctx, session.ID, "42", sha256Hex(data))

	// Assert
	require.NoError(t, err)
	assert.Regexp(t, `^images/profiles/42/\d+-[0-9a-f]{16}\.png$`, completed.FinalKey)
	f.publisher.AssertNotCalled(t, "PublishUploadCompleted", mock.Anything, mock.Anything)
}

func TestUploadService_Complete_ChecksumIsNormalized(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)

	finalKey := "audio/beats/42/beat-1/1700000000000-abcdef0123456789.wav"
	stored, err := f.store.Get(ctx, session.ID)
	require.NoError(t, err)
	stored.FinalKey = finalKey
	require.NoError(t, f.store.Save(ctx, *stored))

	data := payload(25 * units.MiB)

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, finalKey).Return(&port.ObjectInfo{Key: finalKey, Size: int64(len(data))}, nil)
	f.storage.On("GetObject", ctx, finalKey).Return(io.NopCloser(bytes.NewReader(data)), nil)
	f.uow.GetMediaAssetRepoMock().On("Create", ctx, mock.Anything).Return(nil)
	f.storage.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishUploadCompleted", ctx, mock.Anything).Return(nil)
	f.storage.On("PresignGet", ctx, finalKey, time.Hour).Return(&port.PresignedURL{URL: "https://minio.example.com/f"}, nil)

	// Act
	completed, err := f.service.Complete(ctx, session.ID, "42", "  "+strings.ToUpper(sha256Hex(data))+"\n")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, finalKey, completed.FinalKey)
	f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Complete_OversizedChunk(t *testing.T) {
	tests := []struct {
		name  string
		chunk int
	}{
		{"first chunk", 0},
		{"last chunk", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			f := newFixture()
			session := initSession(t, f, trackRequest())
			markAll(t, f, session)
			keys := objectkey.ChunkKeys(*session)
			var written []byte

			expectNoAsset(f, session.ID)
			f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil)
			for i, key := range keys {
				size := session.ChunkLength(i)
				if i == tt.chunk {
					size++
				}
				f.storage.On("GetObject", mock.Anything, key).Return(io.NopCloser(bytes.NewReader(payload(size))), nil).Maybe()
			}
			expectPut(f, session, &written)
			f.storage.On("DeleteObject", ctx, mock.MatchedBy(isStaging(session))).Return(nil).Once()

			// Act
			completed, err := f.service.Complete(ctx, session.ID, "42", sha256Hex(payload(25*units.MiB)))

			// Assert
			assert.ErrorIs(t, err, domain.ErrChecksumMismatch)
			assert.Nil(t, completed)
			f.storage.AssertNotCalled(t, "CopyObject", mock.Anything, mock.Anything, mock.Anything)
			f.uow.GetMediaAssetRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.storage.AssertExpectations(t)
		})
	}
}

func TestUploadService_Complete_CopyFailureKeepsSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)
	data := payload(25 * units.MiB)
	var written []byte

	expectNoAsset(f, session.ID)
	f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil)
	expectChunkReads(f, session, data)
	expectPut(f, session, &written)
	f.storage.On("CopyObject", ctx, mock.MatchedBy(isStaging(session)), mock.Anything).Return(domain.ErrStorageGateway)
	f.storage.On("DeleteObject", ctx, mock.MatchedBy(isStaging(session))).Return(nil).Once()

	// Act
	_, err := f.service.Complete(ctx, session.ID, "42", sha256Hex(data))

	// Assert
	assert.ErrorIs(t, err, domain.ErrStorageGateway)
	_, err = f.service.Get(ctx, session.ID)
	assert.NoError(t, err)
	f.uow.GetMediaAssetRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.storage.AssertExpectations(t)
}

func TestUploadService_Complete_LosesRecordRaceToConcurrentAttempt(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	markAll(t, f, session)
	data := payload(25 * units.MiB)
	var written []byte
	var copiedTo string
	winner := &domain.MediaAsset{
		ID:        uuid.New(),
		SessionID: session.ID,
		OwnerID:   "42",
		SizeBytes: int64(len(data)),
	}

	repo := f.uow.GetMediaAssetRepoMock()
	repo.On("FindBySessionID", ctx, session.ID).Return((*domain.MediaAsset)(nil), domain.ErrMediaAssetNotFound).Once()
	f.storage.On("StatObject", ctx, mock.Anything).Return((*port.ObjectInfo)(nil), nil).Once()
	expectChunkReads(f, session, data)
	expectPut(f, session, &written)
	expectPromote(f, session, &copiedTo)
	repo.
		On("Create", ctx, mock.Anything).
		Run(func(mock.Arguments) { winner.StorageKey = copiedTo }).
		Return(errors.New("media asset for session already recorded"))
	repo.On("FindBySessionID", ctx, session.ID).Return(winner, nil).Once()
	f.storage.On("StatObject", ctx, mock.Anything).Return(&port.ObjectInfo{Size: int64(len(data))}, nil).Once()
	f.storage.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)
	f.storage.On("PresignGet", ctx, mock.Anything, time.Hour).Return(&port.PresignedURL{URL: "https://minio.example.com/w"}, nil)

	// Act
	completed, err := f.service.Complete(ctx, session.ID, "42", sha256Hex(data))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, winner.ID.String(), completed.AssetID)
	assert.Equal(t, copiedTo, completed.FinalKey)
	f.publisher.AssertNotCalled(t, "PublishUploadCompleted", mock.Anything, mock.Anything)
}
