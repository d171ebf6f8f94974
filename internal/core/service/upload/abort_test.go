package upload_test

import (
	"context"
	"errors"
	"testing"

	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/objectkey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadService_Abort_DeletesChunksAndSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())

	for _, key := range objectkey.ChunkKeys(*session) {
		f.storage.On("DeleteObject", mock.Anything, key).Return(nil).Once()
	}

	// Act
	err := f.service.Abort(ctx, session.ID)

	// Assert
	require.NoError(t, err)
	_, err = f.service.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	f.storage.AssertExpectations(t)
}

func TestUploadService_Abort_ChunkDeleteFailureIsNotFatal(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := initSession(t, f, trackRequest())
	keys := objectkey.ChunkKeys(*session)

	f.storage.On("DeleteObject", mock.Anything, keys[0]).Return(nil)
	f.storage.On("DeleteObject", mock.Anything, keys[1]).Return(errors.New("boom"))
	f.storage.On("DeleteObject", mock.Anything, keys[2]).Return(nil)

	// Act
	err := f.service.Abort(ctx, session.ID)

	// Assert
	require.NoError(t, err)
	f.storage.AssertNumberOfCalls(t, "DeleteObject", 3)
	_, err = f.service.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUploadService_Abort_MissingSessionIsNoop(t *testing.T) {
	f := newFixture()

	err := f.service.Abort(context.Background(), "missing")

	assert.NoError(t, err)
	f.storage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}
