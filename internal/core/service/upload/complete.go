package upload

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/objectkey"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// errAssemblyOverflow is reported when chunk data runs past the declared file size
var errAssemblyOverflow = fmt.Errorf("%w: assembled data exceeds the declared file size", domain.ErrChecksumMismatch)

// Complete concatenates every chunk of a session into its permanent object, verifies the
// client checksum, records the media asset and closes the session.
// Retrying a finalized upload re-issues its download URL without concatenating again.
// Each attempt assembles into its own staging object; only a verified object is copied to the final key.
func (u *uploadService) Complete(ctx context.Context, sessionID string, ownerID string, clientChecksum string) (*domain.CompletedUpload, error) {
	clientChecksum = strings.ToLower(strings.TrimSpace(clientChecksum))

	resumed, err := u.resumeFinalized(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if resumed != nil {
		return resumed, nil
	}

	session, err := u.authorizedSession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}

	if !session.IsComplete() {
		return nil, fmt.Errorf("%w: %d of %d chunks uploaded", domain.ErrUploadIncomplete, session.UploadedCount(), session.TotalChunks)
	}

	finalKey, err := u.reserveFinalKey(ctx, session)
	if err != nil {
		return nil, err
	}

	checksum, err := u.existingChecksum(ctx, *session, finalKey)
	if err != nil {
		return nil, err
	}
	if checksum == "" || checksum != clientChecksum {
		checksum, err = u.assembleVerified(ctx, *session, finalKey, clientChecksum)
		if err != nil && !errors.Is(err, domain.ErrChecksumMismatch) {
			// chunks vanish once a concurrent attempt finalizes the session
			if recorded := u.finalizedElsewhere(ctx, sessionID, ownerID); recorded != nil {
				return recorded, nil
			}
		}
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	asset := domain.MediaAsset{
		ID:             uuid.New(),
		SessionID:      session.ID,
		OwnerID:        session.OwnerID,
		ParentEntityID: session.ParentEntityID,
		Category:       session.Category,
		FileName:       session.FileName,
		ContentType:    session.ContentType,
		StorageKey:     finalKey,
		SizeBytes:      session.DeclaredFileSize,
		Checksum:       checksum,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.uow.MediaAssetRepo().Create(ctx, asset); err != nil {
		if recorded := u.finalizedElsewhere(ctx, sessionID, ownerID); recorded != nil {
			return recorded, nil
		}
		return nil, fmt.Errorf("could not record media asset: %w", err)
	}

	deleted := u.deleteChunks(ctx, *session, objectkey.ChunkKeys(*session))
	u.deleteSession(ctx, session.ID)

	u.logger.Info("upload finalized",
		"session_id", session.ID,
		"asset_id", asset.ID,
		"final_key", finalKey,
		"size", session.DeclaredFileSize,
		"chunks_deleted", deleted)

	if session.Category == domain.CategoryAudio {
		u.publishCompleted(ctx, asset)
	}

	return u.completedUpload(ctx, asset)
}

// resumeFinalized returns the result of an already recorded finalization, or nil when there is none
func (u *uploadService) resumeFinalized(ctx context.Context, sessionID, ownerID string) (*domain.CompletedUpload, error) {
	asset, err := u.uow.MediaAssetRepo().FindBySessionID(ctx, sessionID)
	if errors.Is(err, domain.ErrMediaAssetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not look up media asset: %w", err)
	}

	if asset.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: session %s is not owned by %s", domain.ErrUnauthorized, sessionID, ownerID)
	}

	info, err := u.storage.StatObject(ctx, asset.StorageKey)
	if err != nil {
		return nil, err
	}
	if info == nil || info.Size != asset.SizeBytes {
		return nil, fmt.Errorf("%w: finalized object %s is missing", domain.ErrStorageGateway, asset.StorageKey)
	}

	// a crash after recording the asset leaves the session and its chunks behind
	if session, err := u.store.Get(ctx, sessionID); err == nil {
		u.deleteChunks(ctx, *session, objectkey.ChunkKeys(*session))
		u.deleteSession(ctx, sessionID)
	}

	u.logger.Info("upload already finalized", "session_id", sessionID, "asset_id", asset.ID)

	return u.completedUpload(ctx, *asset)
}

// finalizedElsewhere returns the result recorded by a concurrent attempt on the same session, if any
func (u *uploadService) finalizedElsewhere(ctx context.Context, sessionID, ownerID string) *domain.CompletedUpload {
	recorded, err := u.resumeFinalized(ctx, sessionID, ownerID)
	if err != nil {
		return nil
	}
	return recorded
}

// reserveFinalKey returns the permanent key of the session, choosing and persisting it on first use
func (u *uploadService) reserveFinalKey(ctx context.Context, session *domain.UploadSession) (string, error) {
	if session.FinalKey != "" {
		return session.FinalKey, nil
	}

	suffix, err := randomHex(keySuffixBytes)
	if err != nil {
		return "", err
	}

	key, err := objectkey.Final(session.Category, session.OwnerID, session.ParentEntityID, session.FileName, time.Now().UTC(), suffix)
	if err != nil {
		return "", err
	}

	session.FinalKey = key
	if err := u.store.Save(ctx, *session); err != nil {
		return "", fmt.Errorf("could not save upload session: %w", err)
	}
	return key, nil
}

// existingChecksum hashes the object at key when it already holds the declared size.
// It returns an empty string when there is nothing to reuse.
func (u *uploadService) existingChecksum(ctx context.Context, session domain.UploadSession, key string) (string, error) {
	info, err := u.storage.StatObject(ctx, key)
	if err != nil {
		return "", err
	}
	if info == nil || info.Size != session.DeclaredFileSize {
		return "", nil
	}

	body, err := u.storage.GetObject(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, body); err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrStorageGateway, key, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// assembleVerified assembles the session into a staging object and, when its sha256 matches
// clientChecksum, copies it onto finalKey. The staging object is always removed.
func (u *uploadService) assembleVerified(ctx context.Context, session domain.UploadSession, finalKey, clientChecksum string) (string, error) {
	attemptID, err := randomHex(keySuffixBytes)
	if err != nil {
		return "", err
	}
	stagingKey := objectkey.Staging(session.OwnerID, session.ID, attemptID)
	defer u.deleteObject(ctx, stagingKey)

	checksum, err := u.assemble(ctx, session, stagingKey)
	if err != nil {
		return "", err
	}
	if checksum != clientChecksum {
		return "", fmt.Errorf("%w: computed sha256 %s", domain.ErrChecksumMismatch, checksum)
	}

	if err := u.storage.CopyObject(ctx, stagingKey, finalKey); err != nil {
		return "", err
	}
	return checksum, nil
}

// assemble streams the chunks in index order into key and returns the sha256 of the written bytes
func (u *uploadService) assemble(ctx context.Context, session domain.UploadSession, key string) (string, error) {
	pr, pw := io.Pipe()

	streamErr := make(chan error, 1)
	go func() {
		streamErr <- u.streamChunks(ctx, session, pw)
	}()

	hasher := sha256.New()
	putErr := u.storage.PutObject(ctx, key, io.TeeReader(pr, hasher), session.DeclaredFileSize, session.ContentType)

	// the store stops reading at the declared size; anything still being written is overflow
	pr.CloseWithError(errAssemblyOverflow)

	err := <-streamErr
	switch {
	case putErr != nil && (err == nil || errors.Is(err, errAssemblyOverflow)):
		return "", putErr
	case err != nil:
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// streamChunks writes every chunk of session to w, checking each chunk's length
func (u *uploadService) streamChunks(ctx context.Context, session domain.UploadSession, w *io.PipeWriter) error {
	for i, key := range objectkey.ChunkKeys(session) {
		expected := session.ChunkLength(i)

		body, err := u.storage.GetObject(ctx, key)
		if err != nil {
			w.CloseWithError(err)
			return err
		}

		n, err := io.Copy(w, io.LimitReader(body, expected+1))
		body.Close()
		if errors.Is(err, errAssemblyOverflow) {
			return err
		}
		if err != nil {
			err = fmt.Errorf("%w: reading chunk %d: %v", domain.ErrStorageGateway, i, err)
			w.CloseWithError(err)
			return err
		}
		if n > expected {
			w.CloseWithError(errAssemblyOverflow)
			return errAssemblyOverflow
		}
		if n < expected {
			err = fmt.Errorf("%w: chunk %d has %d bytes, expected %d", domain.ErrUploadIncomplete, i, n, expected)
			w.CloseWithError(err)
			return err
		}
	}
	return w.Close()
}

func (u *uploadService) publishCompleted(ctx context.Context, asset domain.MediaAsset) {
	event := domain.UploadCompletedEvent{
		Type:           domain.EventTypeUploadCompleted,
		AssetID:        asset.ID.String(),
		SessionID:      asset.SessionID,
		OwnerID:        asset.OwnerID,
		ParentEntityID: asset.ParentEntityID,
		Category:       asset.Category,
		FinalKey:       asset.StorageKey,
	}
	if err := u.publisher.PublishUploadCompleted(ctx, event); err != nil {
		u.logger.Error("failed to publish upload completed event", "asset_id", asset.ID, "error", err)
	}
}

func (u *uploadService) completedUpload(ctx context.Context, asset domain.MediaAsset) (*domain.CompletedUpload, error) {
	download, err := u.storage.PresignGet(ctx, asset.StorageKey, u.cfg.DownloadURLExpiry)
	if err != nil {
		return nil, err
	}
	return &domain.CompletedUpload{
		AssetID:     asset.ID.String(),
		FinalKey:    asset.StorageKey,
		DownloadURL: download.URL,
	}, nil
}

func (u *uploadService) deleteObject(ctx context.Context, key string) {
	if err := u.storage.DeleteObject(ctx, key); err != nil {
		u.logger.Warn("failed to delete object", "key", key, "error", err)
	}
}
