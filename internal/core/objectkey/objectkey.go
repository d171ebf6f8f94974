// Package objectkey maps upload and streaming artifacts to storage keys.
//
// Every function is pure: timestamps and random suffixes are supplied by the caller,
// so the same inputs always yield the same key.
package objectkey

import (
	"beat-ingest/internal/core/domain"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	audioPrefix   = "audio/beats"
	artworkPrefix = "images/artwork"
	profilePrefix = "images/profiles"
	tempPrefix    = "temp"
	chunkPrefix   = "temp/chunks"
	stagingPrefix = "temp/assembling"
	hlsPrefix     = "processed/hls"

	defaultExtension = "bin"
)

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidSegment reports whether id is usable as one path segment of a key
func ValidSegment(id string) bool {
	return segmentPattern.MatchString(id)
}

// Final returns the permanent key of a finalized upload
func Final(category domain.Category, ownerID, entityID, fileName string, at time.Time, suffix string) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("%w: owner id is required", domain.ErrUnknownCategory)
	}
	if !ValidSegment(ownerID) {
		return "", fmt.Errorf("%w: invalid owner id %q", domain.ErrUnknownCategory, ownerID)
	}
	if category.RequiresParentEntity() && entityID == "" {
		return "", fmt.Errorf("%w: %s requires a parent entity id", domain.ErrUnknownCategory, category)
	}
	if entityID != "" && !ValidSegment(entityID) {
		return "", fmt.Errorf("%w: invalid parent entity id %q", domain.ErrUnknownCategory, entityID)
	}

	name := fmt.Sprintf("%d-%s.%s", at.UnixMilli(), suffix, Extension(fileName))

	switch category {
	case domain.CategoryAudio:
		return strings.Join([]string{audioPrefix, ownerID, entityID, name}, "/"), nil
	case domain.CategoryArtwork:
		return strings.Join([]string{artworkPrefix, ownerID, entityID, name}, "/"), nil
	case domain.CategoryProfileImage:
		return strings.Join([]string{profilePrefix, ownerID, name}, "/"), nil
	case domain.CategoryImage:
		return strings.Join([]string{tempPrefix, ownerID, name}, "/"), nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
}

// Chunk returns the temporary key of one chunk of a session
func Chunk(ownerID, sessionID string, sessionCreatedAt time.Time, index int) string {
	return fmt.Sprintf("%s/%s/%s/%d-chunk-%d", chunkPrefix, ownerID, sessionID, sessionCreatedAt.UnixMilli(), index)
}

// Staging returns the key one finalization attempt of a session assembles into
func Staging(ownerID, sessionID, attemptID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", stagingPrefix, ownerID, sessionID, attemptID)
}

// ChunkKeys returns the keys of every chunk of session in index order
func ChunkKeys(session domain.UploadSession) []string {
	keys := make([]string, session.TotalChunks)
	for i := range keys {
		keys[i] = Chunk(session.OwnerID, session.ID, session.CreatedAt, i)
	}
	return keys
}

func hlsDir(ownerID, entityID, qualityName string) string {
	return strings.Join([]string{hlsPrefix, ownerID, entityID, qualityName}, "/")
}

// HLSSegment returns the key of one transport-stream segment of a quality tier
func HLSSegment(ownerID, entityID, qualityName string, at time.Time, generationID string, index int) string {
	return fmt.Sprintf("%s/%d-%s-segment-%d.ts", hlsDir(ownerID, entityID, qualityName), at.UnixMilli(), generationID, index)
}

// HLSVariant returns the key of the variant playlist of a quality tier
func HLSVariant(ownerID, entityID, qualityName string, at time.Time, generationID string) string {
	return fmt.Sprintf("%s/%d-%s.m3u8", hlsDir(ownerID, entityID, qualityName), at.UnixMilli(), generationID)
}

// HLSMaster returns the key of the master playlist of a generation
func HLSMaster(ownerID, entityID string, at time.Time, generationID string) string {
	return fmt.Sprintf("%s/%s/%s/%d-%s-master.m3u8", hlsPrefix, ownerID, entityID, at.UnixMilli(), generationID)
}

// Extension returns the lower-case extension of fileName without the dot
func Extension(fileName string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filepath.Base(fileName))), ".")
	if ext == "" {
		return defaultExtension
	}
	return ext
}
