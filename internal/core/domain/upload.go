package domain

import (
	"sort"
	"time"
)

// Category represents the kind of media an upload session produces
type Category string

const (
	CategoryAudio        Category = "audio"
	CategoryImage        Category = "image"
	CategoryProfileImage Category = "profile-image"
	CategoryArtwork      Category = "artwork"
)

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryAudio, CategoryImage, CategoryProfileImage, CategoryArtwork:
		return c, nil
	default:
		return "", ErrUnknownCategory
	}
}

// RequiresParentEntity reports whether the category is scoped to a parent entity (e.g. a beat)
func (c Category) RequiresParentEntity() bool {
	return c == CategoryAudio || c == CategoryArtwork
}

// UploadSession represents one in-progress resumable upload
type UploadSession struct {
	ID               string       `json:"id"`
	OwnerID          string       `json:"owner_id"`
	FileName         string       `json:"file_name"`
	DeclaredFileSize int64        `json:"declared_file_size"`
	ContentType      string       `json:"content_type"`
	ChunkSize        int64        `json:"chunk_size"`
	TotalChunks      int          `json:"total_chunks"`
	UploadedChunks   map[int]bool `json:"uploaded_chunks"`
	Category         Category     `json:"category"`
	ParentEntityID   string       `json:"parent_entity_id,omitempty"`
	FinalKey         string       `json:"final_key,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	ExpiresAt        time.Time    `json:"expires_at"`
}

// IsExpired reports whether the session is past its expiry at now
func (s *UploadSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ValidChunkIndex reports whether index addresses a chunk of this session
func (s *UploadSession) ValidChunkIndex(index int) bool {
	return index >= 0 && index < s.TotalChunks
}

// MarkChunk adds index to the uploaded set. It reports whether the set grew.
func (s *UploadSession) MarkChunk(index int) bool {
	if s.UploadedChunks == nil {
		s.UploadedChunks = make(map[int]bool, s.TotalChunks)
	}
	if s.UploadedChunks[index] {
		return false
	}
	s.UploadedChunks[index] = true
	return true
}

// UploadedCount returns the number of acknowledged chunks
func (s *UploadSession) UploadedCount() int {
	return len(s.UploadedChunks)
}

// IsComplete reports whether every chunk has been acknowledged
func (s *UploadSession) IsComplete() bool {
	return s.UploadedCount() == s.TotalChunks
}

// UploadedIndices returns acknowledged chunk indices in ascending order
func (s *UploadSession) UploadedIndices() []int {
	indices := make([]int, 0, len(s.UploadedChunks))
	for i := range s.UploadedChunks {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// ChunkLength returns the byte length of chunk index; the last chunk holds the remainder
func (s *UploadSession) ChunkLength(index int) int64 {
	if !s.ValidChunkIndex(index) {
		return 0
	}
	if index == s.TotalChunks-1 {
		return s.DeclaredFileSize - int64(index)*s.ChunkSize
	}
	return s.ChunkSize
}

// Clone returns a copy that shares no state with s
func (s UploadSession) Clone() UploadSession {
	chunks := make(map[int]bool, len(s.UploadedChunks))
	for i, ok := range s.UploadedChunks {
		chunks[i] = ok
	}
	s.UploadedChunks = chunks
	return s
}

// UploadProgress represents chunk-level progress of a session
type UploadProgress struct {
	Uploaded   int
	Total      int
	Percentage int
}

// ChunkURL is a presigned write URL for one chunk
type ChunkURL struct {
	UploadURL        string
	ObjectKey        string
	ContentLength    int64
	Headers          map[string]string
	ExpiresInSeconds int64
}

// CompletedUpload is the result of a successful finalization
type CompletedUpload struct {
	AssetID     string
	FinalKey    string
	DownloadURL string
}
