package domain

import "errors"

// ErrFileTooLarge is an error thrown when the declared file size exceeds the upload policy
var ErrFileTooLarge = errors.New("file too large")

// ErrInvalidFileSize is an error thrown when the declared file size is not positive
var ErrInvalidFileSize = errors.New("invalid file size")

// ErrInvalidFileType is an error thrown when content type or extension is not allowed for a category
var ErrInvalidFileType = errors.New("invalid file type")

// ErrSessionNotFound is an error thrown when session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrUnauthorized is an error thrown when the caller does not own the session
var ErrUnauthorized = errors.New("unauthorized")

// ErrSessionExpired is an error thrown when a session is past its expiry
var ErrSessionExpired = errors.New("session expired")

// ErrInvalidChunkIndex is an error thrown when a chunk index is out of range
var ErrInvalidChunkIndex = errors.New("invalid chunk index")

// ErrUploadIncomplete is an error thrown when completing a session with missing chunks
var ErrUploadIncomplete = errors.New("upload incomplete")

// ErrChecksumMismatch is an error thrown when the assembled object does not match the client checksum
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrUnknownCategory is an error thrown when a category/entity combination is not recognized
var ErrUnknownCategory = errors.New("unknown category")

// ErrStorageGateway is an error thrown when the object store fails
var ErrStorageGateway = errors.New("storage gateway failure")

// ErrInvalidMedia is an error thrown when a media probe returns unusable metadata
var ErrInvalidMedia = errors.New("invalid media")

// ErrNoQualities is an error thrown when quality selection has nothing to choose from
var ErrNoQualities = errors.New("no qualities available")

// ErrMediaAssetNotFound is an error thrown when a media asset is not found
var ErrMediaAssetNotFound = errors.New("media asset not found")

// ErrorKind is the machine-readable name of an error reported at the API boundary
type ErrorKind string

const (
	KindFileTooLarge          ErrorKind = "FileTooLarge"
	KindInvalidFileSize       ErrorKind = "InvalidFileSize"
	KindInvalidFileType       ErrorKind = "InvalidFileType"
	KindSessionNotFound       ErrorKind = "SessionNotFound"
	KindUnauthorized          ErrorKind = "Unauthorized"
	KindSessionExpired        ErrorKind = "SessionExpired"
	KindInvalidChunkIndex     ErrorKind = "InvalidChunkIndex"
	KindUploadIncomplete      ErrorKind = "UploadIncomplete"
	KindChecksumMismatch      ErrorKind = "ChecksumMismatch"
	KindUnknownCategory       ErrorKind = "UnknownCategory"
	KindStorageGatewayFailure ErrorKind = "StorageGatewayFailure"
	KindInvalidMedia          ErrorKind = "InvalidMedia"
	KindNoQualities           ErrorKind = "NoQualities"
	KindMediaAssetNotFound    ErrorKind = "MediaAssetNotFound"
	KindInternal              ErrorKind = "Internal"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrFileTooLarge, KindFileTooLarge},
	{ErrInvalidFileSize, KindInvalidFileSize},
	{ErrInvalidFileType, KindInvalidFileType},
	{ErrSessionNotFound, KindSessionNotFound},
	{ErrUnauthorized, KindUnauthorized},
	{ErrSessionExpired, KindSessionExpired},
	{ErrInvalidChunkIndex, KindInvalidChunkIndex},
	{ErrUploadIncomplete, KindUploadIncomplete},
	{ErrChecksumMismatch, KindChecksumMismatch},
	{ErrUnknownCategory, KindUnknownCategory},
	{ErrStorageGateway, KindStorageGatewayFailure},
	{ErrInvalidMedia, KindInvalidMedia},
	{ErrNoQualities, KindNoQualities},
	{ErrMediaAssetNotFound, KindMediaAssetNotFound},
}

// KindOf returns the kind of the first known sentinel wrapped by err
func KindOf(err error) ErrorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
