package domain

// EventType is a type that represents the type of an event
type EventType string

const (
	EventTypeUploadCompleted EventType = "UploadCompleted"
)

// UploadCompletedEvent is published after a verified finalization
type UploadCompletedEvent struct {
	Type           EventType `json:"type"`
	AssetID        string    `json:"asset_id"`
	SessionID      string    `json:"session_id"`
	OwnerID        string    `json:"owner_id"`
	ParentEntityID string    `json:"parent_entity_id"`
	Category       Category  `json:"category"`
	FinalKey       string    `json:"final_key"`
}
