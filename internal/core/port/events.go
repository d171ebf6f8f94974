package port

import (
	"beat-ingest/internal/core/domain"
	"context"
)

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// EventPublisher is an interface to define an event publisher
type EventPublisher interface {
	PublishUploadCompleted(ctx context.Context, event domain.UploadCompletedEvent) error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}
