package shared

import "context"

// EventHandler reacts to domain events. EventTypes narrows delivery;
// an empty slice subscribes the handler to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is the side of the bus application services see.
// Publishing never fails the business operation that raised the
// events; delivery problems are the bus's to report.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the full bus: publish plus handler registration.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
}
