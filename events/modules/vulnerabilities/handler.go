package vulnerability

import (
	"context"
	"encoding/json"
	"fmt"
)

// EventSink receives decoded registry events, e.g. an audit log.
type EventSink interface {
	HandleRegistryEvent(ctx context.Context, event RegistryEvent) error
}

// DecodeEvent parses and checks a registry event payload.
func DecodeEvent(msg []byte) (RegistryEvent, error) {
	var event RegistryEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return RegistryEvent{}, fmt.Errorf("failed to unmarshal RegistryEvent: %w", err)
	}

	if !event.EventType.Valid() {
		return RegistryEvent{}, fmt.Errorf("invalid event: unknown event type %q", event.EventType)
	}
	if event.EventID == "" || event.SystemID == "" {
		return RegistryEvent{}, fmt.Errorf("invalid event: missing required fields")
	}
	return event, nil
}

// HandleRegistryEvent decodes msg and hands it to sink.
func HandleRegistryEvent(ctx context.Context, msg []byte, sink EventSink) error {
	event, err := DecodeEvent(msg)
	if err != nil {
		return err
	}
	if err := sink.HandleRegistryEvent(ctx, event); err != nil {
		return fmt.Errorf("event sink error: %w", err)
	}
	return nil
}
