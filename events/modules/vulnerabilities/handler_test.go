package vulnerability

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/quantumx/qvr-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []RegistryEvent
	err    error
}

func (s *recordingSink) HandleRegistryEvent(_ context.Context, event RegistryEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventStatusChanged, "abc", model.StatusVerified)

	assert.Equal(t, EventStatusChanged, event.EventType)
	assert.Equal(t, "abc", event.SystemID)
	assert.Equal(t, model.StatusVerified, event.Status)
	assert.Equal(t, SchemaVersion, event.SchemaVersion)
	assert.NotEmpty(t, event.EventID)
	assert.False(t, event.EventTime.IsZero())
	assert.NotEqual(t, event.EventID, NewEvent(EventStatusChanged, "abc", model.StatusVerified).EventID)
}

func TestHandleRegistryEvent(t *testing.T) {
	payload, err := json.Marshal(NewEvent(EventUpdated, "abc", "", "score"))
	require.NoError(t, err)

	sink := &recordingSink{}
	require.NoError(t, HandleRegistryEvent(context.Background(), payload, sink))
	require.Len(t, sink.events, 1)
	assert.Equal(t, []string{"score"}, sink.events[0].Fields)

	sink.err = errors.New("disk full")
	assert.Error(t, HandleRegistryEvent(context.Background(), payload, sink))
}

func TestDecodeEventRejectsInvalidPayloads(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"not json", "{"},
		{"unknown type", `{"event_type":"vulnerability.renamed","event_id":"1","system_id":"2"}`},
		{"missing id", `{"event_type":"vulnerability.deleted","system_id":"2"}`},
		{"missing system", `{"event_type":"vulnerability.deleted","event_id":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.msg))
			assert.Error(t, err)
		})
	}
}
