package vulnerability

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/model"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// publishTimeout bounds one event write
const publishTimeout = 2 * time.Second

// KafkaPublisher sends registry events to a Kafka topic
type KafkaPublisher struct {
	Writer *kafka.Writer
}

// NewKafkaPublisher initializes a Kafka writer for registry events. SASL/PLAIN over TLS is
// used when credentials are configured.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		// Publishing runs on the request path; a dead broker fails the write once instead of retrying.
		MaxAttempts:  1,
		WriteTimeout: publishTimeout,
	}

	if cfg.Username != "" && cfg.Password != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: cfg.Username, Password: cfg.Password},
			TLS:  &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	return &KafkaPublisher{Writer: writer}
}

// NewEvent builds an event envelope with a fresh id
func NewEvent(eventType EventType, systemID string, status model.Status, fields ...string) RegistryEvent {
	return RegistryEvent{
		EventType:     eventType,
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		SystemID:      systemID,
		Status:        status,
		Fields:        fields,
	}
}

// Publish sends the event keyed by the system id so changes to one record stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, event RegistryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SystemID),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}
