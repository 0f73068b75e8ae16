// Package kafka runs the registry event consumer behind `qvr events tail`.
package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/quantumx/qvr-backend/config"
	vulnerability "github.com/quantumx/qvr-backend/events/modules/vulnerabilities"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

// LogSink writes every registry event to the logger
type LogSink struct {
	Logger *zap.Logger
}

// HandleRegistryEvent implements vulnerability.EventSink
func (s LogSink) HandleRegistryEvent(_ context.Context, event vulnerability.RegistryEvent) error {
	s.Logger.Info("registry event",
		zap.String("type", string(event.EventType)),
		zap.String("event_id", event.EventID),
		zap.String("system_id", event.SystemID),
		zap.String("status", string(event.Status)),
		zap.Strings("fields", event.Fields),
		zap.Time("event_time", event.EventTime))
	return nil
}

func newDialer(cfg config.KafkaConfig) *kafka.Dialer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	// Only configure SASL/TLS if credentials are provided
	if cfg.Username != "" && cfg.Password != "" {
		dialer.SASLMechanism = plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}
		dialer.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return dialer
}

// RunEventTail consumes the registry topic until ctx is cancelled, passing each message to
// sink. Undecodable messages are logged and skipped.
func RunEventTail(ctx context.Context, cfg config.KafkaConfig, sink vulnerability.EventSink, logger *zap.Logger) error {
	if !cfg.Enabled() {
		return errors.New("no Kafka brokers configured")
	}

	dialer := newDialer(cfg)

	// Single connectivity check so a bad broker address fails fast
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to reach Kafka broker %s: %w", cfg.Brokers[0], err)
	}
	conn.Close()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})
	defer reader.Close()

	logger.Info("Kafka event tail started", zap.String("topic", cfg.Topic), zap.String("group", cfg.GroupID))

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read registry event: %w", err)
		}
		if err := vulnerability.HandleRegistryEvent(ctx, msg.Value, sink); err != nil {
			logger.Warn("skipping registry event", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}
