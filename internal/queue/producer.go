// Package queue decouples OcrPipeline's detection callback from whatever
// consumes it (the broadcast hub, persistence, external integrations) via a
// JetStream stream, rather than calling those consumers directly from the
// pipeline goroutine. Grounded on internal/queue/producer.go and
// consumer.go, trimmed to the single stream this domain needs: there is no
// frame-task queue here, since capture and recognition both run in-process
// per camera instead of being split across an ingestor/worker pair.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	DetectionsStreamName  = "DETECTIONS"
	DetectionsSubjectBase = "detections"
)

type Producer struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewProducer(natsURL string) (*Producer, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	return &Producer{nc: nc, js: js}, nil
}

// EnsureStream creates the DETECTIONS stream if it doesn't exist. Tries up
// to 30 times (1s apart) to ride out NATS startup delay.
func (p *Producer) EnsureStream(ctx context.Context) error {
	cfg := jetstream.StreamConfig{
		Name:        DetectionsStreamName,
		Subjects:    []string{DetectionsSubjectBase + ".>"},
		Retention:   jetstream.InterestPolicy,
		MaxAge:      24 * time.Hour,
		MaxMsgs:     1000000,
		Storage:     jetstream.FileStorage,
		Description: "Accepted plate detections, one message per camera event",
	}

	const maxAttempts = 30
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := p.js.CreateOrUpdateStream(opCtx, cfg)
		cancel()
		if err == nil {
			slog.Info("ensured NATS stream", "name", cfg.Name)
			return nil
		}
		if attempt == maxAttempts {
			return fmt.Errorf("create stream %s: %w (after %d attempts)", cfg.Name, err, maxAttempts)
		}
		slog.Warn("ensure NATS stream (retrying...)", "name", cfg.Name, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return nil
}

// PublishDetection publishes a detection event under detections.<camera_id>.
func (p *Producer) PublishDetection(ctx context.Context, cameraID string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal detection: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", DetectionsSubjectBase, cameraID)
	_, err = p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publish detection: %w", err)
	}
	return nil
}

// QueueDepth returns the number of pending messages in the DETECTIONS stream.
func (p *Producer) QueueDepth(ctx context.Context) (uint64, error) {
	stream, err := p.js.Stream(ctx, DetectionsStreamName)
	if err != nil {
		return 0, err
	}
	info, err := stream.Info(ctx)
	if err != nil {
		return 0, err
	}
	return info.State.Msgs, nil
}

func (p *Producer) Ping() error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats not connected")
	}
	return nil
}

func (p *Producer) Close() {
	p.nc.Close()
}
