package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type MessageHandler func(ctx context.Context, msg jetstream.Msg) error

type Consumer struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewConsumer(natsURL string) (*Consumer, error) {
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

	return &Consumer{nc: nc, js: js}, nil
}

// ConsumeDetections starts consuming detection events (for the API process
// to persist and broadcast them over WebSocket).
func (c *Consumer) ConsumeDetections(ctx context.Context, consumerName string, handler MessageHandler) error {
	stream, err := c.js.Stream(ctx, DetectionsStreamName)
	if err != nil {
		return fmt.Errorf("get stream %s: %w", DetectionsStreamName, err)
	}

	cons, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          consumerName,
		Durable:       consumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       10 * time.Second,
		MaxDeliver:    3,
		FilterSubject: DetectionsSubjectBase + ".>",
		DeliverPolicy: jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", consumerName, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			batch, err := cons.Fetch(10, jetstream.FetchMaxWait(5*time.Second))
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				time.Sleep(time.Second)
				continue
			}

			for msg := range batch.Messages() {
				if err := handler(ctx, msg); err != nil {
					slog.Error("process detection error", "error", err)
					_ = msg.Nak()
				} else {
					_ = msg.Ack()
				}
			}
		}
	}()

	slog.Info("detection consumer started", "consumer", consumerName)
	return nil
}

func (c *Consumer) Close() {
	c.nc.Close()
}
