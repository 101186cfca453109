package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Handler processes one submission. A returned error is logged; the
// submission is not redelivered.
type Handler func(ctx context.Context, sub Submission) error

// Consumer delivers submissions from the ingest subject to a handler.
type Consumer struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// NewConsumer dials NATS and returns a consumer.
func NewConsumer(url string, logger *slog.Logger) (*Consumer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url, nats.Name("semdoc-ingest"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &Consumer{nc: nc, logger: logger}, nil
}

// Run subscribes as a member of the ingest queue group and blocks
// until the context is canceled. Malformed submissions are dropped
// with a warning; handler failures are logged and processing moves on.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	sub, err := c.nc.QueueSubscribe(SubjectDocumentIngest, IngestQueueGroup, func(msg *nats.Msg) {
		var s Submission
		if err := json.Unmarshal(msg.Data, &s); err != nil {
			c.logger.Warn("dropping malformed submission", "error", err)
			return
		}
		if err := s.Validate(); err != nil {
			c.logger.Warn("dropping invalid submission", "error", err)
			return
		}
		if err := handle(ctx, s); err != nil {
			c.logger.Error("submission failed",
				"id", s.ID,
				"document_id", s.DocumentID,
				"error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", SubjectDocumentIngest, err)
	}
	defer sub.Unsubscribe()

	c.logger.Info("ingest worker listening",
		"subject", SubjectDocumentIngest,
		"queue_group", IngestQueueGroup)

	<-ctx.Done()
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close closes the underlying connection.
func (c *Consumer) Close() {
	c.nc.Close()
}
