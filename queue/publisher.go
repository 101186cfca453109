package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Publisher publishes submissions to the ingest subject.
type Publisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// Connect dials NATS and returns a publisher.
func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url, nats.Name("semdoc-publisher"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &Publisher{nc: nc, logger: logger}, nil
}

// Publish sends one submission and flushes, so a nil return means the
// server accepted it.
func (p *Publisher) Publish(ctx context.Context, sub Submission) error {
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("invalid submission: %w", err)
	}
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshaling submission: %w", err)
	}
	if err := p.nc.Publish(SubjectDocumentIngest, data); err != nil {
		return fmt.Errorf("publishing submission: %w", err)
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flushing submission: %w", err)
	}
	p.logger.Debug("published submission",
		"id", sub.ID,
		"document_id", sub.DocumentID,
		"source", sub.Source)
	return nil
}

// Close closes the underlying connection.
func (p *Publisher) Close() {
	p.nc.Close()
}
