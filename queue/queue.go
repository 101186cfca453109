// Package queue moves document submissions from accepting surfaces
// (HTTP API, MCP tools) to the single ingest worker over NATS. The
// worker owns the store's write lock; everything else only publishes.
package queue

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semdoc/identity"
)

const (
	// SubjectDocumentIngest carries document submissions to the
	// ingest worker.
	SubjectDocumentIngest = "semdoc.ingest.document"

	// IngestQueueGroup is the consumer queue group. Group members
	// split the stream, so a single member preserves the one-writer
	// rule while allowing hot standbys.
	IngestQueueGroup = "semdoc-ingest"
)

// Submission is one document handed to the ingest worker. DocumentID
// is derived from the content before publishing, so submitters can
// hand the caller a stable identifier without waiting for processing.
type Submission struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Name        string    `json:"name,omitempty"`
	Content     string    `json:"content"`
	Source      string    `json:"source,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewSubmission stamps a submission with a fresh queue ID, the
// content-derived document ID, and the submission time.
func NewSubmission(content, name, source string) Submission {
	return Submission{
		ID:          uuid.NewString(),
		DocumentID:  identity.DocumentID(content, name),
		Name:        name,
		Content:     content,
		Source:      source,
		SubmittedAt: time.Now().UTC(),
	}
}

// Validate checks the fields a consumer depends on.
func (s Submission) Validate() error {
	if s.ID == "" {
		return errors.New("submission ID is required")
	}
	if s.Content == "" {
		return errors.New("submission content is required")
	}
	return nil
}
