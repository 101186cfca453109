package mcpserver

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/queue"
	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "submit_document",
		Description: "Submit document text for concept extraction and storage in the document graph",
	}, s.handleSubmit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_related_documents",
		Description: "Find documents that discuss a concept, ordered by extraction confidence",
	}, s.handleRelatedDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "co_occurring_concepts",
		Description: "Find concepts that appear near a concept within documents, ordered by document frequency",
	}, s.handleCoOccurring)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Get document and concept counts for the graph",
	}, s.handleStats)
}

// SubmitInput is the input schema for the submit_document tool.
type SubmitInput struct {
	Content string `json:"content" jsonschema:"the document text to process"`
	Name    string `json:"name,omitempty" jsonschema:"optional stable name so re-submission updates the same document"`
}

// SubmitOutput is the output schema for the submit_document tool.
type SubmitOutput struct {
	DocumentID   string `json:"document_id"`
	Status       string `json:"status"`
	Title        string `json:"title,omitempty"`
	Concepts     int    `json:"concepts,omitempty"`
	Statements   int    `json:"statements,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
}

func (s *Server) handleSubmit(ctx context.Context, _ *mcp.CallToolRequest, input SubmitInput) (*mcp.CallToolResult, SubmitOutput, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, SubmitOutput{}, errors.New("content is required")
	}

	switch {
	case s.processor != nil:
		res, err := s.processor.Process(ctx, input.Content, input.Name, "")
		if err != nil {
			return nil, SubmitOutput{}, err
		}
		return nil, SubmitOutput{
			DocumentID: res.DocumentID,
			Status:     "stored",
			Title:      res.Title,
			Concepts:   res.Concepts,
			Statements: res.Statements,
		}, nil

	case s.publisher != nil:
		sub := queue.NewSubmission(input.Content, input.Name, "mcp")
		if err := s.publisher.Publish(ctx, sub); err != nil {
			return nil, SubmitOutput{}, err
		}
		return nil, SubmitOutput{
			DocumentID:   sub.DocumentID,
			Status:       "queued",
			SubmissionID: sub.ID,
		}, nil

	default:
		return nil, SubmitOutput{}, errors.New("document submission is not configured")
	}
}

// RelatedInput is the input schema for the find_related_documents tool.
type RelatedInput struct {
	Concept string `json:"concept" jsonschema:"the concept label to look up"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 10)"`
}

// RelatedDocument represents a single related document.
type RelatedDocument struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	Domain     string `json:"domain,omitempty"`
}

// RelatedOutput is the output schema for the find_related_documents tool.
type RelatedOutput struct {
	Concept   string            `json:"concept"`
	Documents []RelatedDocument `json:"documents"`
	Count     int               `json:"count"`
}

func (s *Server) handleRelatedDocuments(ctx context.Context, _ *mcp.CallToolRequest, input RelatedInput) (*mcp.CallToolResult, RelatedOutput, error) {
	res, err := s.store.Query(ctx, graph.Query{
		Kind:    graph.QueryDocumentsForConcept,
		Concept: input.Concept,
		Limit:   input.Limit,
	})
	if err != nil {
		return nil, RelatedOutput{}, err
	}

	out := RelatedOutput{
		Concept:   input.Concept,
		Documents: make([]RelatedDocument, 0, len(res.Bindings)),
	}
	for _, b := range res.Bindings {
		out.Documents = append(out.Documents, RelatedDocument{
			ID:         strings.TrimPrefix(b["doc"], semdoc.DocumentNamespace),
			Title:      b["title"],
			Confidence: b["confidence"],
			Domain:     b["domain"],
		})
	}
	out.Count = len(out.Documents)
	return nil, out, nil
}

// CoOccurInput is the input schema for the co_occurring_concepts tool.
type CoOccurInput struct {
	Concept string `json:"concept" jsonschema:"the concept label to look up"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of concepts to return (default 10)"`
}

// CoOccurringConcept represents a single co-occurring concept.
type CoOccurringConcept struct {
	Concept   string `json:"concept"`
	Frequency int    `json:"frequency"`
}

// CoOccurOutput is the output schema for the co_occurring_concepts tool.
type CoOccurOutput struct {
	Concept string               `json:"concept"`
	Related []CoOccurringConcept `json:"related"`
	Count   int                  `json:"count"`
}

func (s *Server) handleCoOccurring(ctx context.Context, _ *mcp.CallToolRequest, input CoOccurInput) (*mcp.CallToolResult, CoOccurOutput, error) {
	res, err := s.store.Query(ctx, graph.Query{
		Kind:    graph.QueryCoOccurring,
		Concept: input.Concept,
		Limit:   input.Limit,
	})
	if err != nil {
		return nil, CoOccurOutput{}, err
	}

	out := CoOccurOutput{
		Concept: input.Concept,
		Related: make([]CoOccurringConcept, 0, len(res.Bindings)),
	}
	for _, b := range res.Bindings {
		freq, _ := strconv.Atoi(b["frequency"])
		out.Related = append(out.Related, CoOccurringConcept{
			Concept:   b["related_concept"],
			Frequency: freq,
		})
	}
	out.Count = len(out.Related)
	return nil, out, nil
}

// StatsInput is the input schema for the graph_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the graph_stats tool.
type StatsOutput struct {
	TotalDocuments int `json:"total_documents"`
	TotalConcepts  int `json:"total_concepts"`
	Conversations  int `json:"conversations"`
	MarkdownDocs   int `json:"markdown_docs"`
}

func (s *Server) handleStats(ctx context.Context, _ *mcp.CallToolRequest, _ StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}
	return nil, StatsOutput{
		TotalDocuments: stats.TotalDocuments,
		TotalConcepts:  stats.TotalConcepts,
		Conversations:  stats.Conversations,
		MarkdownDocs:   stats.MarkdownDocs,
	}, nil
}
