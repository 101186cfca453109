package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScanFindsTerms(t *testing.T) {
	s := &server{lex: builtinLexicon()}

	entities := s.scan("Raft and Paxos reached consensus", nil, 0)
	if len(entities) != 3 {
		t.Fatalf("expected 3 entities, got %d: %+v", len(entities), entities)
	}

	// Original casing is preserved even though matching is lowercase.
	first := entities[0]
	if first.Text != "Raft" || first.Start != 0 || first.End != 4 {
		t.Errorf("raft entity = %+v", first)
	}
	if entities[1].Text != "Paxos" || entities[1].Start != 9 {
		t.Errorf("paxos entity = %+v", entities[1])
	}
	if entities[2].Label != "concept" {
		t.Errorf("consensus label = %q", entities[2].Label)
	}
}

func TestScanRepeatedTerm(t *testing.T) {
	s := &server{lex: builtinLexicon()}

	entities := s.scan("raft, raft, and more raft", nil, 0)
	if len(entities) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(entities))
	}
}

func TestScanWordBoundaries(t *testing.T) {
	s := &server{lex: builtinLexicon()}

	tests := []struct {
		text string
		want int
	}{
		{"craft beer", 0},   // embedded at the start
		{"rafting trip", 0}, // embedded at the end
		{"a raft.", 1},      // punctuation is a boundary
		{"RAFT", 1},         // case-insensitive
		{"white-water raft", 1},
	}

	for _, tt := range tests {
		if got := s.scan(tt.text, nil, 0); len(got) != tt.want {
			t.Errorf("scan(%q) = %d entities, want %d", tt.text, len(got), tt.want)
		}
	}
}

func TestScanLabelFilter(t *testing.T) {
	s := &server{lex: builtinLexicon()}

	wanted := map[string]bool{"concept": true}
	entities := s.scan("golang and raft", wanted, 0)
	if len(entities) != 1 || entities[0].Text != "raft" {
		t.Errorf("expected only the concept match, got %+v", entities)
	}
}

func TestScanThreshold(t *testing.T) {
	s := &server{lex: builtinLexicon()}

	// consensus (0.85) falls below the cut, raft (0.9) survives
	entities := s.scan("raft consensus", nil, 0.89)
	if len(entities) != 1 || entities[0].Text != "raft" {
		t.Errorf("expected only raft above threshold, got %+v", entities)
	}
}

func TestHandleExtract(t *testing.T) {
	s := &server{lex: builtinLexicon()}

	body := `{"text":"Raft is a consensus algorithm","labels":["concept"],"threshold":0.5}`
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleExtract(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp extractResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Entities) != 2 {
		t.Fatalf("expected raft and consensus, got %+v", resp.Entities)
	}
	if s.calls.Load() != 1 {
		t.Errorf("call counter = %d, want 1", s.calls.Load())
	}
}

func TestHandleExtractRejectsGet(t *testing.T) {
	s := &server{lex: builtinLexicon()}

	req := httptest.NewRequest(http.MethodGet, "/extract", nil)
	rec := httptest.NewRecorder()
	s.handleExtract(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.json")
	content := `{"terms":[{"text":"etcd","label":"technology","confidence":0.8},{"text":"gossip","label":"concept"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}

	lex, err := loadLexicon(path)
	if err != nil {
		t.Fatalf("loadLexicon: %v", err)
	}
	if len(lex.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(lex.Terms))
	}
	if lex.Terms[0].Confidence != 0.8 {
		t.Errorf("confidence = %f", lex.Terms[0].Confidence)
	}
	// Missing confidence defaults
	if lex.Terms[1].Confidence != 0.9 {
		t.Errorf("default confidence = %f, want 0.9", lex.Terms[1].Confidence)
	}
}

func TestLoadLexiconRejectsIncompleteTerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.json")
	if err := os.WriteFile(path, []byte(`{"terms":[{"text":"etcd"}]}`), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}

	if _, err := loadLexicon(path); err == nil {
		t.Error("expected error for term without label")
	}
}
