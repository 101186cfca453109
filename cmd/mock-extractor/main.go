// Package main implements a mock span-extraction server for e2e testing
// and local development. It serves the /extract endpoint semdoc expects
// from matches against a term lexicon instead of a real model, making
// pipeline tests fast, deterministic, and offline-capable.
//
// Usage:
//
//	mock-extractor -lexicon /path/to/lexicon.json -port 8100
//
// The lexicon file is JSON: {"terms": [{"text": "...", "label": "...",
// "confidence": 0.9}, ...]}. Without one, a small built-in technology
// lexicon is used. Matching is case-insensitive on word boundaries, and
// the requested threshold and label set filter the results.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
)

// --- Wire types ---

type extractRequest struct {
	Text      string   `json:"text"`
	Labels    []string `json:"labels"`
	Threshold float64  `json:"threshold"`
}

type entity struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

type extractResponse struct {
	Entities []entity `json:"entities"`
}

// --- Lexicon ---

// term is one recognizable phrase in the lexicon.
type term struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type lexicon struct {
	Terms []term `json:"terms"`
}

// builtinLexicon covers enough ground for smoke tests without a file.
func builtinLexicon() lexicon {
	return lexicon{Terms: []term{
		{Text: "kubernetes", Label: "technology", Confidence: 0.95},
		{Text: "docker", Label: "technology", Confidence: 0.93},
		{Text: "postgresql", Label: "technology", Confidence: 0.92},
		{Text: "raft", Label: "concept", Confidence: 0.9},
		{Text: "paxos", Label: "concept", Confidence: 0.9},
		{Text: "consensus", Label: "concept", Confidence: 0.85},
		{Text: "machine learning", Label: "concept", Confidence: 0.88},
		{Text: "golang", Label: "programming_language", Confidence: 0.94},
		{Text: "python", Label: "programming_language", Confidence: 0.94},
		{Text: "google", Label: "organization", Confidence: 0.9},
		{Text: "mit", Label: "organization", Confidence: 0.8},
	}}
}

func loadLexicon(path string) (lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lexicon{}, err
	}
	var lex lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}
	for i, t := range lex.Terms {
		if t.Text == "" || t.Label == "" {
			return lexicon{}, fmt.Errorf("lexicon term %d missing text or label", i)
		}
		if t.Confidence == 0 {
			lex.Terms[i].Confidence = 0.9
		}
	}
	return lex, nil
}

// --- Server ---

type server struct {
	lex   lexicon
	calls atomic.Int64
	spans atomic.Int64
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{
		"calls": s.calls.Load(),
		"spans": s.spans.Load(),
	})
}

func (s *server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	callNum := s.calls.Add(1)

	wanted := make(map[string]bool, len(req.Labels))
	for _, l := range req.Labels {
		wanted[strings.ToLower(l)] = true
	}

	entities := s.scan(req.Text, wanted, req.Threshold)
	s.spans.Add(int64(len(entities)))

	log.Printf("[call %d] text=%d bytes labels=%d threshold=%.2f -> %d spans",
		callNum, len(req.Text), len(req.Labels), req.Threshold, len(entities))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(extractResponse{Entities: entities})
}

// scan finds every lexicon term in text. Offsets are byte offsets into
// text, matching what the real service reports.
func (s *server) scan(text string, wanted map[string]bool, threshold float64) []entity {
	lower := strings.ToLower(text)
	entities := make([]entity, 0)

	for _, t := range s.lex.Terms {
		if len(wanted) > 0 && !wanted[strings.ToLower(t.Label)] {
			continue
		}
		if threshold > 0 && t.Confidence < threshold {
			continue
		}

		needle := strings.ToLower(t.Text)
		for from := 0; ; {
			i := strings.Index(lower[from:], needle)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(needle)
			if wordBoundary(lower, start, end) {
				entities = append(entities, entity{
					Text:  text[start:end],
					Label: t.Label,
					Start: start,
					End:   end,
					Score: t.Confidence,
				})
			}
			from = end
		}
	}

	return entities
}

// wordBoundary reports whether [start, end) is not embedded in a longer word.
func wordBoundary(s string, start, end int) bool {
	if start > 0 && isWordByte(s[start-1]) {
		return false
	}
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

func main() {
	lexiconPath := flag.String("lexicon", "", "path to a JSON term lexicon")
	port := flag.Int("port", 8100, "port to listen on")
	flag.Parse()

	// Allow env var override
	if envPath := os.Getenv("MOCK_EXTRACTOR_LEXICON"); envPath != "" && *lexiconPath == "" {
		*lexiconPath = envPath
	}

	lex := builtinLexicon()
	if *lexiconPath != "" {
		loaded, err := loadLexicon(*lexiconPath)
		if err != nil {
			log.Fatalf("Failed to load lexicon from %s: %v", *lexiconPath, err)
		}
		lex = loaded
	}
	log.Printf("Loaded %d lexicon term(s)", len(lex.Terms))

	s := &server{lex: lex}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/extract", s.handleExtract)
	mux.HandleFunc("/stats", s.handleStats)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock extraction server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
