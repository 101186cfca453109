package classify

import (
	"strings"
	"testing"
)

func feature(t *testing.T, m Metadata, key string) any {
	t.Helper()
	for _, f := range m.Features {
		if f.Key == key {
			return f.Value
		}
	}
	t.Fatalf("feature %q missing", key)
	return nil
}

func TestClassifyMarkdown(t *testing.T) {
	content := `# Raft Notes

## Overview

Raft is a consensus algorithm.

* leader election
* log replication`

	m := Classify(content)

	if m.Type != TypeMarkdown {
		t.Errorf("Type = %s, want markdown", m.Type)
	}
	// 4 of 8 lines carry markdown markers
	if m.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", m.Confidence)
	}
	if m.Title != "Raft Notes" {
		t.Errorf("Title = %q, want Raft Notes", m.Title)
	}
}

func TestClassifyConversation(t *testing.T) {
	content := `Alice: How does Raft elect a leader?
Bob: Through randomized election timeouts.
Alice: And split votes?
Bob: Timeouts are re-randomized each round.`

	m := Classify(content)

	if m.Type != TypeConversation {
		t.Errorf("Type = %s, want conversation", m.Type)
	}
	if m.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", m.Confidence)
	}
	if got := feature(t, m, "hasSpeakers"); got != true {
		t.Errorf("hasSpeakers = %v, want true", got)
	}
}

func TestClassifyStructured(t *testing.T) {
	content := `INGREDIENTS:
| item | qty |
| flour | 200g |
---
1. Mix
2. Bake`

	m := Classify(content)

	if m.Type != TypeStructured {
		t.Errorf("Type = %s, want structured", m.Type)
	}
	if m.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", m.Confidence)
	}
}

func TestClassifyPlainTextFallback(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unmarked prose",
			content: "The quick brown fox jumps over the lazy dog.\nIt keeps running through the field all day long.",
		},
		{
			// One marker in twenty lines stays under the 0.1 threshold
			name:    "markers too sparse",
			content: "# Lone heading\n" + strings.Repeat("plain filler prose with no markers\n", 19),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Classify(tt.content)
			if m.Type != TypePlainText {
				t.Errorf("Type = %s, want plain_text", m.Type)
			}
			if m.Confidence != 0.5 {
				t.Errorf("Confidence = %v, want the fallback 0.5", m.Confidence)
			}
		})
	}
}

func TestClassifyEmpty(t *testing.T) {
	for _, content := range []string{"", "   \n\t\n  "} {
		m := Classify(content)
		if m.Type != TypeRandom {
			t.Errorf("Classify(%q).Type = %s, want random", content, m.Type)
		}
		if m.Confidence != 0 {
			t.Errorf("Classify(%q).Confidence = %v, want 0", content, m.Confidence)
		}
		if m.Features == nil || len(m.Features) != 0 {
			t.Errorf("Classify(%q).Features = %v, want empty", content, m.Features)
		}
		if m.Title != "" {
			t.Errorf("Classify(%q).Title = %q, want empty", content, m.Title)
		}
	}
}

func TestClassifyTiePrefersConversation(t *testing.T) {
	// One conversation line, one markdown line
	m := Classify("Alice: hi there\n# Heading")

	if m.Type != TypeConversation {
		t.Errorf("Type = %s, want conversation on an exact tie", m.Type)
	}
	if m.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", m.Confidence)
	}
}

func TestClassifyFeatures(t *testing.T) {
	m := Classify("# Title\n\nA body line.")

	if got := feature(t, m, "lineCount"); got != 3 {
		t.Errorf("lineCount = %v, want 3", got)
	}
	if got := feature(t, m, "markdownMarkers"); got != 1 {
		t.Errorf("markdownMarkers = %v, want 1", got)
	}
	if got := feature(t, m, "hasHeaders"); got != true {
		t.Errorf("hasHeaders = %v, want true", got)
	}
	if got := feature(t, m, "hasSpeakers"); got != false {
		t.Errorf("hasSpeakers = %v, want false", got)
	}
	if _, ok := feature(t, m, "avgLineLength").(float64); !ok {
		t.Error("avgLineLength is not a float64")
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "markdown heading trimmed",
			content: "###   Spaced Heading   \n\nbody",
			want:    "Spaced Heading",
		},
		{
			name:    "conversation falls back to first substantial line",
			content: "Alice: How does Raft elect a leader?\nBob: Timeouts.",
			want:    "Alice: How does Raft elect a...",
		},
		{
			name:    "plain text uses first words",
			content: "The quick brown fox jumps over the lazy dog.\nMore prose follows here.",
			want:    "The quick brown fox jumps over...",
		},
		{
			name:    "short lines give no title",
			content: "hi\nok\nyo",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Classify(tt.content)
			if m.Title != tt.want {
				t.Errorf("Title = %q, want %q", m.Title, tt.want)
			}
		})
	}
}
