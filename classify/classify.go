// Package classify detects a document's type from its text and extracts
// the structural features and title used by the ontology mapper. It is a
// heuristic collaborator: the graph pipeline consumes its output as-is.
package classify

import (
	"regexp"
	"strings"
)

// DocumentType is the coarse structural category of a document.
type DocumentType string

const (
	// TypeConversation is transcript-like text with speaker turns.
	TypeConversation DocumentType = "conversation"
	// TypeMarkdown is markdown-formatted text.
	TypeMarkdown DocumentType = "markdown"
	// TypePlainText is unstructured prose.
	TypePlainText DocumentType = "plain_text"
	// TypeStructured is list- or table-like text.
	TypeStructured DocumentType = "structured"
	// TypeRandom is content with no usable structure, such as an empty
	// document.
	TypeRandom DocumentType = "random"
)

// Feature is one entry in the classifier's feature table. Value is an
// int, float64, or bool; the mapper picks the literal datatype from it.
type Feature struct {
	Key   string
	Value any
}

// Metadata is the classifier's verdict on a document.
type Metadata struct {
	Type       DocumentType
	Confidence float64
	Features   []Feature
	Title      string
}

var conversationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][a-z]+:`),    // "Alice:"
	regexp.MustCompile(`^[a-zA-Z0-9_-]+:`), // "user123:"
	regexp.MustCompile(`^\*\*[^*]+\*\*:`),  // "**Assistant**:"
	regexp.MustCompile(`^>\s`),             // "> quoted text"
}

var markdownPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^#{1,6}\s`),     // headers
	regexp.MustCompile(`^\*\s`),         // lists
	regexp.MustCompile(`^\d+\.\s`),      // numbered lists
	regexp.MustCompile(`^\[.*\]\(.*\)`), // links
	regexp.MustCompile("`[^`]+`"),       // inline code
	regexp.MustCompile("^```"),          // code blocks
}

var structuredPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.`),          // numbered items
	regexp.MustCompile(`^[A-Z][A-Z\s]+:`), // "SECTION HEADER:"
	regexp.MustCompile(`^-{3,}`),          // horizontal rules
	regexp.MustCompile(`^\|`),             // tables
}

// Classify detects the document type from line-level patterns. The type
// with the highest share of matching lines wins; below 0.1 the document
// falls back to plain text at 0.5 confidence. Conversation beats markdown
// beats structured on exact ties.
func Classify(content string) Metadata {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Metadata{Type: TypeRandom, Confidence: 0, Features: []Feature{}}
	}

	lines := strings.Split(trimmed, "\n")
	total := float64(len(lines))

	convScore := countMatches(lines, conversationPatterns)
	mdScore := countMatches(lines, markdownPatterns)
	structScore := countMatches(lines, structuredPatterns)

	docType := TypeConversation
	confidence := float64(convScore) / total
	if mdConf := float64(mdScore) / total; mdConf > confidence {
		docType = TypeMarkdown
		confidence = mdConf
	}
	if structConf := float64(structScore) / total; structConf > confidence {
		docType = TypeStructured
		confidence = structConf
	}

	if confidence < 0.1 {
		docType = TypePlainText
		confidence = 0.5
	}

	lengthSum := 0
	for _, line := range lines {
		lengthSum += len(line)
	}

	features := []Feature{
		{Key: "lineCount", Value: len(lines)},
		{Key: "avgLineLength", Value: float64(lengthSum) / total},
		{Key: "conversationMarkers", Value: convScore},
		{Key: "markdownMarkers", Value: mdScore},
		{Key: "structuredMarkers", Value: structScore},
		{Key: "hasHeaders", Value: hasHeaders(lines)},
		{Key: "hasSpeakers", Value: hasSpeakers(lines)},
	}

	return Metadata{
		Type:       docType,
		Confidence: confidence,
		Features:   features,
		Title:      extractTitle(lines, docType),
	}
}

// countMatches counts lines matching any of the patterns.
func countMatches(lines []string, patterns []*regexp.Regexp) int {
	count := 0
	for _, line := range lines {
		for _, p := range patterns {
			if p.MatchString(line) {
				count++
				break
			}
		}
	}
	return count
}

// hasHeaders reports whether any line starts a heading.
func hasHeaders(lines []string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			return true
		}
	}
	return false
}

// hasSpeakers reports whether a colon appears early in any of the first
// ten lines, the rough signature of a speaker turn.
func hasSpeakers(lines []string) bool {
	for i, line := range lines {
		if i >= 10 {
			break
		}
		if strings.Contains(head(line, 50), ":") {
			return true
		}
	}
	return false
}

// extractTitle suggests a title. Markdown documents use their first
// heading; conversations use the first substantial non-speaker line;
// everything else uses the first substantial line.
func extractTitle(lines []string, docType DocumentType) string {
	if docType == TypeMarkdown {
		for i, line := range lines {
			if i >= 5 {
				break
			}
			if strings.HasPrefix(line, "#") {
				return strings.TrimSpace(strings.TrimLeft(line, "#"))
			}
		}
	}

	if docType == TypeConversation {
		for i, line := range lines {
			if i >= 5 {
				break
			}
			stripped := strings.TrimSpace(line)
			if len(stripped) > 10 && !strings.Contains(head(line, 50), ":") {
				return firstWords(stripped, 6)
			}
		}
	}

	for i, line := range lines {
		if i >= 3 {
			break
		}
		stripped := strings.TrimSpace(line)
		if len(stripped) > 10 {
			return firstWords(stripped, 6)
		}
	}

	return ""
}

// firstWords returns up to n words of s, with an ellipsis once the cap is
// reached.
func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	title := strings.Join(words, " ")
	if len(words) == n {
		title += "..."
	}
	return title
}

// head returns the first n bytes of s.
func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
