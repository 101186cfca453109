// Package extract talks to the span-extraction service and normalizes its
// output. The service is a black box that labels substrings of a document;
// this package validates the shape of what comes back, attaches bounded
// context excerpts, and reports extraction statistics. Overlap resolution
// happens downstream in the concept package.
package extract

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Span is one labeled substring candidate returned by the extraction
// service. Start and End are half-open byte offsets into the preprocessed
// document text. Spans are untrusted input: possibly overlapping, possibly
// duplicated, possibly malformed.
type Span struct {
	Text       string
	Label      string
	Start      int
	End        int
	Confidence float64
	Context    string
}

// Stats summarizes one extraction pass.
type Stats struct {
	TotalSpans    int
	UniqueLabels  int
	AvgConfidence float64
	ContentLength int
}

// Result carries the sanitized spans from one extraction call together
// with the preprocessed content they index into.
type Result struct {
	Spans   []Span
	Content string
	Dropped int
	Stats   Stats
}

var (
	spaceRe      = regexp.MustCompile(`\s+`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	inlineCodeRe = regexp.MustCompile("`(.*?)`")
	codeBlockRe  = regexp.MustCompile("(?s)```.*?```")
)

// Preprocess prepares raw document text for extraction: code blocks are
// removed, markdown emphasis is unwrapped, and whitespace runs collapse to
// single spaces. Span offsets refer to this cleaned text.
func Preprocess(content string) string {
	content = codeBlockRe.ReplaceAllString(content, "")
	content = boldRe.ReplaceAllString(content, "$1")
	content = italicRe.ReplaceAllString(content, "$1")
	content = inlineCodeRe.ReplaceAllString(content, "$1")
	content = spaceRe.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

// ContextExcerpt returns the text surrounding [start,end) padded by window
// bytes on each side, aligned to rune boundaries so the excerpt stays
// valid UTF-8.
func ContextExcerpt(content string, start, end, window int) string {
	from := start - window
	if from < 0 {
		from = 0
	}
	to := end + window
	if to > len(content) {
		to = len(content)
	}
	for from > 0 && !utf8.RuneStart(content[from]) {
		from--
	}
	for to < len(content) && !utf8.RuneStart(content[to]) {
		to++
	}
	return strings.TrimSpace(content[from:to])
}

// sanitize drops malformed spans: inverted intervals and offsets outside
// the document. Valid spans pass through in their original order.
func sanitize(spans []Span, contentLen int, logger *slog.Logger) ([]Span, int) {
	valid := make([]Span, 0, len(spans))
	dropped := 0
	for _, s := range spans {
		if s.Start > s.End || s.Start < 0 || s.End > contentLen {
			dropped++
			logger.Warn("dropping malformed span",
				"label", s.Label,
				"start", s.Start,
				"end", s.End,
				"content_length", contentLen)
			continue
		}
		valid = append(valid, s)
	}
	return valid, dropped
}

// computeStats summarizes the sanitized spans.
func computeStats(spans []Span, contentLen int) Stats {
	labels := make(map[string]struct{}, len(spans))
	sum := 0.0
	for _, s := range spans {
		labels[s.Label] = struct{}{}
		sum += s.Confidence
	}
	avg := 0.0
	if len(spans) > 0 {
		avg = sum / float64(len(spans))
	}
	return Stats{
		TotalSpans:    len(spans),
		UniqueLabels:  len(labels),
		AvgConfidence: avg,
		ContentLength: contentLen,
	}
}
