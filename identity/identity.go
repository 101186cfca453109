// Package identity derives stable, content-addressed identifiers for
// documents and concepts. Identifiers are pure functions of their inputs:
// identical content always yields the identical identifier, which is what
// makes re-submission idempotent and lets the same concept in two documents
// share one graph node.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"strings"
)

// shortLen is the number of hex digits kept from a content digest. Short
// enough to read, long enough that distinct inputs do not collide in
// practice.
const shortLen = 8

// DocumentID returns the identifier for a document. When stableName is
// non-empty it is used directly (path-escaped), so re-using a name
// intentionally aliases documents. Otherwise the identifier is derived
// from a digest of the content, making re-submission of identical content
// idempotent.
func DocumentID(content, stableName string) string {
	if stableName != "" {
		return url.PathEscape(stableName)
	}
	return "doc-" + digest(content)
}

// ConceptID returns the identifier for a concept. It depends only on the
// span text and extraction label, case-sensitive and unnormalized, never
// on position, confidence, or the containing document.
func ConceptID(text, label string) string {
	return digest(text + "_" + label)
}

// StemName returns the file name without directory or extension, the
// stable name used for file-based documents.
func StemName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:shortLen]
}
