package semdoc

// Object property IRIs define relationships between graph nodes.
const (
	// PropDiscusses links a document to a concept it mentions.
	// Domain: ClassDocument, Range: ClassConcept
	PropDiscusses = Namespace + "discusses"

	// PropCoOccursWith links two concepts found near each other in a
	// document. Emitted once per pair, from the earlier concept to the
	// later one.
	// Domain: ClassConcept, Range: ClassConcept
	PropCoOccursWith = Namespace + "coOccursWith"
)

// Data property IRIs define literal-valued attributes.
const (
	// PropTypeConfidence is the classifier's confidence in the document
	// subtype, as an xsd:float.
	PropTypeConfidence = Namespace + "typeConfidence"

	// PropConfidence is the extractor's confidence in a concept span,
	// as an xsd:float.
	PropConfidence = Namespace + "confidence"

	// PropExtractorLabel is the raw label the extraction service assigned
	// to a concept span.
	PropExtractorLabel = Namespace + "extractorLabel"

	// PropContext is the bounded text excerpt surrounding a concept span.
	PropContext = Namespace + "context"

	// PropStartPosition is a span's starting offset, as an xsd:integer.
	PropStartPosition = Namespace + "startPosition"

	// PropEndPosition is a span's ending offset, as an xsd:integer.
	PropEndPosition = Namespace + "endPosition"

	// PropPrimaryDomain names the domain covering more than half of a
	// document's concepts, when one exists.
	PropPrimaryDomain = Namespace + "primaryDomain"

	// PropSourcePath records where a document's content came from, a file
	// path or URL.
	PropSourcePath = Namespace + "sourcePath"
)

// coversPrefix builds the per-domain coverage predicates, coversCs,
// coversMath and so on.
const coversPrefix = Namespace + "covers"

// CoversPredicate returns the coverage predicate IRI for a domain tag.
// The tag's first letter is upper-cased: "cs" yields ...#coversCs.
func CoversPredicate(domain string) string {
	if domain == "" {
		return coversPrefix
	}
	upper := domain
	if c := domain[0]; c >= 'a' && c <= 'z' {
		upper = string(c-'a'+'A') + domain[1:]
	}
	return coversPrefix + upper
}

// Feature predicate IRIs carry document classifier features.
const (
	// PropLineCount is the document's line count, as an xsd:integer.
	PropLineCount = Namespace + "lineCount"

	// PropAvgLineLength is the mean line length, as an xsd:float.
	PropAvgLineLength = Namespace + "avgLineLength"

	// PropConversationMarkers counts lines matching conversation patterns.
	PropConversationMarkers = Namespace + "conversationMarkers"

	// PropMarkdownMarkers counts lines matching markdown patterns.
	PropMarkdownMarkers = Namespace + "markdownMarkers"

	// PropStructuredMarkers counts lines matching structured-text patterns.
	PropStructuredMarkers = Namespace + "structuredMarkers"

	// PropHasHeaders records whether the document contains headings.
	PropHasHeaders = Namespace + "hasHeaders"

	// PropHasSpeakers records whether the document contains speaker turns.
	PropHasSpeakers = Namespace + "hasSpeakers"
)

// FeaturePredicate returns the predicate IRI for a classifier feature key.
// Unknown keys map into the semdoc namespace verbatim.
func FeaturePredicate(key string) string {
	return Namespace + key
}
