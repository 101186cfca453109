// Package ontology builds the statement set for a processed document:
// document metadata, per-concept attributes, derived co-occurrence edges,
// and domain coverage aggregates.
package ontology

import (
	"log/slog"
	"sort"

	"github.com/c360studio/semdoc/classify"
	"github.com/c360studio/semdoc/concept"
	"github.com/c360studio/semdoc/identity"
	"github.com/c360studio/semdoc/rdf"
	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

// DefaultWindow is the co-occurrence proximity window in bytes. Two
// concepts whose start offsets differ by less than this are considered to
// co-occur.
const DefaultWindow = 100

// Source identifies where a document's content came from.
type Source struct {
	// Name is the stable name used for document identity. Empty means
	// the identifier derives from the content digest.
	Name string

	// Path is the originating file path or URL. Recorded as a statement
	// when set; not an identity input.
	Path string
}

// Mapper turns resolved concepts and document metadata into a statement
// set. Its lookup tables are fixed at construction; a Mapper is safe for
// concurrent use.
type Mapper struct {
	namespaces map[string]string
	classes    map[string]string
	docTypes   map[classify.DocumentType]string
	window     int
	logger     *slog.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithWindow sets the co-occurrence proximity window in bytes.
func WithWindow(window int) Option {
	return func(m *Mapper) {
		m.window = window
	}
}

// WithClassMap replaces the extraction-label-to-class table.
func WithClassMap(classes map[string]string) Option {
	return func(m *Mapper) {
		m.classes = classes
	}
}

// WithNamespaces replaces the namespace table copied into each set.
func WithNamespaces(namespaces map[string]string) Option {
	return func(m *Mapper) {
		m.namespaces = namespaces
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// NewMapper creates a Mapper with the standard vocabulary tables and the
// default co-occurrence window.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		namespaces: semdoc.Prefixes(),
		classes:    semdoc.ClassMap,
		docTypes: map[classify.DocumentType]string{
			classify.TypeConversation: semdoc.ClassConversationDocument,
			classify.TypeMarkdown:     semdoc.ClassMarkdownDocument,
			classify.TypePlainText:    semdoc.ClassPlainTextDocument,
			classify.TypeStructured:   semdoc.ClassStructuredDocument,
		},
		window: DefaultWindow,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map builds the complete statement set for one document. Concepts must
// already be overlap-resolved and in resolution order. The document
// identifier derives from src.Name when present, otherwise from the
// content digest, so identical content maps to the same graph node.
func (m *Mapper) Map(content string, concepts []concept.Concept, meta classify.Metadata, src Source) *rdf.StatementSet {
	set := rdf.NewStatementSet(m.copyNamespaces())

	docIRI := semdoc.DocumentIRI(identity.DocumentID(content, src.Name))

	m.documentBlock(set, docIRI, meta, src)
	conceptIRIs := m.conceptBlocks(set, docIRI, concepts)

	relationships := m.coOccurrenceBlock(set, conceptIRIs, concepts)
	relationships += m.domainBlock(set, docIRI, concepts)

	set.ConceptsMapped = len(concepts)
	set.RelationshipsCreated = relationships

	m.logger.Debug("mapped document",
		"document", docIRI,
		"statements", set.Len(),
		"concepts", set.ConceptsMapped,
		"relationships", set.RelationshipsCreated)

	return set
}

// documentBlock emits the document's type, subtype, confidence, title,
// classifier features, and source path.
func (m *Mapper) documentBlock(set *rdf.StatementSet, docIRI string, meta classify.Metadata, src Source) {
	set.Add(docIRI, semdoc.RDFType, rdf.IRI(semdoc.ClassDocument))

	if subtype, ok := m.docTypes[meta.Type]; ok {
		set.Add(docIRI, semdoc.RDFType, rdf.IRI(subtype))
	}

	set.Add(docIRI, semdoc.PropTypeConfidence, rdf.Float(meta.Confidence))

	if meta.Title != "" {
		set.Add(docIRI, semdoc.DCTitle, rdf.Literal(meta.Title))
	}

	for _, f := range meta.Features {
		pred := semdoc.FeaturePredicate(f.Key)
		switch v := f.Value.(type) {
		case bool:
			set.Add(docIRI, pred, rdf.Boolean(v))
		case int:
			set.Add(docIRI, pred, rdf.Integer(v))
		case float64:
			set.Add(docIRI, pred, rdf.Float(v))
		default:
			m.logger.Warn("skipping feature with unsupported value type",
				"key", f.Key)
		}
	}

	if src.Path != "" {
		set.Add(docIRI, semdoc.PropSourcePath, rdf.Literal(src.Path))
	}
}

// conceptBlocks emits one block per concept plus the discusses edge from
// the document, returning the concept IRIs in resolution order.
func (m *Mapper) conceptBlocks(set *rdf.StatementSet, docIRI string, concepts []concept.Concept) []string {
	iris := make([]string, len(concepts))

	for i, c := range concepts {
		iri := semdoc.ConceptIRI(identity.ConceptID(c.Text, c.Label))
		iris[i] = iri

		set.Add(iri, semdoc.RDFType, rdf.IRI(semdoc.ClassConcept))

		if class, ok := m.classes[c.Label]; ok {
			set.Add(iri, semdoc.RDFType, rdf.IRI(class))
		}

		set.Add(iri, semdoc.RDFSLabel, rdf.Literal(c.Text))
		set.Add(iri, semdoc.PropExtractorLabel, rdf.Literal(c.Label))
		set.Add(iri, semdoc.PropConfidence, rdf.Float(c.Confidence))
		set.Add(iri, semdoc.PropStartPosition, rdf.Integer(c.Start))
		set.Add(iri, semdoc.PropEndPosition, rdf.Integer(c.End))
		set.Add(iri, semdoc.PropContext, rdf.Literal(c.Context))

		set.Add(docIRI, semdoc.PropDiscusses, rdf.IRI(iri))
	}

	return iris
}

// coOccurrenceBlock links every pair of concepts whose start offsets fall
// within the proximity window. One directed edge per pair, from the
// earlier concept to the later one.
func (m *Mapper) coOccurrenceBlock(set *rdf.StatementSet, iris []string, concepts []concept.Concept) int {
	count := 0
	for i := range concepts {
		for j := i + 1; j < len(concepts); j++ {
			distance := concepts[i].Start - concepts[j].Start
			if distance < 0 {
				distance = -distance
			}
			if distance < m.window {
				set.Add(iris[i], semdoc.PropCoOccursWith, rdf.IRI(iris[j]))
				count++
			}
		}
	}
	return count
}

// domainBlock emits each domain's share of the document's concepts, and
// names the primary domain when one covers more than half.
func (m *Mapper) domainBlock(set *rdf.StatementSet, docIRI string, concepts []concept.Concept) int {
	dist := concept.Distribution(concepts)
	total := len(concepts)
	if total == 0 {
		return 0
	}

	domains := make([]string, 0, len(dist))
	for domain := range dist {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	count := 0
	for _, domain := range domains {
		share := float64(dist[domain]) / float64(total)
		set.Add(docIRI, semdoc.CoversPredicate(domain), rdf.Float(share))
		count++

		if share > 0.5 {
			set.Add(docIRI, semdoc.PropPrimaryDomain, rdf.Literal(domain))
			count++
		}
	}
	return count
}

// copyNamespaces hands each set its own namespace table.
func (m *Mapper) copyNamespaces() map[string]string {
	ns := make(map[string]string, len(m.namespaces))
	for prefix, uri := range m.namespaces {
		ns[prefix] = uri
	}
	return ns
}
