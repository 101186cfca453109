package semdoc

// Namespace is the base IRI prefix for semdoc ontology terms.
const Namespace = "https://semdoc.dev/ontology#"

// DocumentNamespace is the base IRI for document instances.
const DocumentNamespace = "https://semdoc.dev/document/"

// ConceptNamespace is the base IRI for concept instances.
const ConceptNamespace = "https://semdoc.dev/concept/"

// Standard vocabulary namespaces referenced by mappings and serialization.
const (
	// RDFNamespace is the RDF syntax namespace.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// RDFSNamespace is the RDF Schema namespace.
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"

	// OWLNamespace is the Web Ontology Language namespace.
	OWLNamespace = "http://www.w3.org/2002/07/owl#"

	// XSDNamespace is the XML Schema datatype namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	// DCTNamespace is the Dublin Core terms namespace.
	DCTNamespace = "http://purl.org/dc/terms/"

	// FOAFNamespace is the Friend of a Friend namespace.
	FOAFNamespace = "http://xmlns.com/foaf/0.1/"

	// SchemaNamespace is the schema.org namespace.
	SchemaNamespace = "http://schema.org/"

	// CSONamespace is the Computer Science Ontology namespace.
	CSONamespace = "http://cso.kmi.open.ac.uk/"

	// MSCNamespace is the Mathematics Subject Classification namespace.
	MSCNamespace = "http://msc2010.org/"
)

// Core RDF/RDFS/OWL term IRIs.
const (
	// RDFType is the rdf:type predicate.
	RDFType = RDFNamespace + "type"

	// RDFSLabel is the rdfs:label predicate.
	RDFSLabel = RDFSNamespace + "label"

	// RDFSComment is the rdfs:comment predicate.
	RDFSComment = RDFSNamespace + "comment"

	// RDFSSubClassOf is the rdfs:subClassOf predicate.
	RDFSSubClassOf = RDFSNamespace + "subClassOf"

	// RDFSDomain is the rdfs:domain predicate.
	RDFSDomain = RDFSNamespace + "domain"

	// RDFSRange is the rdfs:range predicate.
	RDFSRange = RDFSNamespace + "range"

	// OWLClass is the owl:Class class.
	OWLClass = OWLNamespace + "Class"

	// OWLObjectProperty is the owl:ObjectProperty class.
	OWLObjectProperty = OWLNamespace + "ObjectProperty"

	// OWLDatatypeProperty is the owl:DatatypeProperty class.
	OWLDatatypeProperty = OWLNamespace + "DatatypeProperty"

	// DCTitle is the Dublin Core title predicate.
	DCTitle = DCTNamespace + "title"
)

// XSD datatype IRIs used by typed literals.
const (
	// XSDFloat is the xsd:float datatype.
	XSDFloat = XSDNamespace + "float"

	// XSDInteger is the xsd:integer datatype.
	XSDInteger = XSDNamespace + "integer"

	// XSDBoolean is the xsd:boolean datatype.
	XSDBoolean = XSDNamespace + "boolean"
)

// Class IRIs for documents and concepts.
const (
	// ClassDocument represents any processed text document.
	ClassDocument = Namespace + "Document"

	// ClassConversationDocument represents a transcript or chat log.
	ClassConversationDocument = Namespace + "ConversationDocument"

	// ClassMarkdownDocument represents markdown-formatted text.
	ClassMarkdownDocument = Namespace + "MarkdownDocument"

	// ClassPlainTextDocument represents unstructured prose.
	ClassPlainTextDocument = Namespace + "PlainTextDocument"

	// ClassStructuredDocument represents list- or table-like text.
	ClassStructuredDocument = Namespace + "StructuredDocument"

	// ClassConcept represents an extracted concept node.
	ClassConcept = Namespace + "Concept"
)

// DocumentIRI returns the full IRI for a document identifier.
func DocumentIRI(id string) string {
	return DocumentNamespace + id
}

// ConceptIRI returns the full IRI for a concept identifier.
func ConceptIRI(id string) string {
	return ConceptNamespace + id
}
