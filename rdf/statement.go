// Package rdf defines the statement model for the semantic graph and a
// Turtle-like round-trip text encoding of statement sets.
package rdf

import (
	"fmt"
	"strconv"
	"strings"
)

// ObjectKind distinguishes the three object forms a statement may carry.
type ObjectKind string

const (
	// ObjectIRI is a reference to another node.
	ObjectIRI ObjectKind = "iri"

	// ObjectLiteral is an untyped string literal.
	ObjectLiteral ObjectKind = "literal"

	// ObjectTyped is a literal tagged with a datatype IRI.
	ObjectTyped ObjectKind = "typed"
)

// Object is the object position of a statement.
type Object struct {
	Kind     ObjectKind
	Value    string
	Datatype string
}

// IRI returns a node-reference object.
func IRI(value string) Object {
	return Object{Kind: ObjectIRI, Value: value}
}

// Literal returns an untyped string literal object.
func Literal(value string) Object {
	return Object{Kind: ObjectLiteral, Value: value}
}

// Typed returns a literal object tagged with a datatype IRI.
func Typed(value, datatype string) Object {
	return Object{Kind: ObjectTyped, Value: value, Datatype: datatype}
}

// Float returns an xsd:float typed literal.
func Float(v float64) Object {
	return Typed(strconv.FormatFloat(v, 'g', -1, 64), "http://www.w3.org/2001/XMLSchema#float")
}

// Integer returns an xsd:integer typed literal.
func Integer(v int) Object {
	return Typed(strconv.Itoa(v), "http://www.w3.org/2001/XMLSchema#integer")
}

// Boolean returns an xsd:boolean typed literal.
func Boolean(v bool) Object {
	return Typed(strconv.FormatBool(v), "http://www.w3.org/2001/XMLSchema#boolean")
}

// Statement is a subject-predicate-object assertion, the graph's atomic
// storage unit. Subject and Predicate may be full IRIs or prefixed names
// resolvable through the owning set's namespace table.
type Statement struct {
	Subject   string
	Predicate string
	Object    Object
}

// StatementSet is the full set of statements derived from one document's
// processing pass, together with the namespace table needed to expand
// prefixed names. Immutable by convention once handed to a store.
type StatementSet struct {
	Statements           []Statement
	Namespaces           map[string]string
	ConceptsMapped       int
	RelationshipsCreated int
}

// NewStatementSet creates an empty set with the given namespace table.
func NewStatementSet(namespaces map[string]string) *StatementSet {
	return &StatementSet{
		Statements: make([]Statement, 0),
		Namespaces: namespaces,
	}
}

// Add appends a statement to the set.
func (s *StatementSet) Add(subject, predicate string, object Object) {
	s.Statements = append(s.Statements, Statement{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	})
}

// Len returns the number of statements in the set.
func (s *StatementSet) Len() int {
	return len(s.Statements)
}

// Expand resolves a possibly-prefixed identifier against the set's
// namespace table.
func (s *StatementSet) Expand(id string) (string, error) {
	return ExpandIRI(id, s.Namespaces)
}

// ExpandIRI resolves a prefixed name (prefix:local) to a full IRI. Full
// http(s) IRIs pass through unchanged. Unknown prefixes and bare names
// are errors; callers drop the offending statement and continue.
func ExpandIRI(id string, namespaces map[string]string) (string, error) {
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id, nil
	}
	prefix, local, ok := strings.Cut(id, ":")
	if !ok {
		return "", fmt.Errorf("not an IRI or prefixed name: %q", id)
	}
	ns, ok := namespaces[prefix]
	if !ok {
		return "", fmt.Errorf("unknown namespace prefix: %q", prefix)
	}
	return ns + local, nil
}

// CompactIRI converts a full IRI to prefixed form when a namespace in the
// table is a prefix of it. Longer namespace matches win so instance
// namespaces take precedence over their parents. Returns the input and
// false when nothing matches.
func CompactIRI(iri string, namespaces map[string]string) (string, bool) {
	best := ""
	bestPrefix := ""
	for prefix, ns := range namespaces {
		if strings.HasPrefix(iri, ns) && len(ns) > len(best) {
			best = ns
			bestPrefix = prefix
		}
	}
	if best == "" {
		return iri, false
	}
	return bestPrefix + ":" + iri[len(best):], true
}
