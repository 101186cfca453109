package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// Serializer writes statement sets in a Turtle-like text form: prefix
// declarations, then one block per subject with statements chained by
// semicolons and closed by a period. Identifiers render in prefixed form
// whenever the set's namespace table covers them.
type Serializer struct{}

// NewSerializer creates a Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Serialize encodes a statement set. Subject blocks appear in order of
// first appearance; prefix declarations are sorted for stable output.
func (sz *Serializer) Serialize(set *StatementSet) string {
	var sb strings.Builder

	prefixes := make([]string, 0, len(set.Namespaces))
	for prefix := range set.Namespaces {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", prefix, set.Namespaces[prefix])
	}
	sb.WriteString("\n")

	order := make([]string, 0)
	bySubject := make(map[string][]Statement)
	for _, st := range set.Statements {
		if _, seen := bySubject[st.Subject]; !seen {
			order = append(order, st.Subject)
		}
		bySubject[st.Subject] = append(bySubject[st.Subject], st)
	}

	for _, subject := range order {
		stmts := bySubject[subject]
		sb.WriteString(sz.term(subject, set.Namespaces))
		sb.WriteString("\n")
		for i, st := range stmts {
			sb.WriteString("    ")
			sb.WriteString(sz.predicate(st.Predicate, set.Namespaces))
			sb.WriteString(" ")
			sb.WriteString(sz.object(st.Object, set.Namespaces))
			if i < len(stmts)-1 {
				sb.WriteString(" ;\n")
			} else {
				sb.WriteString(" .\n")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// term renders a subject or object IRI, prefixed when possible.
func (sz *Serializer) term(iri string, namespaces map[string]string) string {
	if compact, ok := CompactIRI(iri, namespaces); ok {
		return compact
	}
	return "<" + iri + ">"
}

// predicate renders a predicate IRI, using the Turtle "a" shorthand for
// rdf:type.
func (sz *Serializer) predicate(iri string, namespaces map[string]string) string {
	if iri == rdfTypeIRI {
		return "a"
	}
	return sz.term(iri, namespaces)
}

// object renders the object position of a statement.
func (sz *Serializer) object(obj Object, namespaces map[string]string) string {
	switch obj.Kind {
	case ObjectIRI:
		return sz.term(obj.Value, namespaces)
	case ObjectTyped:
		dt := obj.Datatype
		if compact, ok := CompactIRI(dt, namespaces); ok {
			return fmt.Sprintf("\"%s\"^^%s", escapeString(obj.Value), compact)
		}
		return fmt.Sprintf("\"%s\"^^<%s>", escapeString(obj.Value), dt)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(obj.Value))
	}
}

const rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// escapeString escapes characters that would break a quoted literal.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
