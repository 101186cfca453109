package rdf_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/c360studio/semdoc/rdf"
)

func testNamespaces() map[string]string {
	return map[string]string{
		"rdf":    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":   "http://www.w3.org/2000/01/rdf-schema#",
		"xsd":    "http://www.w3.org/2001/XMLSchema#",
		"semdoc": "https://semdoc.dev/ontology#",
		"doc":    "https://semdoc.dev/document/",
	}
}

func sampleSet() *rdf.StatementSet {
	set := rdf.NewStatementSet(testNamespaces())
	set.Add("https://semdoc.dev/document/doc-abc12345",
		"http://www.w3.org/1999/02/22-rdf-syntax-ns#type",
		rdf.IRI("https://semdoc.dev/ontology#Document"))
	set.Add("https://semdoc.dev/document/doc-abc12345",
		"http://purl.org/dc/terms/title",
		rdf.Literal("Consensus Notes"))
	set.Add("https://semdoc.dev/document/doc-abc12345",
		"https://semdoc.dev/ontology#typeConfidence",
		rdf.Float(0.8))
	set.Add("https://semdoc.dev/concept/1a2b3c4d",
		"http://www.w3.org/2000/01/rdf-schema#label",
		rdf.Literal("Raft"))
	set.Add("https://semdoc.dev/concept/1a2b3c4d",
		"https://semdoc.dev/ontology#startPosition",
		rdf.Integer(10))
	set.Add("https://semdoc.dev/concept/1a2b3c4d",
		"https://semdoc.dev/ontology#hasHeaders",
		rdf.Boolean(true))
	return set
}

// key normalizes a statement for multiset comparison.
func key(st rdf.Statement) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		st.Subject, st.Predicate, st.Object.Kind, st.Object.Value, st.Object.Datatype)
}

func assertSameStatements(t *testing.T, want, got *rdf.StatementSet) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("got %d statements, want %d", got.Len(), want.Len())
	}
	counts := make(map[string]int)
	for _, st := range want.Statements {
		counts[key(st)]++
	}
	for _, st := range got.Statements {
		counts[key(st)]--
		if counts[key(st)] < 0 {
			t.Errorf("unexpected statement: %s", key(st))
		}
	}
	for k, n := range counts {
		if n > 0 {
			t.Errorf("missing statement: %s", k)
		}
	}
}

func TestSerializeFormat(t *testing.T) {
	output := rdf.NewSerializer().Serialize(sampleSet())

	if !strings.Contains(output, "@prefix semdoc: <https://semdoc.dev/ontology#> .") {
		t.Error("output should declare the semdoc prefix")
	}
	if !strings.Contains(output, "doc:doc-abc12345") {
		t.Error("output should compact document IRIs against the doc prefix")
	}
	// rdf:type renders as the Turtle shorthand
	if !strings.Contains(output, "a semdoc:Document") {
		t.Error("output should use 'a' for rdf:type")
	}
	// No prefix covers dc terms, so it stays an absolute reference
	if !strings.Contains(output, "<http://purl.org/dc/terms/title>") {
		t.Error("uncovered IRIs should render in angle brackets")
	}
	if !strings.Contains(output, `"0.8"^^xsd:float`) {
		t.Error("typed literals should carry a compacted datatype")
	}
	if !strings.Contains(output, `"Consensus Notes"`) {
		t.Error("output should contain the title literal")
	}
}

func TestSerializeDeterministic(t *testing.T) {
	set := sampleSet()
	sz := rdf.NewSerializer()
	if sz.Serialize(set) != sz.Serialize(set) {
		t.Error("serializing the same set twice produced different output")
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleSet()

	text := rdf.NewSerializer().Serialize(want)
	got, err := rdf.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v\ninput:\n%s", err, text)
	}

	assertSameStatements(t, want, got)

	for prefix, ns := range want.Namespaces {
		if got.Namespaces[prefix] != ns {
			t.Errorf("namespace %s = %q, want %q", prefix, got.Namespaces[prefix], ns)
		}
	}
}

func TestRoundTripEscapes(t *testing.T) {
	want := rdf.NewStatementSet(testNamespaces())
	want.Add("https://semdoc.dev/document/doc-esc",
		"http://www.w3.org/2000/01/rdf-schema#comment",
		rdf.Literal("line one\nline \"two\"\twith \\backslash\r"))

	text := rdf.NewSerializer().Serialize(want)
	got, err := rdf.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	assertSameStatements(t, want, got)
}

func TestRoundTripEmptySet(t *testing.T) {
	want := rdf.NewStatementSet(testNamespaces())

	got, err := rdf.Parse(rdf.NewSerializer().Serialize(want))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("round-tripped empty set has %d statements", got.Len())
	}
}

func TestParseHandWritten(t *testing.T) {
	text := `# bootstrap ontology
@prefix semdoc: <https://semdoc.dev/ontology#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

semdoc:Document a semdoc:Class ;
    rdfs:label "Document" ;
    rdfs:comment "A processed document" .

semdoc:Concept a semdoc:Class ;
    rdfs:label "Concept", "Extracted concept" ;
.
`
	set, err := rdf.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if set.Len() != 6 {
		t.Fatalf("got %d statements, want 6", set.Len())
	}

	// Comma object lists expand to one statement each
	labels := 0
	for _, st := range set.Statements {
		if st.Subject == "https://semdoc.dev/ontology#Concept" &&
			st.Predicate == "http://www.w3.org/2000/01/rdf-schema#label" {
			labels++
		}
	}
	if labels != 2 {
		t.Errorf("comma list produced %d label statements, want 2", labels)
	}

	types := 0
	for _, st := range set.Statements {
		if st.Predicate == "http://www.w3.org/1999/02/22-rdf-syntax-ns#type" {
			types++
		}
	}
	if types != 2 {
		t.Errorf("'a' shorthand produced %d type statements, want 2", types)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unsupported directive", "@base <http://example.org/> ."},
		{"unknown prefix", `unknown:thing a unknown:Class .`},
		{"unterminated literal", `<http://example.org/a> <http://example.org/p> "open .`},
		{"unterminated block", `<http://example.org/a> <http://example.org/p> <http://example.org/o>`},
		{"unterminated iri", `<http://example.org/a`},
		{"invalid escape", `<http://example.org/a> <http://example.org/p> "bad \q escape" .`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := rdf.Parse(tt.text); err == nil {
				t.Error("expected a parse error, got nil")
			}
		})
	}
}

func TestExpandIRI(t *testing.T) {
	ns := testNamespaces()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"semdoc:Document", "https://semdoc.dev/ontology#Document", false},
		{"http://example.org/x", "http://example.org/x", false},
		{"https://example.org/x", "https://example.org/x", false},
		{"nope:thing", "", true},
		{"bareword", "", true},
	}

	for _, tt := range tests {
		got, err := rdf.ExpandIRI(tt.in, ns)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ExpandIRI(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ExpandIRI(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandIRI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompactIRIPrefersLongestMatch(t *testing.T) {
	ns := map[string]string{
		"semdoc": "https://semdoc.dev/ontology#",
		"doc":    "https://semdoc.dev/",
	}

	got, ok := rdf.CompactIRI("https://semdoc.dev/ontology#Document", ns)
	if !ok || got != "semdoc:Document" {
		t.Errorf("CompactIRI = %q (ok=%v), want semdoc:Document", got, ok)
	}

	got, ok = rdf.CompactIRI("https://semdoc.dev/other", ns)
	if !ok || got != "doc:other" {
		t.Errorf("CompactIRI = %q (ok=%v), want doc:other", got, ok)
	}

	if _, ok := rdf.CompactIRI("http://unrelated.example/x", ns); ok {
		t.Error("CompactIRI matched an IRI outside every namespace")
	}
}
