package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/c360studio/semdoc/rdf"
	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

var (
	testDocA = semdoc.DocumentIRI("doc-aaaa0001")
	testDocB = semdoc.DocumentIRI("doc-bbbb0002")
	raftIRI  = semdoc.ConceptIRI("raft0001")
	paxosIRI = semdoc.ConceptIRI("paxos002")
)

// populatedStore opens a fresh store holding two documents: A discusses
// Raft and Paxos (which co-occur), B discusses only Raft.
func populatedStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	set := rdf.NewStatementSet(semdoc.Prefixes())

	set.Add(testDocA, semdoc.RDFType, rdf.IRI(semdoc.ClassDocument))
	set.Add(testDocA, semdoc.RDFType, rdf.IRI(semdoc.ClassMarkdownDocument))
	set.Add(testDocA, semdoc.DCTitle, rdf.Literal("Raft Consensus Notes"))
	set.Add(testDocA, semdoc.PropTypeConfidence, rdf.Float(0.9))
	set.Add(testDocA, semdoc.PropPrimaryDomain, rdf.Literal(semdoc.DomainCS))

	set.Add(testDocB, semdoc.RDFType, rdf.IRI(semdoc.ClassDocument))
	set.Add(testDocB, semdoc.RDFType, rdf.IRI(semdoc.ClassConversationDocument))
	set.Add(testDocB, semdoc.DCTitle, rdf.Literal("Paxos Chat"))
	set.Add(testDocB, semdoc.PropTypeConfidence, rdf.Float(0.7))

	set.Add(raftIRI, semdoc.RDFType, rdf.IRI(semdoc.ClassConcept))
	set.Add(raftIRI, semdoc.RDFSLabel, rdf.Literal("Raft"))
	set.Add(paxosIRI, semdoc.RDFType, rdf.IRI(semdoc.ClassConcept))
	set.Add(paxosIRI, semdoc.RDFSLabel, rdf.Literal("Paxos"))

	set.Add(testDocA, semdoc.PropDiscusses, rdf.IRI(raftIRI))
	set.Add(testDocA, semdoc.PropDiscusses, rdf.IRI(paxosIRI))
	set.Add(testDocB, semdoc.PropDiscusses, rdf.IRI(raftIRI))

	// The edge is stored once, in positional order.
	set.Add(raftIRI, semdoc.PropCoOccursWith, rdf.IRI(paxosIRI))

	if _, err := s.Insert(context.Background(), set); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	return s
}

func TestQueryDocumentsForConcept(t *testing.T) {
	s := populatedStore(t)

	res, err := s.Query(context.Background(), Query{
		Kind:    QueryDocumentsForConcept,
		Concept: "Raft",
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if res.Count != 2 {
		t.Fatalf("got %d documents, want 2", res.Count)
	}

	// Most confident first
	first := res.Bindings[0]
	if first["doc"] != testDocA {
		t.Errorf("first doc = %s, want %s", first["doc"], testDocA)
	}
	if first["title"] != "Raft Consensus Notes" {
		t.Errorf("first title = %q", first["title"])
	}
	if first["confidence"] != "0.9" {
		t.Errorf("first confidence = %q, want 0.9", first["confidence"])
	}
	if first["domain"] != semdoc.DomainCS {
		t.Errorf("first domain = %q, want %s", first["domain"], semdoc.DomainCS)
	}

	second := res.Bindings[1]
	if second["doc"] != testDocB {
		t.Errorf("second doc = %s, want %s", second["doc"], testDocB)
	}
	// B has no primary domain; optional columns default to empty
	if second["domain"] != "" {
		t.Errorf("second domain = %q, want empty", second["domain"])
	}
}

func TestQueryDocumentsForConceptUnknownLabel(t *testing.T) {
	s := populatedStore(t)

	res, err := s.Query(context.Background(), Query{
		Kind:    QueryDocumentsForConcept,
		Concept: "Quorum",
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if res.Count != 0 || len(res.Bindings) != 0 {
		t.Errorf("unknown label returned %d bindings, want 0", len(res.Bindings))
	}
}

func TestQueryLimit(t *testing.T) {
	s := populatedStore(t)

	res, err := s.Query(context.Background(), Query{
		Kind:    QueryDocumentsForConcept,
		Concept: "Raft",
		Limit:   1,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("got %d documents, want 1", res.Count)
	}
	if res.Bindings[0]["doc"] != testDocA {
		t.Errorf("limited query kept %s, want the most confident document", res.Bindings[0]["doc"])
	}
}

func TestQueryDefaultLimit(t *testing.T) {
	ctx := context.Background()

	s, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	concept := semdoc.ConceptIRI("popular1")
	set := rdf.NewStatementSet(semdoc.Prefixes())
	set.Add(concept, semdoc.RDFSLabel, rdf.Literal("Popular"))
	for i := 0; i < DefaultLimit+5; i++ {
		doc := semdoc.DocumentIRI(fmt.Sprintf("doc-%08d", i))
		set.Add(doc, semdoc.RDFType, rdf.IRI(semdoc.ClassDocument))
		set.Add(doc, semdoc.PropDiscusses, rdf.IRI(concept))
	}
	if _, err := s.Insert(ctx, set); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	res, err := s.Query(ctx, Query{Kind: QueryDocumentsForConcept, Concept: "Popular"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if res.Count != DefaultLimit {
		t.Errorf("unlimited query returned %d rows, want the default cap %d", res.Count, DefaultLimit)
	}
}

func TestQueryCoOccurring(t *testing.T) {
	s := populatedStore(t)

	// The edge is raft -> paxos, but lookups work from either end.
	tests := []struct {
		concept string
		related string
	}{
		{"Raft", "Paxos"},
		{"Paxos", "Raft"},
	}

	for _, tt := range tests {
		t.Run(tt.concept, func(t *testing.T) {
			res, err := s.Query(context.Background(), Query{
				Kind:    QueryCoOccurring,
				Concept: tt.concept,
			})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if res.Count != 1 {
				t.Fatalf("got %d co-occurring concepts, want 1", res.Count)
			}
			b := res.Bindings[0]
			if b["related_concept"] != tt.related {
				t.Errorf("related_concept = %q, want %q", b["related_concept"], tt.related)
			}
			// Only document A discusses both ends
			if b["frequency"] != "1" {
				t.Errorf("frequency = %q, want 1", b["frequency"])
			}
		})
	}
}

func TestQueryCountByType(t *testing.T) {
	s := populatedStore(t)

	tests := []struct {
		typeIRI string
		want    string
	}{
		{semdoc.ClassDocument, "2"},
		{semdoc.ClassMarkdownDocument, "1"},
		{semdoc.ClassConversationDocument, "1"},
		{semdoc.ClassConcept, "2"},
	}

	for _, tt := range tests {
		res, err := s.Query(context.Background(), Query{Kind: QueryCountByType, TypeIRI: tt.typeIRI})
		if err != nil {
			t.Fatalf("Query(%s) failed: %v", tt.typeIRI, err)
		}
		if res.Count != 1 {
			t.Fatalf("count query returned %d rows, want 1", res.Count)
		}
		if got := res.Bindings[0]["count"]; got != tt.want {
			t.Errorf("count for %s = %s, want %s", tt.typeIRI, got, tt.want)
		}
	}
}

func TestQueryUnknownKind(t *testing.T) {
	s := populatedStore(t)

	if _, err := s.Query(context.Background(), Query{Kind: "bogus"}); err == nil {
		t.Fatal("unknown query kind should fail")
	}
}

func TestQueryFailureStillReportsTiming(t *testing.T) {
	s, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.Close()

	// A closed handle makes every query fail; callers still get a
	// result value carrying the elapsed time.
	res, err := s.Query(context.Background(), Query{
		Kind:    QueryDocumentsForConcept,
		Concept: "Raft",
	})
	if err == nil {
		t.Fatal("query on a closed store should fail")
	}
	if res == nil {
		t.Fatal("failed query returned a nil result")
	}
	if len(res.Bindings) != 0 {
		t.Errorf("failed query returned %d bindings, want 0", len(res.Bindings))
	}
}

func TestStats(t *testing.T) {
	s := populatedStore(t)

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalDocuments != 2 {
		t.Errorf("TotalDocuments = %d, want 2", stats.TotalDocuments)
	}
	if stats.TotalConcepts != 2 {
		t.Errorf("TotalConcepts = %d, want 2", stats.TotalConcepts)
	}
	if stats.Conversations != 1 {
		t.Errorf("Conversations = %d, want 1", stats.Conversations)
	}
	if stats.MarkdownDocs != 1 {
		t.Errorf("MarkdownDocs = %d, want 1", stats.MarkdownDocs)
	}
}
