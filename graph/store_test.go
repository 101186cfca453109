package graph

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/c360studio/semdoc/rdf"
	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{Path: filepath.Join(t.TempDir(), "graph.db")}
}

// docSet builds a minimal document block for insertion tests.
func docSet(id, title string) *rdf.StatementSet {
	set := rdf.NewStatementSet(semdoc.Prefixes())
	docIRI := semdoc.DocumentIRI(id)
	set.Add(docIRI, semdoc.RDFType, rdf.IRI(semdoc.ClassDocument))
	set.Add(docIRI, semdoc.DCTitle, rdf.Literal(title))
	set.Add(docIRI, semdoc.PropTypeConfidence, rdf.Float(0.8))
	return set
}

func TestOpenValidatesConfig(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Fatal("Open with empty path should fail")
	}
}

func TestOpenBootstrapsOntology(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	bootstrapped, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if bootstrapped == 0 {
		t.Fatal("fresh store has no statements; bootstrap ontology not loaded")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening a populated store must not load the ontology again.
	s, err = Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != bootstrapped {
		t.Errorf("reopened store has %d statements, want %d", n, bootstrapped)
	}
}

func TestOpenSecondWriterLocked(t *testing.T) {
	cfg := testConfig(t)

	first, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, err := Open(cfg); !errors.Is(err, ErrStoreLocked) {
		t.Errorf("second writer got %v, want ErrStoreLocked", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Closing the first writer releases the location.
	second, err := Open(cfg)
	if err != nil {
		t.Fatalf("open after release failed: %v", err)
	}
	second.Close()
}

func TestOpenReadOnlyRequiresDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReadOnly = true

	if _, err := Open(cfg); err == nil {
		t.Fatal("read-only open of a missing database should fail")
	}
}

func TestReadOnlyAlongsideWriter(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	writer, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer writer.Close()

	if _, err := writer.Insert(ctx, docSet("doc-11111111", "Writer doc")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Readers skip the lock, so they open while the writer holds it.
	ro, err := Open(Config{Path: cfg.Path, ReadOnly: true})
	if err != nil {
		t.Fatalf("read-only open failed: %v", err)
	}
	defer ro.Close()

	if !ro.ReadOnly() {
		t.Error("ReadOnly() = false on a read-only store")
	}
	if writer.ReadOnly() {
		t.Error("ReadOnly() = true on a read-write store")
	}

	n, err := ro.Count(ctx)
	if err != nil {
		t.Fatalf("read-only Count failed: %v", err)
	}
	if n == 0 {
		t.Error("read-only store sees no statements")
	}

	if _, err := ro.Insert(ctx, docSet("doc-22222222", "Nope")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("read-only Insert got %v, want ErrReadOnly", err)
	}
	if err := ro.Clear(ctx); !errors.Is(err, ErrReadOnly) {
		t.Errorf("read-only Clear got %v, want ErrReadOnly", err)
	}
}

func TestInsertIdempotent(t *testing.T) {
	ctx := context.Background()

	s, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	base, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	set := docSet("doc-33333333", "Idempotency notes")
	cpt := semdoc.ConceptIRI("idem0001")
	set.Add(cpt, semdoc.RDFType, rdf.IRI(semdoc.ClassConcept))
	set.Add(cpt, semdoc.RDFSLabel, rdf.Literal("Idempotency"))
	set.Add(semdoc.DocumentIRI("doc-33333333"), semdoc.PropDiscusses, rdf.IRI(cpt))

	res, err := s.Insert(ctx, set)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if res.Inserted != set.Len() || res.Skipped != 0 {
		t.Errorf("first insert = %+v, want %d inserted, 0 skipped", res, set.Len())
	}

	// The same set again: every row already exists, so nothing is
	// inserted and nothing counts as skipped.
	res, err = s.Insert(ctx, set)
	if err != nil {
		t.Fatalf("re-insert failed: %v", err)
	}
	if res.Inserted != 0 || res.Skipped != 0 {
		t.Errorf("re-insert = %+v, want 0 inserted, 0 skipped", res)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != base+set.Len() {
		t.Errorf("store has %d statements, want %d", n, base+set.Len())
	}

	// The document shows up once, not once per insert.
	qres, err := s.Query(ctx, Query{Kind: QueryDocumentsForConcept, Concept: "Idempotency"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if qres.Count != 1 {
		t.Errorf("query returned %d documents, want 1", qres.Count)
	}
}

func TestInsertSkipsUnexpandable(t *testing.T) {
	ctx := context.Background()

	s, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	set := rdf.NewStatementSet(semdoc.Prefixes())
	set.Add(semdoc.DocumentIRI("doc-44444444"), semdoc.RDFType, rdf.IRI(semdoc.ClassDocument))
	set.Add("nope:thing", semdoc.RDFType, rdf.IRI(semdoc.ClassDocument))
	set.Add("bareword", semdoc.RDFType, rdf.IRI(semdoc.ClassDocument))

	res, err := s.Insert(ctx, set)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if res.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", res.Inserted)
	}
	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}
}

func TestInsertExpandsPrefixedNames(t *testing.T) {
	ctx := context.Background()

	s, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	set := rdf.NewStatementSet(semdoc.Prefixes())
	set.Add("doc:doc-55555555", "rdf:type", rdf.IRI("semdoc:Document"))
	set.Add("doc:doc-55555555", "dct:title", rdf.Literal("Prefixed"))

	res, err := s.Insert(ctx, set)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if res.Inserted != 2 || res.Skipped != 0 {
		t.Fatalf("insert = %+v, want 2 inserted", res)
	}

	// The stored subject is the expanded IRI, so the bare identifier
	// finds it through the document namespace.
	out, found, err := s.ExportSubgraph(ctx, "doc-55555555")
	if err != nil {
		t.Fatalf("ExportSubgraph failed: %v", err)
	}
	if !found {
		t.Fatal("prefixed document not found under its expanded IRI")
	}
	if out == "" {
		t.Error("export is empty")
	}
}

func TestClearReloadsOntology(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	bootstrapped, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if _, err := s.Insert(ctx, docSet("doc-66666666", "Ephemeral")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != bootstrapped {
		t.Errorf("cleared store has %d statements, want the %d bootstrap statements", n, bootstrapped)
	}

	if _, found, err := s.ExportSubgraph(ctx, "doc-66666666"); err != nil || found {
		t.Errorf("document survived Clear (found=%v, err=%v)", found, err)
	}
}
