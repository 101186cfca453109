package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/c360studio/semdoc/rdf"
	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

// ExportSubgraph renders one document plus the concepts it discusses in
// the store's text encoding. subjectID may be a bare document
// identifier or a full IRI. The bool reports whether the subject was
// present in the graph.
func (s *Store) ExportSubgraph(ctx context.Context, subjectID string) (string, bool, error) {
	subject := subjectID
	if !strings.Contains(subject, "://") {
		subject = semdoc.DocumentIRI(subject)
	}

	docStmts, err := s.statementsFor(ctx, subject)
	if err != nil {
		return "", false, err
	}
	if len(docStmts) == 0 {
		return "", false, nil
	}

	set := rdf.NewStatementSet(semdoc.Prefixes())
	concepts := make([]string, 0)
	for _, st := range docStmts {
		set.Add(st.Subject, st.Predicate, st.Object)
		if st.Predicate == semdoc.PropDiscusses && st.Object.Kind == rdf.ObjectIRI {
			concepts = append(concepts, st.Object.Value)
		}
	}
	for _, concept := range concepts {
		stmts, err := s.statementsFor(ctx, concept)
		if err != nil {
			return "", false, err
		}
		for _, st := range stmts {
			set.Add(st.Subject, st.Predicate, st.Object)
		}
	}

	return rdf.NewSerializer().Serialize(set), true, nil
}

// statementsFor returns all statements with the given subject in
// insertion order.
func (s *Store) statementsFor(ctx context.Context, subject string) ([]rdf.Statement, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT predicate, object, object_kind, datatype
		FROM statements WHERE subject = ? ORDER BY id`, subject)
	if err != nil {
		return nil, fmt.Errorf("loading statements for %s: %w", subject, err)
	}
	defer rows.Close()

	stmts := make([]rdf.Statement, 0)
	for rows.Next() {
		var predicate, object, kind, datatype string
		if err := rows.Scan(&predicate, &object, &kind, &datatype); err != nil {
			return nil, err
		}
		stmts = append(stmts, rdf.Statement{
			Subject:   subject,
			Predicate: predicate,
			Object:    rdf.Object{Kind: rdf.ObjectKind(kind), Value: object, Datatype: datatype},
		})
	}
	return stmts, rows.Err()
}
