package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

// QueryKind selects one of the store's fixed query templates. Inputs
// bind as SQL parameters; no caller-supplied text is ever interpolated
// into a template.
type QueryKind string

const (
	// QueryDocumentsForConcept finds documents that discuss the
	// concept with the given label, most confident first. Columns:
	// doc, title, confidence, domain.
	QueryDocumentsForConcept QueryKind = "documents-for-concept"

	// QueryCoOccurring finds concepts that co-occur with the concept
	// carrying the given label, ranked by the number of documents
	// discussing both. Columns: related_concept, frequency.
	QueryCoOccurring QueryKind = "co-occurring"

	// QueryCountByType counts distinct subjects of the given class.
	// Columns: count.
	QueryCountByType QueryKind = "count-by-type"
)

const (
	// DefaultLimit caps result rows when the query does not.
	DefaultLimit = 10

	// DefaultTimeout bounds execution when the query does not.
	DefaultTimeout = 30 * time.Second
)

// Query is one request against a fixed template.
type Query struct {
	Kind    QueryKind
	Concept string // concept label, for the two concept templates
	TypeIRI string // class IRI, for count-by-type
	Limit   int
	Timeout time.Duration
}

// Binding is one result row, keyed by the template's column names.
type Binding map[string]string

// Result carries query rows plus timing. Row order follows the
// template's ORDER BY.
type Result struct {
	Bindings []Binding
	Count    int
	Elapsed  time.Duration
}

// Documents that discuss a concept located by its label. Title,
// confidence, and domain are optional document attributes, so they
// join outer and default to the empty string.
const documentsForConceptSQL = `
SELECT DISTINCT d.subject AS doc,
       COALESCE(t.object, '')  AS title,
       COALESCE(c.object, '')  AS confidence,
       COALESCE(pd.object, '') AS domain
FROM statements l
JOIN statements d  ON d.predicate = ? AND d.object = l.subject AND d.object_kind = 'iri'
LEFT JOIN statements t  ON t.subject = d.subject AND t.predicate = ?
LEFT JOIN statements c  ON c.subject = d.subject AND c.predicate = ?
LEFT JOIN statements pd ON pd.subject = d.subject AND pd.predicate = ?
WHERE l.predicate = ? AND l.object = ? AND l.object_kind = 'literal'
ORDER BY CAST(confidence AS REAL) DESC, doc ASC
LIMIT ?`

// Concepts co-occurring with a concept located by its label. Edges are
// stored once in positional order, so neighbors match in either
// direction. Frequency counts distinct documents discussing both ends.
const coOccurringSQL = `
WITH matched AS (
    SELECT subject AS concept
    FROM statements
    WHERE predicate = ? AND object = ? AND object_kind = 'literal'
),
neighbors AS (
    SELECT m.concept AS concept, e.object AS neighbor
    FROM matched m
    JOIN statements e ON e.subject = m.concept
    WHERE e.predicate = ? AND e.object_kind = 'iri'
    UNION
    SELECT m.concept AS concept, e.subject AS neighbor
    FROM matched m
    JOIN statements e ON e.object = m.concept
    WHERE e.predicate = ? AND e.object_kind = 'iri'
)
SELECT nl.object AS related_concept, COUNT(DISTINCT d1.subject) AS frequency
FROM neighbors n
JOIN statements nl ON nl.subject = n.neighbor AND nl.predicate = ?
JOIN statements d1 ON d1.predicate = ? AND d1.object = n.concept
JOIN statements d2 ON d2.subject = d1.subject AND d2.predicate = ? AND d2.object = n.neighbor
GROUP BY nl.object
ORDER BY frequency DESC, related_concept ASC
LIMIT ?`

const countByTypeSQL = `
SELECT COUNT(DISTINCT subject) AS count
FROM statements
WHERE predicate = ? AND object = ? AND object_kind = 'iri'`

// Query executes one of the fixed templates under the query's timeout.
// On failure it returns the error together with a Result carrying only
// the elapsed time, so callers can still report timing. No partial rows
// are ever returned.
func (s *Store) Query(ctx context.Context, q Query) (*Result, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Timeout <= 0 {
		q.Timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, q.Timeout)
	defer cancel()

	start := time.Now()
	var (
		rows *sql.Rows
		cols []string
		err  error
	)
	switch q.Kind {
	case QueryDocumentsForConcept:
		rows, err = s.db.QueryContext(ctx, documentsForConceptSQL,
			semdoc.PropDiscusses, semdoc.DCTitle, semdoc.PropTypeConfidence,
			semdoc.PropPrimaryDomain, semdoc.RDFSLabel, q.Concept, q.Limit)
		cols = []string{"doc", "title", "confidence", "domain"}
	case QueryCoOccurring:
		rows, err = s.db.QueryContext(ctx, coOccurringSQL,
			semdoc.RDFSLabel, q.Concept,
			semdoc.PropCoOccursWith, semdoc.PropCoOccursWith,
			semdoc.RDFSLabel, semdoc.PropDiscusses, semdoc.PropDiscusses,
			q.Limit)
		cols = []string{"related_concept", "frequency"}
	case QueryCountByType:
		rows, err = s.db.QueryContext(ctx, countByTypeSQL,
			semdoc.RDFType, q.TypeIRI)
		cols = []string{"count"}
	default:
		return &Result{}, fmt.Errorf("unknown query kind: %q", q.Kind)
	}
	if err != nil {
		return &Result{Elapsed: time.Since(start)}, fmt.Errorf("executing %s query: %w", q.Kind, err)
	}
	defer rows.Close()

	bindings, err := scanBindings(rows, cols)
	elapsed := time.Since(start)
	if err != nil {
		return &Result{Elapsed: elapsed}, fmt.Errorf("reading %s results: %w", q.Kind, err)
	}
	return &Result{Bindings: bindings, Count: len(bindings), Elapsed: elapsed}, nil
}

// scanBindings reads all rows into string-valued bindings.
func scanBindings(rows *sql.Rows, cols []string) ([]Binding, error) {
	bindings := make([]Binding, 0)
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for rows.Next() {
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		binding := make(Binding, len(cols))
		for i, col := range cols {
			binding[col] = columnString(vals[i])
		}
		bindings = append(bindings, binding)
	}
	return bindings, rows.Err()
}

func columnString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Stats aggregates store-wide counts.
type Stats struct {
	TotalDocuments int `json:"total_documents"`
	TotalConcepts  int `json:"total_concepts"`
	Conversations  int `json:"conversations"`
	MarkdownDocs   int `json:"markdown_docs"`
}

// Stats counts documents and concepts by class. Counts that fail are
// reported as zero; the joined error carries the failures so callers
// can surface them without losing the rest.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var errs []error

	count := func(name, classIRI string, dst *int) {
		res, err := s.Query(ctx, Query{Kind: QueryCountByType, TypeIRI: classIRI})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		if len(res.Bindings) > 0 {
			*dst, _ = strconv.Atoi(res.Bindings[0]["count"])
		}
	}

	count("total_documents", semdoc.ClassDocument, &stats.TotalDocuments)
	count("total_concepts", semdoc.ClassConcept, &stats.TotalConcepts)
	count("conversations", semdoc.ClassConversationDocument, &stats.Conversations)
	count("markdown_docs", semdoc.ClassMarkdownDocument, &stats.MarkdownDocs)

	return stats, errors.Join(errs...)
}
