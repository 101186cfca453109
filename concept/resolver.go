// Package concept resolves overlapping extracted spans into the concept
// set a document actually discusses, and tags each survivor with a coarse
// domain.
package concept

import (
	"sort"

	"github.com/c360studio/semdoc/extract"
	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

// Concept is a span that survived overlap resolution, tagged with the
// domain its label maps to.
type Concept struct {
	extract.Span
	Domain string
}

// Resolver deduplicates overlapping spans by confidence and attaches
// domains. The lookup tables are fixed at construction; a Resolver is safe
// for concurrent use.
type Resolver struct {
	domains        map[string]string
	fallbackDomain string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDomainMap replaces the label-to-domain table.
func WithDomainMap(m map[string]string) Option {
	return func(r *Resolver) {
		r.domains = m
	}
}

// WithFallbackDomain sets the domain for labels missing from the table.
func WithFallbackDomain(domain string) Option {
	return func(r *Resolver) {
		r.fallbackDomain = domain
	}
}

// NewResolver creates a Resolver with the standard vocabulary tables.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		domains:        semdoc.DomainMap,
		fallbackDomain: semdoc.DomainOther,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the overlap-free subset of spans, sorted by start
// offset. Spans overlap when their half-open intervals intersect. On
// overlap the higher-confidence span survives; an exact tie keeps the span
// accepted earlier. A candidate that overlaps several accepted spans must
// beat every one of them to displace them. Zero-length spans participate
// like any other.
func (r *Resolver) Resolve(spans []extract.Span) []Concept {
	if len(spans) == 0 {
		return []Concept{}
	}

	ordered := make([]extract.Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	accepted := make([]extract.Span, 0, len(ordered))
	for _, candidate := range ordered {
		overlapping := make([]int, 0, 2)
		for i, existing := range accepted {
			if overlaps(candidate, existing) {
				overlapping = append(overlapping, i)
			}
		}
		if len(overlapping) == 0 {
			accepted = append(accepted, candidate)
			continue
		}

		wins := true
		for _, i := range overlapping {
			if candidate.Confidence <= accepted[i].Confidence {
				wins = false
				break
			}
		}
		if !wins {
			continue
		}

		// Input is start-sorted, so appending after removal keeps
		// the accepted set ordered by start.
		kept := accepted[:0]
		skip := make(map[int]bool, len(overlapping))
		for _, i := range overlapping {
			skip[i] = true
		}
		for i, existing := range accepted {
			if !skip[i] {
				kept = append(kept, existing)
			}
		}
		accepted = append(kept, candidate)
	}

	concepts := make([]Concept, len(accepted))
	for i, s := range accepted {
		concepts[i] = Concept{Span: s, Domain: r.domainFor(s.Label)}
	}
	return concepts
}

// domainFor maps a label through the table, falling back for unknowns.
func (r *Resolver) domainFor(label string) string {
	if d, ok := r.domains[label]; ok {
		return d
	}
	return r.fallbackDomain
}

// overlaps reports whether two half-open intervals intersect.
func overlaps(a, b extract.Span) bool {
	return !(a.End <= b.Start || b.End <= a.Start)
}

// Distribution counts resolved concepts per domain.
func Distribution(concepts []Concept) map[string]int {
	dist := make(map[string]int)
	for _, c := range concepts {
		dist[c.Domain]++
	}
	return dist
}
