// Package semdoc defines the semdoc ontology vocabulary: namespace IRIs,
// document and concept classes, predicates, the extraction label set, and
// the mappings from extraction labels to standard ontology classes and
// coarse domains.
//
// All terms are exported as string constants so that statement builders and
// query templates share one source of truth. The package also carries the
// bootstrap ontology loaded into a fresh graph store.
package semdoc
