package semdoc

// ClassMap maps extraction labels to standard ontology class IRIs.
// Labels without an entry get no additional type statement.
var ClassMap = map[string]string{
	// Computer science, mapped into CSO
	"computer_science_concept": CSONamespace + "ComputerScience",
	"algorithm":                CSONamespace + "Algorithm",
	"data_structure":           CSONamespace + "DataStructure",
	"programming_language":     CSONamespace + "ProgrammingLanguage",
	"software_system":          CSONamespace + "SoftwareSystem",
	"distributed_system":       CSONamespace + "DistributedSystem",
	"machine_learning_concept": CSONamespace + "MachineLearning",

	// Mathematics, mapped into MSC
	"mathematics_concept":  MSCNamespace + "Mathematics",
	"mathematical_theorem": MSCNamespace + "Theorem",
	"statistical_method":   MSCNamespace + "Statistics",
	"mathematical_proof":   MSCNamespace + "Proof",
	"equation":             MSCNamespace + "Equation",

	// Social sciences, mapped into schema.org
	"social_science_concept":  SchemaNamespace + "SocialScience",
	"research_method":         SchemaNamespace + "ResearchMethod",
	"psychological_concept":   SchemaNamespace + "Psychology",
	"economic_concept":        SchemaNamespace + "Economics",
	"organizational_behavior": SchemaNamespace + "Organization",

	// Philosophy, mapped into schema.org
	"philosophical_concept":   SchemaNamespace + "Philosophy",
	"ethical_principle":       SchemaNamespace + "Ethics",
	"logical_argument":        SchemaNamespace + "Logic",
	"epistemological_concept": SchemaNamespace + "Epistemology",

	// General
	"person_mention":   FOAFNamespace + "Person",
	"organization":     FOAFNamespace + "Organization",
	"academic_paper":   SchemaNamespace + "ScholarlyArticle",
	"research_finding": SchemaNamespace + "ResearchFindings",
	"methodology":      SchemaNamespace + "ResearchMethod",
	"tool":             SchemaNamespace + "SoftwareApplication",
	"framework":        SchemaNamespace + "SoftwareApplication",
}

// ClassFor returns the standard ontology class IRI for an extraction label.
func ClassFor(label string) (string, bool) {
	iri, ok := ClassMap[label]
	return iri, ok
}

// Prefixes returns the namespace table used for statement sets and Turtle
// serialization. The returned map is a fresh copy.
func Prefixes() map[string]string {
	return map[string]string{
		"semdoc":  Namespace,
		"doc":     DocumentNamespace,
		"concept": ConceptNamespace,
		"rdf":     RDFNamespace,
		"rdfs":    RDFSNamespace,
		"owl":     OWLNamespace,
		"xsd":     XSDNamespace,
		"dct":     DCTNamespace,
		"foaf":    FOAFNamespace,
		"schema":  SchemaNamespace,
		"cso":     CSONamespace,
		"msc":     MSCNamespace,
	}
}
