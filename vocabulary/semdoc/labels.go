package semdoc

// Domain tags group extraction labels into coarse subject areas.
const (
	// DomainCS covers computer science labels.
	DomainCS = "cs"
	// DomainMath covers mathematics labels.
	DomainMath = "math"
	// DomainSocial covers social science labels.
	DomainSocial = "social"
	// DomainPhilosophy covers philosophy labels.
	DomainPhilosophy = "philosophy"
	// DomainPeople covers person mentions.
	DomainPeople = "people"
	// DomainEntities covers named organizations.
	DomainEntities = "entities"
	// DomainReferences covers cited works.
	DomainReferences = "references"
	// DomainFindings covers research findings.
	DomainFindings = "findings"
	// DomainMethods covers methodologies.
	DomainMethods = "methods"
	// DomainTools covers tools and frameworks.
	DomainTools = "tools"
	// DomainOther is the fallback for labels with no domain mapping.
	DomainOther = "other"
)

// ExtractionLabels is the label vocabulary handed to the span-extraction
// service. Order matters only for readability.
var ExtractionLabels = []string{
	// Computer science
	"computer_science_concept",
	"algorithm",
	"data_structure",
	"programming_language",
	"software_system",
	"distributed_system",
	"machine_learning_concept",

	// Mathematics
	"mathematics_concept",
	"mathematical_theorem",
	"statistical_method",
	"mathematical_proof",
	"equation",

	// Social sciences
	"social_science_concept",
	"research_method",
	"psychological_concept",
	"economic_concept",
	"organizational_behavior",

	// Philosophy
	"philosophical_concept",
	"ethical_principle",
	"logical_argument",
	"epistemological_concept",

	// General
	"person_mention",
	"organization",
	"academic_paper",
	"research_finding",
	"methodology",
	"tool",
	"framework",
}

// DomainMap maps extraction labels to domain tags.
var DomainMap = map[string]string{
	"computer_science_concept": DomainCS,
	"algorithm":                DomainCS,
	"data_structure":           DomainCS,
	"programming_language":     DomainCS,
	"software_system":          DomainCS,
	"distributed_system":       DomainCS,
	"machine_learning_concept": DomainCS,

	"mathematics_concept":  DomainMath,
	"mathematical_theorem": DomainMath,
	"statistical_method":   DomainMath,
	"mathematical_proof":   DomainMath,
	"equation":             DomainMath,

	"social_science_concept":  DomainSocial,
	"research_method":         DomainSocial,
	"psychological_concept":   DomainSocial,
	"economic_concept":        DomainSocial,
	"organizational_behavior": DomainSocial,

	"philosophical_concept":   DomainPhilosophy,
	"ethical_principle":       DomainPhilosophy,
	"logical_argument":        DomainPhilosophy,
	"epistemological_concept": DomainPhilosophy,

	"person_mention":   DomainPeople,
	"organization":     DomainEntities,
	"academic_paper":   DomainReferences,
	"research_finding": DomainFindings,
	"methodology":      DomainMethods,
	"tool":             DomainTools,
	"framework":        DomainTools,
}

// DomainFor returns the domain tag for an extraction label, or DomainOther
// when the label has no mapping.
func DomainFor(label string) string {
	if d, ok := DomainMap[label]; ok {
		return d
	}
	return DomainOther
}
