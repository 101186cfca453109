package semdoc

// BootstrapOntology declares the core classes and properties. A read-write
// store loads it on first initialization and again after a clear.
const BootstrapOntology = `@prefix semdoc: <https://semdoc.dev/ontology#> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

# Core classes

semdoc:Document a owl:Class ;
    rdfs:label "Document" ;
    rdfs:comment "A processed text document" .

semdoc:ConversationDocument a owl:Class ;
    rdfs:subClassOf semdoc:Document ;
    rdfs:label "Conversation Document" .

semdoc:MarkdownDocument a owl:Class ;
    rdfs:subClassOf semdoc:Document ;
    rdfs:label "Markdown Document" .

semdoc:PlainTextDocument a owl:Class ;
    rdfs:subClassOf semdoc:Document ;
    rdfs:label "Plain Text Document" .

semdoc:StructuredDocument a owl:Class ;
    rdfs:subClassOf semdoc:Document ;
    rdfs:label "Structured Document" .

semdoc:Concept a owl:Class ;
    rdfs:label "Concept" ;
    rdfs:comment "A concept extracted from a document" .

# Core properties

semdoc:discusses a owl:ObjectProperty ;
    rdfs:domain semdoc:Document ;
    rdfs:range semdoc:Concept ;
    rdfs:label "discusses" .

semdoc:coOccursWith a owl:ObjectProperty ;
    rdfs:domain semdoc:Concept ;
    rdfs:range semdoc:Concept ;
    rdfs:label "co-occurs with" .

semdoc:typeConfidence a owl:DatatypeProperty ;
    rdfs:domain semdoc:Document ;
    rdfs:range xsd:float ;
    rdfs:label "type confidence" .

semdoc:confidence a owl:DatatypeProperty ;
    rdfs:domain semdoc:Concept ;
    rdfs:range xsd:float ;
    rdfs:label "confidence" .

semdoc:extractorLabel a owl:DatatypeProperty ;
    rdfs:domain semdoc:Concept ;
    rdfs:range xsd:string ;
    rdfs:label "extractor label" .

semdoc:context a owl:DatatypeProperty ;
    rdfs:domain semdoc:Concept ;
    rdfs:range xsd:string ;
    rdfs:label "context" .

semdoc:startPosition a owl:DatatypeProperty ;
    rdfs:domain semdoc:Concept ;
    rdfs:range xsd:integer ;
    rdfs:label "start position" .

semdoc:endPosition a owl:DatatypeProperty ;
    rdfs:domain semdoc:Concept ;
    rdfs:range xsd:integer ;
    rdfs:label "end position" .

semdoc:primaryDomain a owl:DatatypeProperty ;
    rdfs:domain semdoc:Document ;
    rdfs:range xsd:string ;
    rdfs:label "primary domain" .

semdoc:sourcePath a owl:DatatypeProperty ;
    rdfs:domain semdoc:Document ;
    rdfs:range xsd:string ;
    rdfs:label "source path" .
`
