package semrdf

import (
	"fmt"
	"strings"
	"sync"

	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/c360studio/semstreams/vocabulary"
)

// Namespace is the base IRI for semrdf terms.
const Namespace = "https://semrdf.dev/ontology/"

// EntityNamespace is the default base IRI for minted model subjects.
const EntityNamespace = "https://semrdf.dev/entity/"

// Model predicates describe any mapped model.
const (
	// ModelType is the class of a model instance.
	ModelType = "semrdf.model.type"

	// ModelLabel is a human-readable name.
	ModelLabel = "semrdf.model.label"

	// ModelComment is a free-text description.
	ModelComment = "semrdf.model.comment"

	// ModelSameAs links a model to an equivalent resource.
	ModelSameAs = "semrdf.model.same_as"

	// ModelSeeAlso links a model to a related resource.
	ModelSeeAlso = "semrdf.model.see_also"

	// ModelSource records the component that produced a triple.
	ModelSource = "semrdf.model.source"
)

// FOAF person predicates.
const (
	PersonName     = "foaf.person.name"
	PersonMbox     = "foaf.person.mbox"
	PersonKnows    = "foaf.person.knows"
	PersonAge      = "foaf.person.age"
	PersonHomepage = "foaf.person.homepage"
)

// Dublin Core predicates.
const (
	DCTitle       = "dc.terms.title"
	DCDescription = "dc.terms.description"
	DCCreator     = "dc.terms.creator"
	DCCreated     = "dc.terms.created"
	DCModified    = "dc.terms.modified"
	DCIdentifier  = "dc.terms.identifier"
)

var (
	iriMu sync.RWMutex
	// predicateIRIs maps dotted predicates to standard IRIs.
	predicateIRIs = map[string]string{}
)

func init() {
	// Model predicates
	Register(ModelType, rdf.Type, "Class of the model instance", "iri")
	Register(ModelLabel, rdf.Label, "Human-readable label", "string")
	Register(ModelComment, rdf.Comment, "Free-text description", "string")
	Register(ModelSameAs, rdf.OWLSameAs, "Equivalent resource", "iri")
	Register(ModelSeeAlso, rdf.SeeAlso, "Related resource", "iri")
	Register(ModelSource, Namespace+"source", "Component that produced the triple", "string")

	// FOAF
	Register(PersonName, rdf.FOAFName, "Name of a person", "string")
	Register(PersonMbox, rdf.FOAFMbox, "Personal mailbox", "iri")
	Register(PersonKnows, rdf.FOAFKnows, "A person known by this person", "iri")
	Register(PersonAge, rdf.FOAFAge, "Age in years", "int")
	Register(PersonHomepage, rdf.FOAFHomepage, "Homepage", "iri")

	// Dublin Core
	Register(DCTitle, rdf.DCTitle, "Title of the resource", "string")
	Register(DCDescription, rdf.DCDescription, "Description of the resource", "string")
	Register(DCCreator, rdf.DCCreator, "Entity responsible for making the resource", "iri")
	Register(DCCreated, rdf.DCCreated, "Creation timestamp (RFC3339)", "datetime")
	Register(DCModified, rdf.DCModified, "Last modification timestamp (RFC3339)", "datetime")
	Register(DCIdentifier, rdf.DCIdentifier, "Unambiguous identifier", "string")
}

// Register records a dotted predicate with the semstreams vocabulary and
// maps it to iri for RDF output. Re-registering a predicate replaces its IRI.
func Register(predicate, iri, description, dataType string) {
	vocabulary.Register(predicate,
		vocabulary.WithDescription(description),
		vocabulary.WithDataType(dataType),
		vocabulary.WithIRI(iri))

	iriMu.Lock()
	predicateIRIs[predicate] = iri
	iriMu.Unlock()
}

// PredicateIRI returns the standard IRI for a dotted predicate.
func PredicateIRI(predicate string) (string, bool) {
	iriMu.RLock()
	defer iriMu.RUnlock()
	iri, ok := predicateIRIs[predicate]
	return iri, ok
}

// DottedPredicate returns the dotted predicate registered for iri.
// Used when bridging graph triples back onto the semstreams wire format.
func DottedPredicate(iri string) (string, bool) {
	iriMu.RLock()
	defer iriMu.RUnlock()
	found := ""
	for dotted, mapped := range predicateIRIs {
		if mapped == iri && (found == "" || dotted < found) {
			found = dotted
		}
	}
	return found, found != ""
}

// IsDotted reports whether s has the domain.category.property shape.
func IsDotted(s string) bool {
	if rdf.IsAbsolute(s) || strings.ContainsAny(s, ":/# ") {
		return false
	}
	parts := strings.Split(s, ".")
	if len(parts) < 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// ResolvePredicate turns a mapping predicate into an absolute IRI.
// Absolute IRIs pass through, CURIEs expand against the default prefixes
// and dotted predicates resolve through the registry.
func ResolvePredicate(predicate string) (string, error) {
	if predicate == "" {
		return "", fmt.Errorf("empty predicate")
	}
	if rdf.IsAbsolute(predicate) {
		return predicate, nil
	}
	if IsDotted(predicate) {
		if iri, ok := PredicateIRI(predicate); ok {
			return iri, nil
		}
		return "", fmt.Errorf("predicate %q not registered", predicate)
	}
	if iri, ok := rdf.Expand(predicate, rdf.DefaultPrefixes()); ok {
		return iri, nil
	}
	return "", fmt.Errorf("cannot resolve predicate %q", predicate)
}
