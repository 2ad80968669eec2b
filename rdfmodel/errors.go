package rdfmodel

import (
	"errors"
	"fmt"
)

// Common mapping errors.
var (
	// ErrPropertyNotSet matches every *PropertyNotSetError.
	ErrPropertyNotSet = errors.New("property not set")

	// ErrNotModel is returned when a value is not a pointer to a struct
	// embedding RDFModel.
	ErrNotModel = errors.New("not a model")

	// ErrInvalidMapping is returned for mappings that cannot be resolved.
	ErrInvalidMapping = errors.New("invalid mapping")

	// ErrInvalidURI is returned for malformed references.
	ErrInvalidURI = errors.New("invalid URI reference")

	// ErrClassMismatch is returned when a subject is typed with classes
	// other than the model's class.
	ErrClassMismatch = errors.New("class mismatch")

	// ErrSubjectNotFound is returned when the graph has no triples for a subject.
	ErrSubjectNotFound = errors.New("subject not found")
)

// PropertyNotSetError reports a required mapped property left unset.
type PropertyNotSetError struct {
	// Model is the Go type name of the model.
	Model string
	// Field is the struct field name.
	Field string
	// Predicate is the predicate IRI the field maps to.
	Predicate string
}

func (e *PropertyNotSetError) Error() string {
	return fmt.Sprintf("property %s.%s (%s) is not set", e.Model, e.Field, e.Predicate)
}

// Is makes errors.Is(err, ErrPropertyNotSet) hold.
func (e *PropertyNotSetError) Is(target error) bool {
	return target == ErrPropertyNotSet
}
