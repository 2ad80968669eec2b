package rdfmodel

import (
	"errors"
	"fmt"
	"reflect"
)

// Validate checks that every required mapped property of v is set.
// All missing properties are reported, joined.
func Validate(v any) error {
	rv, s, err := modelValue(v)
	if err != nil {
		return err
	}
	return validateValue(rv, s)
}

func validateValue(rv reflect.Value, s *Schema) error {
	var errs []error
	for _, f := range s.Fields {
		if f.Required && isUnset(rv.FieldByIndex(f.index)) {
			errs = append(errs, notSet(s, f))
		}
	}
	return errors.Join(errs...)
}

// Property returns the value of a mapped field, dereferencing pointers.
// An unset field yields a *PropertyNotSetError.
func Property(v any, field string) (any, error) {
	rv, s, err := modelValue(v)
	if err != nil {
		return nil, err
	}
	f, ok := s.Field(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no mapped field %q", ErrInvalidMapping, s.Name, field)
	}
	fv := rv.FieldByIndex(f.index)
	if isUnset(fv) {
		return nil, notSet(s, f)
	}
	if fv.Kind() == reflect.Pointer {
		fv = fv.Elem()
	}
	return fv.Interface(), nil
}

func notSet(s *Schema, f FieldMapping) *PropertyNotSetError {
	return &PropertyNotSetError{Model: s.Name, Field: f.Field, Predicate: f.PredicateIRI}
}

// isUnset treats zero values, nil pointers and empty slices as unset.
func isUnset(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice:
		return v.Len() == 0
	case reflect.Pointer:
		return v.IsNil()
	}
	return v.IsZero()
}

// modelValue returns the addressable struct value behind v.
func modelValue(v any) (reflect.Value, *Schema, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Value{}, nil, fmt.Errorf("%w: nil", ErrNotModel)
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, nil, fmt.Errorf("%w: nil %s", ErrNotModel, rv.Type())
		}
		rv = rv.Elem()
	} else {
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		rv = cp
	}
	s, err := schemaFor(rv.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return rv, s, nil
}
