package types

import "fmt"

// UnknownNodeError is returned when a Factory is asked about a node it did not create.
type UnknownNodeError struct {
	Kind Kind
}

func (e *UnknownNodeError) Error() string {
	if e.Kind == "" {
		return "type node was not created by this factory"
	}
	return fmt.Sprintf("%s node was not created by this factory", e.Kind)
}

// ReferenceOutOfRangeError is returned when a Reference does not address a node.
type ReferenceOutOfRangeError struct {
	Ref Reference
	Len int
}

func (e *ReferenceOutOfRangeError) Error() string {
	return fmt.Sprintf("reference %s out of range (%d types)", e.Ref, e.Len)
}
