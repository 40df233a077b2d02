package schema

import (
	"errors"
	"fmt"

	"github.com/conduit-lang/typegraph/internal/types"
)

// ErrResourceNotFound is returned for a resource identifier missing from the index.
var ErrResourceNotFound = errors.New("resource type not found")

// UnsupportedShapeError is returned for type shapes the projector does not
// translate, such as discriminated objects or unions of objects.
type UnsupportedShapeError struct {
	Shape string
	Ref   types.Reference
	Path  string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported type shape %s at %s (schema path %s)", e.Shape, e.Ref, e.Path)
}

// DanglingReferenceError is returned when a reference does not address a node.
type DanglingReferenceError struct {
	Ref  types.Reference
	Len  int
	Path string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference %s (%d types) at schema path %s", e.Ref, e.Len, e.Path)
}

// DepthExceededError is returned when nesting goes beyond the configured maximum depth.
type DepthExceededError struct {
	MaxDepth int
	Path     string
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("schema nesting exceeds %d levels at %s", e.MaxDepth, e.Path)
}

// ResourceError attaches the resource identifier to a failure during batch projection.
type ResourceError struct {
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
