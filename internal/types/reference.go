package types

import "fmt"

// Reference is the offset of a node in the sequence it was issued against.
// References are only meaningful together with that sequence.
type Reference int

func (r Reference) String() string {
	return fmt.Sprintf("#/%d", int(r))
}

// InRange reports whether r addresses an element of a sequence of length n.
func (r Reference) InRange(n int) bool {
	return r >= 0 && int(r) < n
}

// CrossFileReference addresses a node in a named types document.
type CrossFileReference struct {
	File  string `json:"file"`
	Index int    `json:"ref"`
}

// Ref returns the file-local part of the reference.
func (r CrossFileReference) Ref() Reference {
	return Reference(r.Index)
}

func (r CrossFileReference) String() string {
	return fmt.Sprintf("%s#/%d", r.File, r.Index)
}

// Resolve returns the node r addresses in nodes.
func Resolve(nodes []Type, r Reference) (Type, bool) {
	if !r.InRange(len(nodes)) {
		return nil, false
	}
	return nodes[r], true
}
