package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotLoaded is returned when resolving into a types document that was never registered.
var ErrFileNotLoaded = errors.New("types document not loaded")

// MalformedCatalogError describes untrusted catalog input that cannot be decoded.
// Offset is the node position in Document, or -1 when it does not apply.
type MalformedCatalogError struct {
	Document string
	Offset   int
	Key      string
	Reason   string
	Err      error
}

func (e *MalformedCatalogError) Error() string {
	var b strings.Builder
	b.WriteString("malformed catalog")
	if e.Document != "" {
		fmt.Fprintf(&b, " %s", e.Document)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at #/%d", e.Offset)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, " (%q)", e.Key)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *MalformedCatalogError) Unwrap() error {
	return e.Err
}
