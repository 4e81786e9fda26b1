package vdom

import (
	"errors"
	"fmt"
)

// Sentinel errors for node construction and the static markup fallback.
// All are recoverable: the caller retries with corrected input.
var (
	// ErrInvalidChildKind reports a child that is neither a node, text, nor nil.
	ErrInvalidChildKind = errors.New("invalid child kind")

	// ErrInvalidImportRef reports an import reference with an empty package.
	ErrInvalidImportRef = errors.New("invalid import reference")

	// ErrUnrenderableChild reports a node with no static markup representation,
	// such as a dynamically imported component.
	ErrUnrenderableChild = errors.New("child has no markup representation")
)

func invalidChild(tag string, index int, child any) error {
	return fmt.Errorf("%w: <%s> child %d is %T", ErrInvalidChildKind, tag, index, child)
}

func invalidImportRef(tag string) error {
	return fmt.Errorf("%w: <%s> import has empty package", ErrInvalidImportRef, tag)
}
