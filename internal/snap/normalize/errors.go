package normalize

import "fmt"

// SchemaViolationError reports a required field with the wrong primitive
// type, a missing identity field, or a card code that does not resolve
// against the static card table. Path is the dotted location of the
// offending field inside the state tree.
type SchemaViolationError struct {
	Path string
	Want string
	Got  any
}

func (e *SchemaViolationError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("schema violation at %s: want %s, field missing", e.Path, e.Want)
	}
	return fmt.Sprintf("schema violation at %s: want %s, got %T", e.Path, e.Want, e.Got)
}

func violation(path, want string, got any) error {
	return &SchemaViolationError{Path: path, Want: want, Got: got}
}
