package spec

import (
	"fmt"
	"strings"
)

// PathNotFoundError is returned when a path does not exist in the spec,
// trailing-slash variants included.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q not found in specification", e.Path)
}

// MethodNotFoundError is returned when a path exists but does not define the
// requested method. Available lists the standard methods the path defines.
type MethodNotFoundError struct {
	Method    string
	Path      string
	Available []string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method %s not found at %q, available methods: %s",
		e.Method, e.Path, strings.Join(e.Available, ", "))
}

// NotFoundError is returned when an input file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// MalformedSpecError wraps a JSON or YAML parse failure of a spec file.
type MalformedSpecError struct {
	Path string
	Err  error
}

func (e *MalformedSpecError) Error() string {
	return fmt.Sprintf("malformed specification %s: %v", e.Path, e.Err)
}

func (e *MalformedSpecError) Unwrap() error {
	return e.Err
}

// SchemaNotFoundError is returned when a named component schema is absent.
// Available lists the schema names the spec defines.
type SchemaNotFoundError struct {
	Name      string
	Available []string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("schema %q not found, available schemas: %s",
		e.Name, strings.Join(e.Available, ", "))
}
