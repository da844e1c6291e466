// Package loader reads OpenAPI documents and endpoint filter files from disk.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pb33f/libopenapi"
	"go.yaml.in/yaml/v4"

	"github.com/kolah/oasdoc/internal/spec"
)

// Result carries a loaded spec plus parse-time diagnostics.
type Result struct {
	Spec     *spec.Spec
	Version  string
	Warnings []string
}

// LoadSpec reads and decodes an OpenAPI document. Files ending in .json parse
// as JSON, everything else as YAML. A missing file surfaces as
// *spec.NotFoundError and a parse failure as *spec.MalformedSpecError.
func LoadSpec(path string) (*Result, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &spec.NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	raw, err := decode(resolved, data)
	if err != nil {
		return nil, &spec.MalformedSpecError{Path: path, Err: err}
	}

	result := &Result{Spec: spec.FromMap(raw)}
	result.Version, result.Warnings = sniffVersion(data)
	return result, nil
}

// resolvePath expands a leading tilde and follows symlinks. A dangling link
// or missing file surfaces as *spec.NotFoundError.
func resolvePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &spec.NotFoundError{Path: path}
		}
		return "", fmt.Errorf("resolving spec path: %w", err)
	}
	return resolved, nil
}

func decode(path string, data []byte) (map[string]any, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	raw, ok := normalizeKeys(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root is not an object")
	}
	return raw, nil
}

// normalizeKeys rewrites YAML maps with non-string keys (unquoted response
// codes decode as integers) into string-keyed maps, recursively.
func normalizeKeys(v any) any {
	switch n := v.(type) {
	case map[string]any:
		for k, val := range n {
			n[k] = normalizeKeys(val)
		}
		return n
	case map[any]any:
		m := make(map[string]any, len(n))
		for k, val := range n {
			m[fmt.Sprint(k)] = normalizeKeys(val)
		}
		return m
	case []any:
		for i, val := range n {
			n[i] = normalizeKeys(val)
		}
		return n
	default:
		return v
	}
}

// sniffVersion asks libopenapi for the document's OpenAPI version. Detection
// is best-effort: a document our decoder accepted but libopenapi rejects
// yields a warning, never an error.
func sniffVersion(data []byte) (string, []string) {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return "", []string{fmt.Sprintf("could not detect OpenAPI version: %v", err)}
	}

	version := doc.GetVersion()
	var warnings []string
	if !strings.HasPrefix(version, "3.") {
		warnings = append(warnings, fmt.Sprintf("unsupported OpenAPI version %s, output may be incomplete", version))
	} else if strings.HasPrefix(version, "3.0") {
		warnings = append(warnings, "OpenAPI 3.0.x detected; some 3.1 keywords are passed through unprocessed")
	}
	return version, warnings
}

// LoadEndpointsFilter parses a filter file of "METHOD path" lines. Empty
// lines, "#" comments and lines without two fields are skipped. An empty path
// argument yields an empty filter.
func LoadEndpointsFilter(path string) (*spec.EndpointFilter, error) {
	if path == "" {
		return spec.EmptyFilter(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &spec.NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading endpoints file: %w", err)
	}

	var pairs []spec.MethodPath
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pairs = append(pairs, spec.MethodPath{Method: fields[0], Path: fields[1]})
	}

	return spec.NewEndpointFilter(pairs), nil
}
