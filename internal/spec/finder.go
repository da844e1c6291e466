package spec

import (
	"sort"
	"strings"
)

// StandardMethods is the canonical operation key order used when iterating a
// path item. Keys outside this set (extensions, parameters) are skipped.
var StandardMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

func isStandardMethod(method string) bool {
	upper := strings.ToUpper(method)
	for _, m := range StandardMethods {
		if m == upper {
			return true
		}
	}
	return false
}

// Find looks up a single operation by path and method. The path is matched
// with trailing-slash tolerance: the exact path first, then the opposite
// variant. The returned Endpoint carries whichever path variant matched.
func Find(s *Spec, path, method string) (Endpoint, error) {
	endpointPath := strings.TrimRight(path, "/")

	methods, ok := s.Paths[endpointPath]
	if !ok {
		alt := endpointPath + "/"
		if methods, ok = s.Paths[alt]; ok {
			endpointPath = alt
		}
	}
	if !ok {
		return Endpoint{}, &PathNotFoundError{Path: path}
	}

	operation, ok := methods[strings.ToLower(method)].(map[string]any)
	if !ok {
		var available []string
		for m := range methods {
			if isStandardMethod(m) {
				available = append(available, strings.ToUpper(m))
			}
		}
		sort.Strings(available)
		return Endpoint{}, &MethodNotFoundError{
			Method:    strings.ToUpper(method),
			Path:      endpointPath,
			Available: available,
		}
	}

	return NewEndpoint(endpointPath, method, operation), nil
}

// ListAll returns every operation of the spec, paths sorted and methods in
// canonical order so output is deterministic.
func ListAll(s *Spec) []Endpoint {
	var endpoints []Endpoint
	for _, path := range sortedKeys(s.Paths) {
		methods := s.Paths[path]
		for _, method := range StandardMethods {
			operation, ok := methods[strings.ToLower(method)].(map[string]any)
			if !ok {
				continue
			}
			endpoints = append(endpoints, NewEndpoint(path, method, operation))
		}
	}
	return endpoints
}
