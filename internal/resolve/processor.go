package resolve

// OriginalRefKey marks a node produced by inlining a $ref, recording the
// reference string that was flattened so formatters can still render a link.
const OriginalRefKey = "x-original-ref"

// ProcessSchema recursively expands a schema subtree, inlining resolved
// references. A node holding a $ref becomes the resolved target overlaid by
// the node's sibling keys (siblings win), tagged with OriginalRefKey, and is
// then reprocessed; expansion stops past the depth ceiling. The input is
// never mutated.
func (r *Resolver) ProcessSchema(node any) any {
	return r.processSchema(node, 0)
}

func (r *Resolver) processSchema(node any, depth int) any {
	if depth > maxDepth {
		return node
	}

	switch n := node.(type) {
	case map[string]any:
		if ref, ok := n["$ref"].(string); ok {
			resolved := r.Resolve(ref)
			if len(resolved) > 0 {
				merged := make(map[string]any, len(resolved)+len(n))
				for k, v := range resolved {
					merged[k] = v
				}
				for k, v := range n {
					if k != "$ref" {
						merged[k] = v
					}
				}
				merged[OriginalRefKey] = ref
				return r.processSchema(merged, depth+1)
			}
			// Unresolvable reference: keep the node as-is, $ref included.
		}

		processed := make(map[string]any, len(n))
		for k, v := range n {
			processed[k] = r.processSchema(v, depth+1)
		}
		return processed

	case []any:
		processed := make([]any, len(n))
		for i, item := range n {
			processed[i] = r.processSchema(item, depth+1)
		}
		return processed

	default:
		return node
	}
}
