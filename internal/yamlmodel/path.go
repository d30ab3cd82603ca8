package yamlmodel

import "strings"

// pathSentinel stands in for a literal "/" inside one path component, so
// that splitting a path string on "/" never confuses a key's own slash with
// a path separator. Mapping keys are free to contain "/"; paths are not.
const pathSentinel = "\xff"

// EncodeKeyForPath returns key with any literal "/" replaced by the path
// sentinel, suitable for splicing into a path string as one component.
func EncodeKeyForPath(key string) string {
	if !strings.Contains(key, "/") {
		return key
	}
	return strings.ReplaceAll(key, "/", pathSentinel)
}

// DecodePath restores sentinel bytes back to literal "/" for display,
// leaving real path separators untouched.
func DecodePath(path string) string {
	if !strings.Contains(path, pathSentinel) {
		return path
	}
	return strings.ReplaceAll(path, pathSentinel, "/")
}

// decodeComponent reverses EncodeKeyForPath for a single path component.
func decodeComponent(c string) string {
	if !strings.Contains(c, pathSentinel) {
		return c
	}
	return strings.ReplaceAll(c, pathSentinel, "/")
}

// JoinPath builds a path string from raw (unencoded) key components.
func JoinPath(components ...string) string {
	encoded := make([]string, len(components))
	for i, c := range components {
		encoded[i] = EncodeKeyForPath(c)
	}
	return strings.Join(encoded, "/")
}

// GetNode descends root mapping-by-mapping following path's components,
// marking every traversed mapping entry Handled. A trailing "/" component
// dereferences through the final key to its value node. Returns (nil,
// false) if any component is absent.
func GetNode(root *Node, path string) (*Node, bool) {
	if path == "" {
		return root, true
	}

	trailingSlash := strings.HasSuffix(path, "/")
	trimmed := path
	if trailingSlash {
		trimmed = path[:len(path)-1]
	}

	var components []string
	if trimmed != "" {
		components = strings.Split(trimmed, "/")
	}

	cur := root
	var entry *Node
	for _, raw := range components {
		want := decodeComponent(raw)
		entry = FindMapEntry(cur, want)
		if entry == nil {
			return nil, false
		}
		entry.Handled = true
		cur = entry.Value
	}

	if entry == nil {
		// path was just "/" (or a bare encoded empty component): address root.
		if trailingSlash {
			return root, true
		}
		return root, true
	}

	if trailingSlash {
		if entry.Value != nil {
			entry.Value.Handled = true
		}
		return entry.Value, true
	}
	return entry, true
}

// GetScalar is GetNode, additionally requiring the resolved node be a
// Scalar. Returns (nil, false) if the path is absent or resolves to a
// non-scalar node.
func GetScalar(root *Node, path string) (*Node, bool) {
	n, ok := GetNode(root, path)
	if !ok || n == nil {
		return nil, false
	}
	if n.Kind != Scalar {
		return nil, false
	}
	return n, true
}
