package yamltraverse

import "strings"

// CanonPath removes "." and ".." segments textually: ".." consumes the
// preceding component, a leading ".." is stripped (there is nothing above
// the document root to ascend into), and a leading "/" is stripped.
func CanonPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	segments := strings.Split(path, "/")

	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case ".", "":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}
