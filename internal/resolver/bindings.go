package resolver

import (
	"fmt"
	"strings"

	"tela/internal/yamlmodel"
)

// BuildEnvBindings serialises a completed match into "KEY=VALUE" strings
// ready to export into the test's environment. Each Binding already
// carries its own fully-qualified path (built during matching, including
// recursion into object children), so this is a flat pass with no
// re-derivation of tree structure.
func BuildEnvBindings(bindings []Binding, reg *Registry) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		prefix := envPrefix(b.Path, reg)
		if b.Wildcard {
			prefix = fmt.Sprintf("%s_%d", prefix, b.WildcardIndex)
		}

		if b.IsObject {
			id := ""
			if b.Res != nil && b.Res.Value != nil {
				if idEntry := yamlmodel.FindMapEntry(b.Res.Value, "_id"); idEntry != nil && idEntry.Value != nil {
					id = idEntry.Value.Content
				}
			}
			out = append(out, prefix+"="+id)
			continue
		}
		if b.Res != nil && b.Res.Value != nil {
			out = append(out, prefix+"="+b.Res.Value.Content)
		}
	}
	return out
}

// envPrefix turns a slash-separated attribute path into the TELA_ prefix
// the binding is emitted under. A segment naming an object instance (e.g.
// "dasd my_dasd") keeps its id portion intact (space turned into
// underscore) and upper-cases only the leading type word, mirroring
// extend_prefix's "type portion of key" rule; registry lookups use the
// type word alone, since that is what .types patterns are written against.
// The implicit local-system key is special-cased to just "system", the
// same way extend_prefix's sys_short() drops "localhost" so the top-level
// binding reads TELA_SYSTEM rather than TELA_SYSTEM_localhost.
func envPrefix(path string, reg *Registry) string {
	path = strings.TrimPrefix(path, "/")
	segs := strings.Split(path, "/")

	lookupPath := ""
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg == systemLocalhostKey {
			seg = "system"
		}
		word := typeWord(seg)
		lookupPath += "/" + word
		rule := reg.Lookup(lookupPath)

		ident := sanitizeIdent(word)
		if !rule.NoUpper {
			ident = strings.ToUpper(ident)
		}
		if id := strings.TrimPrefix(seg, word); id != "" {
			ident += sanitizeIdent(id)
		}
		parts = append(parts, ident)
	}
	return "TELA_" + strings.Join(parts, "_")
}

func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
