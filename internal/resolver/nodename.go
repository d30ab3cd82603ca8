package resolver

import (
	"fmt"
	"strings"

	"tela/internal/yamlmodel"
)

// NormalizeNames rewrites, for every object binding, the resource node's
// key to carry the requirement-side name (wildcard instances get the type
// word plus their 0-based index, in insertion order) and inserts an "_id"
// child holding the resource-side identifier that was overwritten.
func NormalizeNames(bindings []Binding) {
	for _, b := range bindings {
		if !b.IsObject || b.Res == nil || b.Res.Key == nil {
			continue
		}
		originalID := instanceName(b.Res.Key.Content)

		newKey := b.Req.Key.Content
		if b.Wildcard {
			newKey = fmt.Sprintf("%s %d", typeWord(b.Req.Key.Content), b.WildcardIndex)
		}
		b.Res.Key.Content = newKey

		idEntry := yamlmodel.NewMappingEntry(yamlmodel.NewScalar("_id"), yamlmodel.NewScalar(originalID))
		b.Res.Value = yamlmodel.Append(idEntry, b.Res.Value)
	}
}

// instanceName returns the portion of a "type instance" key after the
// type word, or the whole key if it has no instance portion.
func instanceName(key string) string {
	if i := strings.IndexByte(key, ' '); i >= 0 {
		return strings.TrimSpace(key[i+1:])
	}
	return key
}
