package resolver

import (
	"fmt"
	"io"
	"strings"

	"tela/internal/yamlmodel"
	"tela/internal/yamltraverse"
)

const copyDirectivePrefix = "_tela_copy "
const aliasAttr = "_tela_alias"

// ResolveCopyDirectives replaces every "_tela_copy <relative-path>" scalar
// with a deep clone of the subtree the canonicalised path resolves to.
// Unresolved copies emit a positioned warning to warnings and are deleted.
func ResolveCopyDirectives(root *yamlmodel.Node, warnings io.Writer) *yamlmodel.Node {
	return yamltraverse.Traverse(root, func(it *yamltraverse.Iter) {
		n := it.Node
		if n.Kind != yamlmodel.Scalar || !strings.HasPrefix(n.Content, copyDirectivePrefix) {
			return
		}
		relPath := strings.TrimSpace(strings.TrimPrefix(n.Content, copyDirectivePrefix))
		target := yamltraverse.CanonPath(it.Path + "/" + relPath)

		src, ok := yamlmodel.GetNode(root, target+"/")
		if !ok {
			fmt.Fprintf(warnings, "WARNING: %s: unresolved _tela_copy %s\n", it.Path, relPath)
			it.Delete()
			return
		}
		it.Replace(yamlmodel.Dup(src, true, false))
	})
}

// aliasTable maps an alias id to the resource object it stands for,
// collected from every "_tela_alias" attribute (scalar, or sequence of
// scalars) found under system-scoped resource objects.
type aliasTable map[string]*yamlmodel.Node

// BuildAliasTable scans root's resource objects for "_tela_alias"
// attributes and records each declared alias id against the object that
// declared it.
func BuildAliasTable(root *yamlmodel.Node) aliasTable {
	table := aliasTable{}
	yamltraverse.Traverse(root, func(it *yamltraverse.Iter) {
		n := it.Node
		if n.Kind != yamlmodel.Mapping || n.Key == nil || n.Key.Content != aliasAttr {
			return
		}
		owner := it.Parent
		if owner == nil || n.Value == nil {
			return
		}
		switch n.Value.Kind {
		case yamlmodel.Scalar:
			table[n.Value.Content] = owner
		case yamlmodel.Sequence:
			for e := n.Value; e != nil; e = e.Next {
				if e.Elem != nil {
					table[e.Elem.Content] = owner
				}
			}
		}
	})
	return table
}

// Resolve looks up a key that might name an alias rather than a resource
// object's own key, returning the aliased object if so.
func (t aliasTable) Resolve(key string) (*yamlmodel.Node, bool) {
	n, ok := t[key]
	return n, ok
}
