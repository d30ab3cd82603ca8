package resolver

import (
	"strings"

	"tela/internal/yamlmodel"
	"tela/internal/yamltraverse"
)

const systemLocalhostKey = "system localhost"

// Sanitize applies the six-step cleanup pipeline to a raw requirement or
// resource tree before matching: dropping malformed nodes, normalising
// mapping-key whitespace, scoping bare "system" sections to localhost,
// dropping the reserved "test" section, re-parenting stray top-level
// objects under "system localhost", and merging duplicate sibling keys.
func Sanitize(root *yamlmodel.Node) *yamlmodel.Node {
	root = dropNonMappingTopLevel(root)
	root = dropMalformed(root)
	root = collapseKeyWhitespace(root)
	root = renameSystemKeys(root)
	root = removeTestSection(root)
	root = reparentUnderSystem(root)
	root = mergeDuplicateKeys(root)
	return root
}

// dropNonMappingTopLevel keeps only Mapping entries at the document root.
func dropNonMappingTopLevel(root *yamlmodel.Node) *yamlmodel.Node {
	var head, tail *yamlmodel.Node
	for n := root; n != nil; n = n.Next {
		if n.Kind != yamlmodel.Mapping {
			continue
		}
		dup := *n
		dup.Next = nil
		node := &dup
		if head == nil {
			head = node
		} else {
			tail.Next = node
		}
		tail = node
	}
	return head
}

// dropMalformed removes empty scalars, mapping entries with no key, and
// sequence nodes with no element, throughout the whole tree.
func dropMalformed(root *yamlmodel.Node) *yamlmodel.Node {
	return yamltraverse.Traverse(root, func(it *yamltraverse.Iter) {
		n := it.Node
		switch n.Kind {
		case yamlmodel.Scalar:
			if strings.TrimSpace(n.Content) == "" {
				it.Delete()
			}
		case yamlmodel.Mapping:
			if n.Key == nil || strings.TrimSpace(n.Key.Content) == "" {
				it.Delete()
			}
		case yamlmodel.Sequence:
			if n.Elem == nil {
				it.Delete()
			}
		}
	})
}

// collapseKeyWhitespace collapses internal whitespace runs in every
// mapping key to a single space and trims the ends.
func collapseKeyWhitespace(root *yamlmodel.Node) *yamlmodel.Node {
	return yamltraverse.Traverse(root, func(it *yamltraverse.Iter) {
		if it.Node.Kind == yamlmodel.Mapping && it.Node.Key != nil {
			it.Node.Key.Content = collapseSpaces(it.Node.Key.Content)
		}
	})
}

func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// renameSystemKeys renames a bare top-level "system" key to "system
// localhost".
func renameSystemKeys(root *yamlmodel.Node) *yamlmodel.Node {
	for n := root; n != nil; n = n.Next {
		if n.Kind == yamlmodel.Mapping && n.Key != nil && n.Key.Content == "system" {
			n.Key.Content = systemLocalhostKey
		}
	}
	return root
}

// removeTestSection drops the reserved top-level "test" section.
func removeTestSection(root *yamlmodel.Node) *yamlmodel.Node {
	var head, tail *yamlmodel.Node
	for n := root; n != nil; n = n.Next {
		if n.Kind == yamlmodel.Mapping && n.Key != nil && n.Key.Content == "test" {
			continue
		}
		dup := *n
		dup.Next = nil
		node := &dup
		if head == nil {
			head = node
		} else {
			tail.Next = node
		}
		tail = node
	}
	return head
}

// reparentUnderSystem moves every top-level entry whose type word isn't
// "system" to become a child of a "system localhost" entry, creating one
// if none exists, so every resource is always scoped by system.
func reparentUnderSystem(root *yamlmodel.Node) *yamlmodel.Node {
	var systemEntry *yamlmodel.Node
	var rest []*yamlmodel.Node
	for n := root; n != nil; n = n.Next {
		if n.Kind == yamlmodel.Mapping && n.Key != nil && typeWord(n.Key.Content) == "system" {
			if systemEntry == nil {
				systemEntry = n
			} else {
				rest = append(rest, n)
			}
			continue
		}
		rest = append(rest, n)
	}
	if len(rest) == 0 {
		if systemEntry != nil {
			systemEntry.Next = nil
			return systemEntry
		}
		return root
	}
	if systemEntry == nil {
		systemEntry = yamlmodel.NewMappingEntry(yamlmodel.NewScalar(systemLocalhostKey), nil)
	}
	for _, n := range rest {
		n.Next = nil
	}
	var movedChain *yamlmodel.Node
	for _, n := range rest {
		movedChain = yamlmodel.Append(movedChain, n)
	}
	systemEntry.Value = yamlmodel.Append(systemEntry.Value, movedChain)
	systemEntry.Next = nil
	return systemEntry
}

// mergeDuplicateKeys merges sibling mapping entries sharing a key:
// scalar values keep the last occurrence, sub-mappings are unioned
// recursively.
func mergeDuplicateKeys(root *yamlmodel.Node) *yamlmodel.Node {
	return mergeChain(root)
}

func mergeChain(chain *yamlmodel.Node) *yamlmodel.Node {
	if chain == nil || chain.Kind != yamlmodel.Mapping {
		for n := chain; n != nil; n = n.Next {
			if n.Kind == yamlmodel.Mapping && n.Value != nil {
				n.Value = mergeChain(n.Value)
			}
		}
		return chain
	}

	order := []string{}
	byKey := map[string]*yamlmodel.Node{}
	for n := chain; n != nil; n = n.Next {
		if n.Key == nil {
			continue
		}
		k := n.Key.Content
		if existing, ok := byKey[k]; ok {
			mergeEntry(existing, n)
		} else {
			order = append(order, k)
			byKey[k] = n
		}
	}

	var head, tail *yamlmodel.Node
	for _, k := range order {
		n := byKey[k]
		n.Next = nil
		if n.Value != nil {
			n.Value = mergeChain(n.Value)
		}
		if head == nil {
			head = n
		} else {
			tail.Next = n
		}
		tail = n
	}
	return head
}

// mergeEntry folds b into the already-kept entry a: scalar values are
// overwritten (last occurrence wins), sub-mappings are appended so
// mergeChain's later pass unions them.
func mergeEntry(a, b *yamlmodel.Node) {
	switch {
	case b.Value == nil:
		return
	case b.Value.Kind == yamlmodel.Scalar:
		a.Value = b.Value
	case b.Value.Kind == yamlmodel.Mapping:
		if a.Value == nil {
			a.Value = b.Value
		} else {
			a.Value = yamlmodel.Append(a.Value, b.Value)
		}
	default:
		a.Value = b.Value
	}
}
