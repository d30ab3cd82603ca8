// Package yamltraverse implements depth-first traversal and safe in-place
// mutation over the document trees built by internal/yamlmodel, plus the
// merged two-tree walk used by the resolver and run pipeline to overlay one
// document onto another.
package yamltraverse

import "tela/internal/yamlmodel"

type action int

const (
	actKeep action = iota
	actReplace
	actDelete
)

// Iter is the per-node cursor handed to a visit callback. It exposes the
// node's position in its tree (Prev/Next siblings, Parent, the tree's Root,
// and Path — the same "/"-joined mapping-key address GetNode accepts) and
// lets the callback request a mutation via Replace or Delete.
//
// Mutation is deferred: calling Replace/Delete only records the request,
// which the traversal applies once the callback returns, before advancing
// to the sibling that was in place when the callback was invoked. A
// callback must not hold onto an Iter past its own return.
type Iter struct {
	Node   *yamlmodel.Node
	Prev   *yamlmodel.Node
	Next   *yamlmodel.Node
	Parent *yamlmodel.Node
	Root   *yamlmodel.Node
	Path   string

	act         action
	replacement *yamlmodel.Node
}

// Replace requests that Node (and its subtree) be spliced out and replaced
// by n, which may itself be a sibling chain (multi-node replacement) or nil
// (equivalent to Delete).
func (it *Iter) Replace(n *yamlmodel.Node) {
	if n == nil {
		it.Delete()
		return
	}
	it.act = actReplace
	it.replacement = n
}

// Delete requests that Node (and its subtree) be removed from the chain.
func (it *Iter) Delete() {
	it.act = actDelete
	it.replacement = nil
}

// childPath extends parentPath with cur's mapping key, if cur is a Mapping
// entry. Sequence elements and scalars do not extend the address, since the
// grammar's path syntax only names mapping keys.
func childPath(parentPath string, cur *yamlmodel.Node) string {
	if cur.Kind != yamlmodel.Mapping || cur.Key == nil {
		return parentPath
	}
	enc := yamlmodel.EncodeKeyForPath(cur.Key.Content)
	if parentPath == "" {
		return enc
	}
	return parentPath + "/" + enc
}
