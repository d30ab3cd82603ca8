package yamltraverse

import "tela/internal/yamlmodel"

// VisitFunc is called once per node in pre-order. It may call it.Replace or
// it.Delete to mutate the tree at the current position.
type VisitFunc func(it *Iter)

// Traverse walks root and its siblings depth-first, pre-order, invoking cb
// for every node. It returns the (possibly new) root: if the first node is
// replaced or deleted, the caller must use the returned value in place of
// the original root pointer.
func Traverse(root *yamlmodel.Node, cb VisitFunc) *yamlmodel.Node {
	head := root
	walkChain(&head, nil, &head, "", cb)
	return head
}

// walkChain processes the sibling chain starting at *headRef. rootRef
// points at the whole document's current root, updated in place whenever
// the top-level head changes (parent == nil) so every Iter sees a live
// Root even after an earlier sibling was replaced.
func walkChain(headRef **yamlmodel.Node, parent *yamlmodel.Node, rootRef **yamlmodel.Node, parentPath string, cb VisitFunc) {
	var prev *yamlmodel.Node
	cur := *headRef

	for cur != nil {
		savedNext := cur.Next
		path := childPath(parentPath, cur)

		it := &Iter{
			Node:   cur,
			Prev:   prev,
			Next:   savedNext,
			Parent: parent,
			Root:   *rootRef,
			Path:   path,
		}
		cb(it)

		if it.act == actKeep {
			switch cur.Kind {
			case yamlmodel.Mapping:
				walkChain(&cur.Value, cur, rootRef, path, cb)
			case yamlmodel.Sequence:
				if cur.Elem != nil && cur.Elem.Kind != yamlmodel.Scalar {
					walkChain(&cur.Elem, cur, rootRef, path, cb)
				}
			}
			prev = cur
		} else {
			prev = applyMutation(headRef, prev, savedNext, it)
			if parent == nil {
				*rootRef = *headRef
			}
		}
		cur = savedNext
	}
}
