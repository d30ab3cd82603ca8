package yamltraverse

import "tela/internal/yamlmodel"

// Visit2Func is called once per node reached while walking two trees in
// lockstep. b is nil when a has no path-matching counterpart; a is nil for
// a node that exists only in b. Returning false stops the whole traversal
// immediately.
type Visit2Func func(a, b *Iter) bool

// Traverse2 walks a in pre-order the way Traverse does, and for every node
// it visits looks up the path-matching node in b (by mapping key, or by
// position for sequence elements) and includes it as the callback's second
// argument. After each sibling chain of a has been walked, the entries of
// the corresponding b chain that had no counterpart are visited with their
// subtrees (cb's first argument nil for those). Either side may be mutated
// through its own Iter. Returns the (possibly new) roots of both trees.
func Traverse2(a, b *yamlmodel.Node, cb Visit2Func) (*yamlmodel.Node, *yamlmodel.Node) {
	aHead, bHead := a, b
	walk2Chain(&aHead, nil, &aHead, &bHead, nil, &bHead, "", cb)
	return aHead, bHead
}

func walk2Chain(
	aHeadRef **yamlmodel.Node, parentA *yamlmodel.Node, aRootRef **yamlmodel.Node,
	bHeadRef **yamlmodel.Node, parentB *yamlmodel.Node, bRootRef **yamlmodel.Node,
	parentPath string, cb Visit2Func,
) bool {
	matchedB := map[*yamlmodel.Node]bool{}
	var prevA *yamlmodel.Node
	curA := *aHeadRef
	idx := 0

	for curA != nil {
		savedNextA := curA.Next
		path := childPath(parentPath, curA)

		matchB := findMatch(*bHeadRef, curA, idx)
		idx++
		var itB *Iter
		var prevB, nextB *yamlmodel.Node
		if matchB != nil {
			matchedB[matchB] = true
			prevB, nextB = neighbors(*bHeadRef, matchB)
			itB = &Iter{Node: matchB, Prev: prevB, Next: nextB, Parent: parentB, Root: *bRootRef, Path: path}
		}

		itA := &Iter{Node: curA, Prev: prevA, Next: savedNextA, Parent: parentA, Root: *aRootRef, Path: path}
		cont := cb(itA, itB)

		if itA.act == actKeep {
			if childA := childRef(curA); cont && childA != nil {
				var childB **yamlmodel.Node
				if itB != nil && itB.act == actKeep {
					childB = childRef(matchB)
				} else {
					var none *yamlmodel.Node
					childB = &none
				}
				if !walk2Chain(childA, curA, aRootRef, childB, matchB, bRootRef, path, cb) {
					return false
				}
			}
			prevA = curA
		} else {
			prevA = applyMutation(aHeadRef, prevA, savedNextA, itA)
			if parentA == nil {
				*aRootRef = *aHeadRef
			}
		}

		if itB != nil && itB.act != actKeep {
			applyMutation(bHeadRef, prevB, nextB, itB)
			if parentB == nil {
				*bRootRef = *bHeadRef
			}
		}

		if !cont {
			return false
		}
		curA = savedNextA
	}

	return walkBOnlySiblings(bHeadRef, parentB, bRootRef, parentPath, cb, matchedB)
}

// walkBOnly visits every node of b (recursively) with a nil A-side Iter.
func walkBOnly(bHeadRef **yamlmodel.Node, parent *yamlmodel.Node, rootRef **yamlmodel.Node, parentPath string, cb Visit2Func) bool {
	return walkBOnlySiblings(bHeadRef, parent, rootRef, parentPath, cb, nil)
}

// walkBOnlySiblings visits the siblings of *bHeadRef not present in skip,
// recursing into their children purely on the b side.
func walkBOnlySiblings(bHeadRef **yamlmodel.Node, parent *yamlmodel.Node, rootRef **yamlmodel.Node, parentPath string, cb Visit2Func, skip map[*yamlmodel.Node]bool) bool {
	var prev *yamlmodel.Node
	cur := *bHeadRef

	for cur != nil {
		savedNext := cur.Next
		if skip[cur] {
			prev = cur
			cur = savedNext
			continue
		}

		path := childPath(parentPath, cur)
		it := &Iter{Node: cur, Prev: prev, Next: savedNext, Parent: parent, Root: *rootRef, Path: path}
		cont := cb(nil, it)

		if it.act == actKeep {
			if child := childRef(cur); cont && child != nil {
				if !walkBOnlySiblings(child, cur, rootRef, path, cb, nil) {
					return false
				}
			}
			prev = cur
		} else {
			prev = applyMutation(bHeadRef, prev, savedNext, it)
			if parent == nil {
				*rootRef = *bHeadRef
			}
		}

		if !cont {
			return false
		}
		cur = savedNext
	}
	return true
}

// childRef returns the address of n's child-chain field, or nil if n has
// no (or only scalar) children.
func childRef(n *yamlmodel.Node) **yamlmodel.Node {
	switch n.Kind {
	case yamlmodel.Mapping:
		return &n.Value
	case yamlmodel.Sequence:
		if n.Elem != nil && n.Elem.Kind != yamlmodel.Scalar {
			return &n.Elem
		}
	}
	return nil
}

// findMatch locates, within chain, the node matching a's position: for a
// Mapping node, the entry with the same key; otherwise (Scalar or
// Sequence siblings, which carry no name) the node at the same ordinal
// position (idx, a's 0-based index among its own siblings) and kind.
func findMatch(chain *yamlmodel.Node, a *yamlmodel.Node, idx int) *yamlmodel.Node {
	if a.Kind == yamlmodel.Mapping {
		if a.Key == nil {
			return nil
		}
		return yamlmodel.FindMapEntry(chain, a.Key.Content)
	}
	n := chain
	for i := 0; n != nil && i < idx; i++ {
		n = n.Next
	}
	if n != nil && n.Kind == a.Kind {
		return n
	}
	return nil
}

// neighbors scans chain for node and returns its previous and next
// siblings. Returns (nil, nil) if node is not found in chain.
func neighbors(chain *yamlmodel.Node, node *yamlmodel.Node) (prev, next *yamlmodel.Node) {
	var p *yamlmodel.Node
	for n := chain; n != nil; n = n.Next {
		if n == node {
			return p, n.Next
		}
		p = n
	}
	return nil, nil
}
