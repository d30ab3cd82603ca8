package yamltraverse

import "tela/internal/yamlmodel"

// applyMutation performs the splice requested by it.act (a no-op for
// actKeep) and returns the new "prev" the caller's loop should carry
// forward. headRef is the address the chain's head pointer is stored at
// (the enclosing struct field or loop variable); when prev is nil the
// deleted/replaced node was that head, so headRef is rewritten directly.
func applyMutation(headRef **yamlmodel.Node, prev *yamlmodel.Node, savedNext *yamlmodel.Node, it *Iter) *yamlmodel.Node {
	if it.act == actKeep {
		return prev
	}

	repl := it.replacement
	linkTo := savedNext
	if repl != nil {
		yamlmodel.Last(repl).Next = savedNext
		linkTo = repl
	}

	if prev == nil {
		*headRef = linkTo
	} else {
		prev.Next = linkTo
	}

	if repl != nil {
		return yamlmodel.Last(repl)
	}
	return prev
}
