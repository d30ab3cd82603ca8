// Package yamlmodel implements the harness's own in-memory document model
// for the bounded YAML grammar subset it accepts: scalars, sequences, and
// mappings linked into sibling chains, with no flow style, anchors, tags,
// or multi-document streams.
package yamlmodel

// Kind identifies which of the three node variants a Node holds.
type Kind int

const (
	Scalar Kind = iota
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Node is the single tagged-variant type backing every document. Which
// fields are meaningful depends on Kind:
//
//   - Scalar:   Content holds the text. Key, Value, Elem are nil.
//   - Sequence: Elem holds the element's content: a Scalar for "- value",
//     or, for a bare "-" followed by an indented block, that block's chain.
//   - Mapping:  Key (always a Scalar with non-empty Content) and Value (the
//     subtree rooted under that key, or nil for an empty value) describe
//     one key/value entry. A mapping with several entries is a chain of
//     Mapping nodes linked by Next, not a single node with many keys.
//
// Next links a node to its following sibling at the same indentation level;
// siblings at one level are always the same Kind. Data is scratch space
// used by callers that need per-node working state during one pass;
// nothing in this package reads it.
type Node struct {
	Kind    Kind
	Content string

	Key   *Node
	Value *Node
	Elem  *Node

	Next *Node

	File    string
	Line    int
	Handled bool
	Data    any
}

// NewScalar returns a detached Scalar node.
func NewScalar(content string) *Node {
	return &Node{Kind: Scalar, Content: content}
}

// NewSequenceElem returns a detached Sequence node wrapping elem.
func NewSequenceElem(elem *Node) *Node {
	return &Node{Kind: Sequence, Elem: elem}
}

// NewMappingEntry returns a detached Mapping node for one key/value pair.
// key must be a Scalar with non-empty Content.
func NewMappingEntry(key *Node, value *Node) *Node {
	return &Node{Kind: Mapping, Key: key, Value: value}
}

// Len returns the number of siblings in the chain starting at n, including n.
func Len(n *Node) int {
	count := 0
	for ; n != nil; n = n.Next {
		count++
	}
	return count
}

// Last returns the final node in n's sibling chain, or nil if n is nil.
func Last(n *Node) *Node {
	if n == nil {
		return nil
	}
	for n.Next != nil {
		n = n.Next
	}
	return n
}

// Append splices tail onto the end of head's sibling chain and returns head
// (or tail, if head was nil).
func Append(head, tail *Node) *Node {
	if head == nil {
		return tail
	}
	Last(head).Next = tail
	return head
}

// FindMapEntry scans a chain of Mapping nodes for the first entry whose key
// content equals name. Returns nil if n is not a Mapping chain or no entry
// matches.
func FindMapEntry(n *Node, name string) *Node {
	for ; n != nil; n = n.Next {
		if n.Kind == Mapping && n.Key != nil && n.Key.Content == name {
			return n
		}
	}
	return nil
}

// Dup produces a deep copy of n. If single is true, only n itself is copied
// (siblings are not). If noChild is true, Value/Elem subtrees are not
// copied (only the node's own scalar/key content).
func Dup(n *Node, single, noChild bool) *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:    n.Kind,
		Content: n.Content,
		File:    n.File,
		Line:    n.Line,
		Handled: n.Handled,
	}
	out.Key = Dup(n.Key, true, false)
	if !noChild {
		out.Value = Dup(n.Value, false, false)
		out.Elem = Dup(n.Elem, true, false)
	}
	if !single {
		out.Next = Dup(n.Next, false, noChild)
	}
	return out
}

// Cmp returns true iff every node reachable from a has a matching node in b
// and, for Scalars, equal Content. Matching ignores sibling order: a Mapping
// entry matches the b entry with the same key, a Scalar any b Scalar sibling
// with the same Content, and a Sequence node any b Sequence sibling whose
// element has the same Content (element subtrees are not compared).
func Cmp(a, b *Node) bool {
	return cmpChain(a, b, true)
}

// IsSubset is like Cmp but ignores Scalar content; only structural
// presence of matching paths is required.
func IsSubset(a, b *Node) bool {
	return cmpChain(a, b, false)
}

func cmpChain(a, b *Node, checkContent bool) bool {
	for ; a != nil; a = a.Next {
		switch a.Kind {
		case Scalar:
			if !chainHasScalar(b, a.Content, checkContent) {
				return false
			}
		case Sequence:
			if !chainHasSequenceElem(b, a, checkContent) {
				return false
			}
		case Mapping:
			match := FindMapEntry(b, a.Key.Content)
			if match == nil {
				return false
			}
			if !cmpChain(a.Value, match.Value, checkContent) {
				return false
			}
		}
	}
	return true
}

func chainHasScalar(b *Node, content string, checkContent bool) bool {
	for ; b != nil; b = b.Next {
		if b.Kind != Scalar {
			continue
		}
		if !checkContent || b.Content == content {
			return true
		}
	}
	return false
}

func chainHasSequenceElem(b *Node, a *Node, checkContent bool) bool {
	for ; b != nil; b = b.Next {
		if b.Kind != Sequence {
			continue
		}
		if a.Elem == nil && b.Elem == nil {
			return true
		}
		if a.Elem == nil || b.Elem == nil {
			continue
		}
		if !checkContent || a.Elem.Content == b.Elem.Content {
			return true
		}
	}
	return false
}
