package resolver

import (
	"fmt"
	"strings"

	"tela/internal/yamlmodel"
)

// Binding is one requirement bound to a resource, carrying the attribute
// path it was found at (needed later for both node-name normalisation and
// environment-variable serialisation, since the tree itself has no parent
// pointers to recover it from).
type Binding struct {
	Req           *yamlmodel.Node
	Res           *yamlmodel.Node
	Path          string
	IsObject      bool
	Wildcard      bool
	WildcardIndex int // 0-based, in insertion order; 0 when Wildcard is false
}

// typeWord returns the first space-separated token of a mapping key, the
// "object type" portion of keys like "dasd my_dasd".
func typeWord(key string) string {
	if i := strings.IndexByte(key, ' '); i >= 0 {
		return key[:i]
	}
	return key
}

func isWildcardKey(key string) bool {
	return strings.HasSuffix(key, " *")
}

// isSysLocal reports whether key is exactly the local-system key. Matching
// on type word alone would let a requirement for "system localhost" bind
// against a resource for some other named "system <host>"; this flag keeps
// the two apart the way every other type word never needs to, since only
// "system" ever carries a bare, unnamed local instance.
func isSysLocal(key string) bool {
	return key == systemLocalhostKey
}

// reqItem is one sibling requirement entry, classified by registry lookup,
// kept in the document order it appeared in so that object and scalar
// attribute matching interleave during the backtracking search below.
type reqItem struct {
	node     *yamlmodel.Node
	isObject bool
	attrType AttrType // meaningful only when !isObject
	word     string
}

// MatchChildren matches one level of sibling requirement entries
// (reqChain) against sibling resource entries (resChain), per the typed
// attribute and backtracking object rules. path is the type-word-only
// attribute path accumulated so far, used for registry lookups and failure
// reasons; namePath is the parallel full-key path (object segments keep
// their instance id) used to build each Binding's Path for env naming —
// the two diverge exactly at an object requirement, whose registry lookup
// must use its bare type word but whose env-var prefix must carry its id,
// per extend_prefix (_examples/original_source/src/resource.c:2354).
func MatchChildren(reqChain, resChain *yamlmodel.Node, reg *Registry, vt *VarTable, path, namePath string) ([]Binding, bool, string) {
	var items []reqItem
	var wildcard []*yamlmodel.Node

	for req := reqChain; req != nil; req = req.Next {
		if req.Kind != yamlmodel.Mapping || req.Key == nil {
			continue
		}
		word := typeWord(req.Key.Content)
		childPath := path + "/" + word
		rule := reg.Lookup(childPath)
		// "system" scopes every resource tree by construction (the
		// sanitisation pipeline guarantees every object lives under one),
		// so it is always matched as an object even with no registry entry.
		isObject := rule.Type == TypeObject || word == "system"

		if isObject && isWildcardKey(req.Key.Content) {
			wildcard = append(wildcard, req)
			continue
		}
		items = append(items, reqItem{node: req, isObject: isObject, attrType: rule.Type, word: word})
	}

	var resAll []*yamlmodel.Node
	for res := resChain; res != nil; res = res.Next {
		if res.Kind == yamlmodel.Mapping && res.Key != nil {
			resAll = append(resAll, res)
		}
	}

	st := &backtrackState{
		items:      items,
		resChain:   resChain,
		resAll:     resAll,
		resUsed:    map[*yamlmodel.Node]bool{},
		numMatched: map[*yamlmodel.Node]int{},
		children:   map[*yamlmodel.Node][]Binding{},
		vt:         vt,
		reg:        reg,
		path:       path,
		namePath:   namePath,
	}
	if !st.solve(0) {
		return nil, false, reasonFromProgress(itemNodes(items), st.numMatched, path)
	}

	var bindings []Binding
	for _, it := range items {
		res := st.assigned[it.node]
		if it.isObject {
			bindings = append(bindings, Binding{Req: it.node, Res: res, Path: namePath + "/" + it.node.Key.Content, IsObject: true})
			bindings = append(bindings, st.children[it.node]...)
			continue
		}
		bindings = append(bindings, Binding{Req: it.node, Res: res, Path: namePath + "/" + it.node.Key.Content})
	}

	idx := 0
	for _, req := range wildcard {
		word := typeWord(req.Key.Content)
		for _, res := range resAll {
			if st.resUsed[res] || typeWord(res.Key.Content) != word || isSysLocal(res.Key.Content) != isSysLocal(req.Key.Content) {
				continue
			}
			mark := vt.Mark()
			// A wildcard instance has no stable id to carry in the path
			// (the bare type word is disambiguated later by its numeric
			// suffix instead), so both threaded paths stay word-based here.
			childBindings, ok, _ := MatchChildren(req.Value, res.Value, reg, vt, path+"/"+word, namePath+"/"+word)
			if !ok {
				vt.Rewind(mark)
				continue
			}
			st.resUsed[res] = true
			bindings = append(bindings, Binding{Req: req, Res: res, Path: namePath + "/" + word, IsObject: true, Wildcard: true, WildcardIndex: idx})
			for i := range childBindings {
				// Every attribute nested under a wildcard instance needs
				// that instance's suffix too, or different instances'
				// attributes would collide on the same env var name.
				childBindings[i].Wildcard = true
				childBindings[i].WildcardIndex = idx
			}
			bindings = append(bindings, childBindings...)
			idx++
		}
	}

	return bindings, true, ""
}

func itemNodes(items []reqItem) []*yamlmodel.Node {
	nodes := make([]*yamlmodel.Node, len(items))
	for i, it := range items {
		nodes[i] = it.node
	}
	return nodes
}

type backtrackState struct {
	items      []reqItem
	resChain   *yamlmodel.Node
	resAll     []*yamlmodel.Node
	resUsed    map[*yamlmodel.Node]bool
	numMatched map[*yamlmodel.Node]int
	children   map[*yamlmodel.Node][]Binding
	assigned   map[*yamlmodel.Node]*yamlmodel.Node
	vt         *VarTable
	reg        *Registry
	path       string
	namePath   string
}

// solve tries to satisfy items[i:] in document order, recursing into each
// object's own children and resolving each scalar attribute in place. On
// failure at level i+1 the object loop at level i naturally resumes from
// the next candidate resource, which is the rewind-and-continue behavior
// the backtracking match requires. Interleaving scalar attributes into the
// same ordered pass (rather than checking them all before any object) is
// what lets a scalar later in the list reference a %{name} variable an
// earlier object binds.
func (st *backtrackState) solve(i int) bool {
	if i == len(st.items) {
		if st.assigned == nil {
			st.assigned = map[*yamlmodel.Node]*yamlmodel.Node{}
		}
		return true
	}
	if st.items[i].isObject {
		return st.solveObject(i)
	}
	return st.solveScalar(i)
}

func (st *backtrackState) solveObject(i int) bool {
	it := st.items[i]
	req := it.node

	for _, res := range st.resAll {
		if st.resUsed[res] || typeWord(res.Key.Content) != it.word || isSysLocal(res.Key.Content) != isSysLocal(req.Key.Content) {
			continue
		}
		st.numMatched[req]++
		mark := st.vt.Mark()
		childBindings, ok, _ := MatchChildren(req.Value, res.Value, st.reg, st.vt, st.path+"/"+it.word, st.namePath+"/"+req.Key.Content)
		if ok {
			st.resUsed[res] = true
			st.children[req] = childBindings
			if st.solve(i + 1) {
				if st.assigned == nil {
					st.assigned = map[*yamlmodel.Node]*yamlmodel.Node{}
				}
				st.assigned[req] = res
				return true
			}
			st.resUsed[res] = false
			delete(st.children, req)
		}
		st.vt.Rewind(mark)
	}
	return false
}

func (st *backtrackState) solveScalar(i int) bool {
	it := st.items[i]
	req := it.node

	res := yamlmodel.FindMapEntry(st.resChain, req.Key.Content)
	if res == nil || res.Value == nil || res.Value.Kind != yamlmodel.Scalar || req.Value == nil {
		return false
	}
	st.numMatched[req]++
	mark := st.vt.Mark()
	ok, err := MatchAttribute(it.attrType, req.Value.Content, res.Value.Content, st.vt)
	if err != nil || !ok {
		st.vt.Rewind(mark)
		return false
	}
	if st.solve(i + 1) {
		if st.assigned == nil {
			st.assigned = map[*yamlmodel.Node]*yamlmodel.Node{}
		}
		st.assigned[req] = res
		return true
	}
	st.vt.Rewind(mark)
	return false
}

func reasonFromProgress(reqs []*yamlmodel.Node, numMatched map[*yamlmodel.Node]int, path string) string {
	if len(reqs) == 0 {
		return fmt.Sprintf("no match under %s", path)
	}
	worst := reqs[0]
	for _, r := range reqs[1:] {
		if numMatched[r] < numMatched[worst] {
			worst = r
		}
	}
	return fmt.Sprintf("no match for %s/%s", path, worst.Key.Content)
}
