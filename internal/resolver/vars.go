package resolver

import (
	"fmt"
	"regexp"
)

var varRefRE = regexp.MustCompile(`%\{([A-Za-z_][A-Za-z0-9_]*)\}`)

type varChange struct {
	name     string
	existed  bool
	old      string
}

// VarTable holds the attribute-variable bindings live during one object
// match attempt, with a mark/rewind log so a backtrack can unbind exactly
// the variables a rewound requirement owned.
type VarTable struct {
	vals map[string]string
	log  []varChange
}

func NewVarTable() *VarTable {
	return &VarTable{vals: map[string]string{}}
}

// Mark returns a checkpoint to later Rewind to.
func (vt *VarTable) Mark() int { return len(vt.log) }

// Rewind undoes every Set performed since mark.
func (vt *VarTable) Rewind(mark int) {
	for i := len(vt.log) - 1; i >= mark; i-- {
		c := vt.log[i]
		if c.existed {
			vt.vals[c.name] = c.old
		} else {
			delete(vt.vals, c.name)
		}
	}
	vt.log = vt.log[:mark]
}

func (vt *VarTable) set(name, val string) {
	old, existed := vt.vals[name]
	vt.log = append(vt.log, varChange{name, existed, old})
	vt.vals[name] = val
}

func (vt *VarTable) Get(name string) (string, bool) {
	v, ok := vt.vals[name]
	return v, ok
}

// resolveRefs substitutes every already-bound %{name} reference in spec,
// and reports the names of any references still unbound.
func (vt *VarTable) resolveRefs(spec string) (resolved string, unbound []string) {
	seen := map[string]bool{}
	resolved = varRefRE.ReplaceAllStringFunc(spec, func(m string) string {
		name := varRefRE.FindStringSubmatch(m)[1]
		if v, ok := vt.vals[name]; ok {
			return v
		}
		if !seen[name] {
			unbound = append(unbound, name)
			seen[name] = true
		}
		return m
	})
	return resolved, unbound
}

// MatchAttribute compares a requirement's attribute spec against a
// resource's scalar under typ's comparison rule, resolving and binding
// %{name} variables along the way. A spec that is exactly one unbound
// %{name} reference, compared with plain equality, performs an
// assignment instead of a comparison and always matches.
func MatchAttribute(typ AttrType, reqSpec, resScalar string, vt *VarTable) (bool, error) {
	resolved, unbound := vt.resolveRefs(reqSpec)
	if len(unbound) > 0 {
		op, rest := splitOp(resolved)
		if op != "=" || len(unbound) != 1 || rest != fmt.Sprintf("%%{%s}", unbound[0]) {
			return false, fmt.Errorf("unbound attribute variable %%{%s} in non-assignment position", unbound[0])
		}
		vt.set(unbound[0], resScalar)
		return true, nil
	}

	switch typ {
	case TypeNumber:
		return CompareNumbers(resolved, resScalar)
	case TypeVersion:
		return CompareVersions(resolved, resScalar)
	default:
		return CompareScalars(resolved, resScalar)
	}
}
