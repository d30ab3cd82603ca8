package resolver

import (
	"strings"
	"testing"
)

// dasd's child "id" attribute appears before the sibling "label" attribute
// in the document, and is supposed to assign %{diskid} before label
// substitutes it. label's spec carries an explicit "!=" operator, so it can
// never itself act as an assignment (only a bare, operator-less reference
// can) — if diskid is still unbound when label is reached, MatchAttribute
// errors outright instead of matching, which is exactly what happened when
// scalar attributes were checked in a pass that ran before any object.
func TestMatchChildrenBindsVariablesInDocumentOrder(t *testing.T) {
	reg, err := LoadRegistryReader(strings.NewReader("/dasd : object\n"), "test")
	if err != nil {
		t.Fatalf("LoadRegistryReader: %v", err)
	}

	req := parseDoc(t, "dasd my_dasd:\n  id: %{diskid}\nlabel: != %{diskid}\n")
	res := parseDoc(t, "dasd x:\n  id: disk7\nlabel: other\n")

	vt := NewVarTable()
	_, ok, reason := MatchChildren(req, res, reg, vt, "", "")
	if !ok {
		t.Fatalf("expected match: dasd's id assigns diskid=disk7 before label's \"!= %%{diskid}\" substitutes it against \"other\", got reason=%q", reason)
	}
}

func TestMatchChildrenRejectsVariableBoundOutOfOrder(t *testing.T) {
	reg, err := LoadRegistryReader(strings.NewReader("/dasd : object\n"), "test")
	if err != nil {
		t.Fatalf("LoadRegistryReader: %v", err)
	}

	// label references diskid before dasd's child attribute assigns it, so
	// this must still fail even with document-order matching.
	req := parseDoc(t, "label: %{diskid}\ndasd my_dasd:\n  id: %{diskid}\n")
	res := parseDoc(t, "label: disk7\ndasd x:\n  id: disk9\n")

	vt := NewVarTable()
	_, ok, _ := MatchChildren(req, res, reg, vt, "", "")
	if ok {
		t.Fatalf("expected no match: label's plain reference assigns diskid=disk7, which then fails to substitute against dasd's id=disk9")
	}
}

func TestMatchChildrenRequiresMatchingSystemLocalFlag(t *testing.T) {
	reg := &Registry{}
	req := parseDoc(t, "system localhost:\n  foo: 1\n")
	res := parseDoc(t, "system otherhost:\n  foo: 1\n")

	vt := NewVarTable()
	_, ok, reason := MatchChildren(req, res, reg, vt, "", "")
	if ok {
		t.Fatalf("expected no match across different system-local flags, reason=%q", reason)
	}
}

func TestMatchChildrenSystemLocalFlagSkipsNonLocalSystem(t *testing.T) {
	reg := &Registry{}
	req := parseDoc(t, "system localhost:\n  foo: 1\n")
	// "system remote" shares the "system" type word and would satisfy foo
	// on value alone; only the syslocal-flag check keeps it from being
	// picked over the correctly-flagged "system localhost" resource.
	res := parseDoc(t, "system remote:\n  foo: 1\nsystem localhost:\n  foo: 1\n")

	vt := NewVarTable()
	bindings, ok, reason := MatchChildren(req, res, reg, vt, "", "")
	if !ok {
		t.Fatalf("expected a match against system localhost, got reason=%q", reason)
	}
	for _, b := range bindings {
		if b.IsObject && b.Path == "/system localhost" && b.Res.Key.Content != "system localhost" {
			t.Fatalf("bound to %q, want system localhost", b.Res.Key.Content)
		}
	}
}
