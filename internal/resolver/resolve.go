package resolver

import (
	"fmt"
	"io"
	"os"
	"strings"

	"tela/internal/yamlmodel"
)

// Options configures one Resolve call.
type Options struct {
	Registry     *Registry
	State        *StateRunner // nil disables the external state script
	DoState      bool
	ResFail      bool // TELA_RESFAIL; accepted but not consulted by Resolve
	Warnings     io.Writer
	ResourceFile string // if non-empty, the reduced resource tree is written here
}

// Outcome is the result of a successful Resolve: the environment
// bindings ready to export, and the reduced (matched-only) resource tree.
type Outcome struct {
	Env      []string
	Resource *yamlmodel.Node
}

// Resolve binds req (requirements) against res (available resources)
// under the sanitisation, typed-matching, and backtracking rules,
// returning either a successful Outcome or the reason identifying the
// requirement with fewest matches.
func Resolve(req, res *yamlmodel.Node, opts Options) (*Outcome, string, error) {
	if opts.Warnings == nil {
		opts.Warnings = os.Stderr
	}
	reg := opts.Registry
	if reg == nil {
		reg = &Registry{}
	}

	req = Sanitize(req)
	res = Sanitize(res)
	req = ResolveCopyDirectives(req, opts.Warnings)
	res = ResolveCopyDirectives(res, opts.Warnings)

	if opts.DoState && opts.State != nil {
		var err error
		res, err = augmentWithState(res, reg, opts.State, opts.ResFail, opts.Warnings)
		if err != nil {
			return nil, "", err
		}
	}

	vt := NewVarTable()
	bindings, ok, reason := MatchChildren(req, res, reg, vt, "", "")
	if !ok {
		return nil, reason, nil
	}

	NormalizeNames(bindings)
	env := BuildEnvBindings(bindings, reg)

	reduced := buildReducedTree(bindings)
	if opts.ResourceFile != "" {
		f, err := os.Create(opts.ResourceFile)
		if err != nil {
			return nil, "", fmt.Errorf("resolver: write resource file: %w", err)
		}
		defer f.Close()
		if err := yamlmodel.Emit(f, reduced, yamlmodel.EmitOptions{Indent: 2}); err != nil {
			return nil, "", err
		}
	}

	return &Outcome{Env: env, Resource: reduced}, "", nil
}

// augmentWithState runs the external state script for every system
// present in res and merges its sysout into the tree, per the state-merge
// semantics: script data is adopted and requirement overrides win with a
// verbose note. resFail is not read: no warning or failure is produced for
// an object-typed resource that the requirements reference but res lacks.
func augmentWithState(res *yamlmodel.Node, reg *Registry, sr *StateRunner, resFail bool, warnings io.Writer) (*yamlmodel.Node, error) {
	for sys := res; sys != nil; sys = sys.Next {
		if sys.Kind != yamlmodel.Mapping || sys.Key == nil || typeWord(sys.Key.Content) != "system" {
			continue
		}
		if hasFinalMarker(sys.Value) {
			continue
		}
		name := instanceName(sys.Key.Content)
		if name == "" {
			name = "localhost"
		}
		sysin := BuildSysin(sys.Value, reg, "/"+typeWord(sys.Key.Content))
		if sysin == nil {
			continue
		}
		sysout, err := sr.Run(name, sys.Value, sysin)
		if err != nil {
			return nil, err
		}
		if sysout == nil {
			continue
		}
		sys.Value = mergeStateInto(sys.Value, sysout, warnings)
	}
	return res, nil
}

func hasFinalMarker(children *yamlmodel.Node) bool {
	return yamlmodel.FindMapEntry(children, "_tela_final") != nil
}

// mergeStateInto adopts sysout's entries into existing, keeping any entry
// already present in existing (a requirement-driven override) and noting
// the override to warnings. A sysout entry whose key doesn't match any
// existing entry directly is also checked against existing's declared
// "_tela_alias" ids, so a state script reporting a resource under its
// canonical name still lands on the requirement's aliased entry instead
// of being appended as a second, duplicate resource.
func mergeStateInto(existing, sysout *yamlmodel.Node, warnings io.Writer) *yamlmodel.Node {
	aliases := BuildAliasTable(existing)
	for s := sysout; s != nil; s = s.Next {
		if s.Kind != yamlmodel.Mapping || s.Key == nil {
			continue
		}
		prior := yamlmodel.FindMapEntry(existing, s.Key.Content)
		if prior == nil {
			prior, _ = aliases.Resolve(instanceName(s.Key.Content))
		}
		if prior != nil {
			fmt.Fprintf(warnings, "note: %s overridden by requirement, state script value discarded\n", s.Key.Content)
			continue
		}
		existing = yamlmodel.Append(existing, yamlmodel.Dup(s, true, false))
	}
	return existing
}

// buildReducedTree reduces a completed match down to its top-level
// ("system ...") object bindings, each already carrying its full matched
// (and name-normalised) subtree, so nested bindings need no separate
// reconstruction.
func buildReducedTree(bindings []Binding) *yamlmodel.Node {
	var root *yamlmodel.Node
	seen := map[*yamlmodel.Node]bool{}
	for _, b := range bindings {
		if !b.IsObject || b.Res == nil || seen[b.Res] {
			continue
		}
		if strings.Count(strings.TrimPrefix(b.Path, "/"), "/") != 0 {
			continue
		}
		seen[b.Res] = true
		root = yamlmodel.Append(root, yamlmodel.Dup(b.Res, true, false))
	}
	return root
}
