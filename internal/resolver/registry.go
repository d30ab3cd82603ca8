// Package resolver binds a tree of test requirements to a tree of
// available resources under typed comparison rules, producing an
// environment-variable binding or a failure reason.
package resolver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// AttrType selects the comparison function applied to one attribute path.
type AttrType int

const (
	TypeScalar AttrType = iota
	TypeNumber
	TypeVersion
	TypeObject
)

func (t AttrType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeVersion:
		return "version"
	case TypeObject:
		return "object"
	default:
		return "scalar"
	}
}

// TypeRule is one parsed line of a .types file.
type TypeRule struct {
	Pattern string
	Type    AttrType
	NoUpper bool
	SysIn   bool
}

// Registry resolves an attribute path to the TypeRule governing it.
type Registry struct {
	rules []TypeRule
}

// LoadRegistryDir reads every *.types file in dir, in filepath.Glob's
// sorted order, and appends their rules in load order. Lookup returns the
// first matching rule, so where patterns overlap the rule loaded earlier
// (from an earlier file, or an earlier line of the same file) wins.
func LoadRegistryDir(dir string) (*Registry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.types"))
	if err != nil {
		return nil, err
	}
	reg := &Registry{}
	for _, m := range matches {
		f, err := os.Open(m)
		if err != nil {
			return nil, fmt.Errorf("resolver: open %s: %w", m, err)
		}
		err = reg.loadFile(f, m)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func LoadRegistryReader(r io.Reader, name string) (*Registry, error) {
	reg := &Registry{}
	if err := reg.loadFile(r, name); err != nil {
		return nil, err
	}
	return reg, nil
}

func (reg *Registry) loadFile(r io.Reader, name string) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule, err := parseTypeLine(line)
		if err != nil {
			return fmt.Errorf("resolver: %s:%d: %w", name, lineNo, err)
		}
		reg.rules = append(reg.rules, rule)
	}
	return sc.Err()
}

func parseTypeLine(line string) (TypeRule, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return TypeRule{}, fmt.Errorf("missing ':' in type rule %q", line)
	}
	pattern := strings.TrimSpace(parts[0])
	fields := strings.Split(parts[1], ",")
	if pattern == "" || len(fields) == 0 {
		return TypeRule{}, fmt.Errorf("malformed type rule %q", line)
	}

	rule := TypeRule{Pattern: pattern}
	switch strings.TrimSpace(fields[0]) {
	case "object":
		rule.Type = TypeObject
	case "number":
		rule.Type = TypeNumber
	case "version":
		rule.Type = TypeVersion
	case "scalar", "":
		rule.Type = TypeScalar
	default:
		return TypeRule{}, fmt.Errorf("unknown attribute type %q", fields[0])
	}
	for _, tag := range fields[1:] {
		switch strings.TrimSpace(tag) {
		case "noupper":
			rule.NoUpper = true
		case "sysin":
			rule.SysIn = true
		}
	}
	return rule, nil
}

// Lookup returns the rule governing path, or the scalar default if no
// pattern matches.
func (reg *Registry) Lookup(path string) TypeRule {
	for _, r := range reg.rules {
		if ok, _ := filepath.Match(r.Pattern, path); ok {
			return r
		}
	}
	return TypeRule{Pattern: path, Type: TypeScalar}
}
