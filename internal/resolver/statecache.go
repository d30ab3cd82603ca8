package resolver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tela/internal/recorder"
	"tela/internal/yamlmodel"
)

// cacheFileSlot is one stored (res, sysin, sysout) triple. Each field
// holds the harness's own emitted YAML text for that subtree, so the
// cache file is a thin yaml.v3 envelope around documents this package's
// own parser/emitter round-trips losslessly.
type cacheFileSlot struct {
	Res    string `yaml:"res"`
	Sysin  string `yaml:"sysin"`
	Sysout string `yaml:"sysout"`
}

type cacheFile struct {
	Slots []cacheFileSlot `yaml:"slots"`
}

func loadCacheFile(path string) (*cacheFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cacheFile{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cf cacheFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("resolver: parse cache file %s: %w", path, err)
	}
	return &cf, nil
}

func saveCacheFile(path string, cf *cacheFile) error {
	data, err := yaml.Marshal(cf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func emitText(n *yamlmodel.Node) string {
	var buf bytes.Buffer
	yamlmodel.Emit(&buf, n, yamlmodel.EmitOptions{Indent: 2})
	return buf.String()
}

// StateRunner drives the per-system external state script and its cache.
type StateRunner struct {
	LocalScript   string // libexec script path used for the "localhost" system
	RemoteWrapper string // format string with one %s for the system name, used for all other systems
	CacheDir      string // TELA_CACHE / _TELA_TMPDIR; empty disables caching
	CacheFileName string // defaults to "state.cache" under CacheDir

	// Probe, when set, replaces LocalScript for the "localhost" system: an
	// in-process resource-state reporter (internal/hostprobe) used when no
	// external libexec script is configured.
	Probe func(sysin *yamlmodel.Node) (*yamlmodel.Node, error)
}

func (sr *StateRunner) cachePath() string {
	name := sr.CacheFileName
	if name == "" {
		name = "state.cache"
	}
	return filepath.Join(sr.CacheDir, name)
}

// BuildSysin restricts resTree (a single system's resource subtree) to the
// sysin-tagged attribute paths, recursing into object children so a
// sysin-tagged leaf keeps its enclosing objects.
func BuildSysin(resTree *yamlmodel.Node, reg *Registry, path string) *yamlmodel.Node {
	var head, tail *yamlmodel.Node
	for n := resTree; n != nil; n = n.Next {
		if n.Kind != yamlmodel.Mapping || n.Key == nil {
			continue
		}
		word := typeWord(n.Key.Content)
		childPath := path + "/" + word
		rule := reg.Lookup(childPath)

		var value *yamlmodel.Node
		keep := rule.SysIn
		if rule.Type == TypeObject {
			if sub := BuildSysin(n.Value, reg, childPath); sub != nil {
				value = sub
				keep = true
			}
		} else if keep {
			value = yamlmodel.Dup(n.Value, true, false)
		}
		if !keep {
			continue
		}
		entry := yamlmodel.NewMappingEntry(yamlmodel.Dup(n.Key, true, false), value)
		if head == nil {
			head = entry
		} else {
			tail.Next = entry
		}
		tail = entry
	}
	return head
}

// Run executes the state script for systemName (if sysin is non-empty and
// no cached slot already covers it) and returns the parsed sysout
// document, consulting and updating the cache when CacheDir is set.
func (sr *StateRunner) Run(systemName string, res, sysin *yamlmodel.Node) (*yamlmodel.Node, error) {
	if sysin == nil {
		return nil, nil
	}

	var cf *cacheFile
	var path string
	if sr.CacheDir != "" {
		path = sr.cachePath()
		var err error
		cf, err = loadCacheFile(path)
		if err != nil {
			return nil, err
		}
		for _, slot := range cf.Slots {
			storedRes, err := yamlmodel.ParseString(slot.Res, "cache")
			if err != nil {
				continue
			}
			if !yamlmodel.Cmp(res, storedRes) {
				continue
			}
			storedSysout, err := yamlmodel.ParseString(slot.Sysout, "cache")
			if err != nil {
				continue
			}
			if yamlmodel.IsSubset(sysin, storedSysout) {
				return storedSysout, nil
			}
		}
	}

	var sysout *yamlmodel.Node
	if systemName == "localhost" && sr.LocalScript == "" && sr.Probe != nil {
		var err error
		sysout, err = sr.Probe(sysin)
		if err != nil {
			return nil, fmt.Errorf("resolver: host probe for %s: %w", systemName, err)
		}
	} else {
		argv := []string{sr.LocalScript}
		if systemName != "localhost" {
			argv = []string{fmt.Sprintf(sr.RemoteWrapper, systemName)}
		}
		result, err := recorder.Record(argv, recorder.RecordOptions{Scope: recorder.Stdout})
		if err != nil {
			return nil, fmt.Errorf("resolver: state script for %s: %w", systemName, err)
		}
		text, _ := readAllSeeker(result.Output)
		sysout, err = yamlmodel.ParseString(text, "state-script:"+systemName)
		if err != nil {
			return nil, fmt.Errorf("resolver: parse state script output for %s: %w", systemName, err)
		}
	}

	if sr.CacheDir != "" && cf != nil {
		cf.Slots = append(cf.Slots, cacheFileSlot{
			Res:    emitText(res),
			Sysin:  emitText(sysin),
			Sysout: emitText(sysout),
		})
		if err := saveCacheFile(path, cf); err != nil {
			return nil, err
		}
	}
	return sysout, nil
}

func readAllSeeker(r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	var buf bytes.Buffer
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil {
			break
		}
	}
	return buf.String(), nil
}
