// Package harnesscfg resolves the harness's TELA_* environment inputs into
// one Config value, following the same "explicit env var overrides a
// derived default" priority chain the teacher's config resolution uses.
package harnesscfg

import (
	"os"
	"path/filepath"
)

// Config is the resolved set of harness-wide settings. It is populated
// once at startup and treated as read-only afterward — the same
// "global, read-only after init" texture the debug/verbose/color flags
// described in the concurrency model use.
type Config struct {
	ResourceFile string // TELA_RC
	CacheDir     string // TELA_CACHE
	TmpDirBase   string // _TELA_TMPDIR, overrides TMPDIR when set
	Base         string // TELA_BASE
	TestBase     string // TELA_TESTBASE
	Framework    string // TELA_FRAMEWORK
	Home         string // HOME

	Pretty   bool // TELA_PRETTY
	Verbose  bool // TELA_VERBOSE
	WriteLog bool // TELA_WRITELOG
	RunLog   string
	ResFail  bool // TELA_RESFAIL — passed to the resolver, which does not act on it
	Debug    bool // TELA_DEBUG
	NumDots  int  // TELA_NUMDOTS
	Color    bool // COLOR
}

// Load resolves a Config from the process environment.
func Load() Config {
	home := os.Getenv("HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}

	base := os.Getenv("TELA_BASE")
	testBase := os.Getenv("TELA_TESTBASE")
	if testBase == "" {
		testBase = base
	}

	return Config{
		ResourceFile: resolveResourceFile(base),
		CacheDir:     os.Getenv("TELA_CACHE"),
		TmpDirBase:   firstNonEmpty(os.Getenv("_TELA_TMPDIR"), os.Getenv("TMPDIR")),
		Base:         base,
		TestBase:     testBase,
		Framework:    os.Getenv("TELA_FRAMEWORK"),
		Home:         home,
		Pretty:       envBool("TELA_PRETTY"),
		Verbose:      envBool("TELA_VERBOSE"),
		WriteLog:     envBool("TELA_WRITELOG"),
		RunLog:       os.Getenv("TELA_RUNLOG"),
		ResFail:      envBool("TELA_RESFAIL"),
		Debug:        envBool("TELA_DEBUG"),
		NumDots:      envInt("TELA_NUMDOTS", 0),
		Color:        envBool("COLOR"),
	}
}

// resolveResourceFile implements res_get_resource_path()'s fallback chain:
// an explicit TELA_RC wins, otherwise the resource file is framework-base
// relative.
func resolveResourceFile(base string) string {
	if v := os.Getenv("TELA_RC"); v != "" {
		return v
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "resource.yaml")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func envBool(name string) bool {
	v := os.Getenv(name)
	return v != "" && v != "0"
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := parseNonNegativeInt(v)
	if err != nil {
		return def
	}
	return n
}

func parseNonNegativeInt(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errNotANumber
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
