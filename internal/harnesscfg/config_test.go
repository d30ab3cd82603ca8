package harnesscfg

import (
	"os"
	"path/filepath"
	"testing"
)

func withEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		old, had := os.LookupEnv(k)
		os.Setenv(k, v)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoadPrefersExplicitResourceFile(t *testing.T) {
	withEnv(t, map[string]string{"TELA_RC": "/explicit/resource.yaml", "TELA_BASE": "/base"})
	cfg := Load()
	if cfg.ResourceFile != "/explicit/resource.yaml" {
		t.Fatalf("ResourceFile = %q", cfg.ResourceFile)
	}
}

func TestLoadFallsBackToFrameworkRelativeResourceFile(t *testing.T) {
	withEnv(t, map[string]string{"TELA_RC": "", "TELA_BASE": "/base"})
	os.Unsetenv("TELA_RC")
	cfg := Load()
	want := filepath.Join("/base", "resource.yaml")
	if cfg.ResourceFile != want {
		t.Fatalf("ResourceFile = %q, want %q", cfg.ResourceFile, want)
	}
}

func TestLoadTestBaseDefaultsToBase(t *testing.T) {
	os.Unsetenv("TELA_TESTBASE")
	withEnv(t, map[string]string{"TELA_BASE": "/base"})
	cfg := Load()
	if cfg.TestBase != "/base" {
		t.Fatalf("TestBase = %q, want /base", cfg.TestBase)
	}
}

func TestLoadBoolFlags(t *testing.T) {
	withEnv(t, map[string]string{"TELA_DEBUG": "1", "TELA_VERBOSE": "0"})
	cfg := Load()
	if !cfg.Debug {
		t.Fatalf("expected Debug=true")
	}
	if cfg.Verbose {
		t.Fatalf("expected Verbose=false")
	}
}

func TestTempDirRootHonorsLargeTemp(t *testing.T) {
	os.Unsetenv("_TELA_TMPDIR")
	os.Unsetenv("TMPDIR")
	cfg := Config{}
	if got := cfg.TempDirRoot(true); got != "/var/tmp" {
		t.Fatalf("TempDirRoot(true) = %q", got)
	}
	if got := cfg.TempDirRoot(false); got != "/tmp" {
		t.Fatalf("TempDirRoot(false) = %q", got)
	}
}

func TestTempDirRootOverriddenByTmpDirBase(t *testing.T) {
	cfg := Config{TmpDirBase: "/custom"}
	if got := cfg.TempDirRoot(true); got != "/custom" {
		t.Fatalf("TempDirRoot = %q, want /custom", got)
	}
}

func TestNewTempDirCreatesDirectory(t *testing.T) {
	cfg := Config{TmpDirBase: t.TempDir()}
	dir, err := cfg.NewTempDir(false)
	if err != nil {
		t.Fatalf("NewTempDir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected %q to be a directory, err=%v", dir, err)
	}
}
