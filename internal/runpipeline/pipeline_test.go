package runpipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tela/internal/harnesscfg"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunOneTAPNativeChildIsCanonicalised(t *testing.T) {
	dir := t.TempDir()
	exec := writeScript(t, dir, "mytest", "#!/bin/sh\n"+
		"printf 'TAP version 13\\n1..1\\nok 1 - it works\\n'\n")

	p := &Pipeline{Cfg: harnesscfg.Config{TmpDirBase: t.TempDir()}, Warnings: &bytes.Buffer{}}
	var out bytes.Buffer
	if err := p.RunOne(exec, RunOptions{}, &out); err != nil {
		t.Fatalf("RunOne: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "TAP version 13") || !strings.Contains(got, "1..1") {
		t.Fatalf("missing TAP header/plan, got %q", got)
	}
	if !strings.Contains(got, "ok 1") || !strings.Contains(got, "it_works") {
		t.Fatalf("expected a passing, sanitised result, got %q", got)
	}
}

func TestRunOneNonTAPChildSynthesizesResult(t *testing.T) {
	dir := t.TempDir()
	exec := writeScript(t, dir, "mytest", "#!/bin/sh\nexit 0\n")

	p := &Pipeline{Cfg: harnesscfg.Config{TmpDirBase: t.TempDir()}, Warnings: &bytes.Buffer{}}
	var out bytes.Buffer
	if err := p.RunOne(exec, RunOptions{}, &out); err != nil {
		t.Fatalf("RunOne: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "ok 1") {
		t.Fatalf("expected a passing result, got %q", got)
	}
	if !strings.Contains(got, "testresult: \"pass\"") {
		t.Fatalf("expected a result block reporting pass, got %q", got)
	}
}

func TestRunOneNonTAPSkipExitCode(t *testing.T) {
	dir := t.TempDir()
	exec := writeScript(t, dir, "mytest", "#!/bin/sh\necho 'no dasd available' 1>&2\nexit 2\n")

	p := &Pipeline{Cfg: harnesscfg.Config{TmpDirBase: t.TempDir()}, Warnings: &bytes.Buffer{}}
	var out bytes.Buffer
	if err := p.RunOne(exec, RunOptions{}, &out); err != nil {
		t.Fatalf("RunOne: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "ok 1 - "+exec+" # SKIP no dasd available") {
		t.Fatalf("expected a passing \"ok\" line carrying the SKIP directive and stderr as reason, got %q", got)
	}
	if strings.Contains(got, "not ok 1") {
		t.Fatalf("a skip must print \"ok\", not \"not ok\", got %q", got)
	}
}

func TestRunOneBailOutPropagatesError(t *testing.T) {
	dir := t.TempDir()
	exec := writeScript(t, dir, "mytest", "#!/bin/sh\n"+
		"printf 'TAP version 13\\n1..2\\nok 1 - a\\nBail out! fatal\\n'\n")

	p := &Pipeline{Cfg: harnesscfg.Config{TmpDirBase: t.TempDir()}, Warnings: &bytes.Buffer{}}
	var out bytes.Buffer
	err := p.RunOne(exec, RunOptions{}, &out)
	if err != ErrBailOut {
		t.Fatalf("RunOne error = %v, want ErrBailOut", err)
	}
}
