package runpipeline

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"tela/internal/tap"
)

func TestIsTAPNative(t *testing.T) {
	cases := []struct {
		stdout []string
		want   bool
	}{
		{[]string{"TAP version 13", "1..1", "ok 1 - thing"}, true},
		{[]string{"1..1", "ok 1 - thing"}, false},
		{nil, false},
	}
	for _, c := range cases {
		if got := isTAPNative(c.stdout); got != c.want {
			t.Errorf("isTAPNative(%v) = %v, want %v", c.stdout, got, c.want)
		}
	}
}

func TestCanonicalizeTAPNativeAdoptsChildPlanAndPrefixesNames(t *testing.T) {
	p := &Pipeline{Warnings: &bytes.Buffer{}}
	cfg := &Config{Plan: -1}
	stdout := []string{
		"TAP version 13",
		"1..2",
		"ok 1 - first check",
		"not ok 2 - second check # TODO investigate",
	}

	var out bytes.Buffer
	enc := tap.NewEncoder(&out)
	bailed, err := p.canonicalizeTAPNative(stdout, cfg, "suite/mytest", enc)
	if err != nil {
		t.Fatalf("canonicalizeTAPNative: %v", err)
	}
	if bailed {
		t.Fatalf("did not expect a bail-out")
	}

	got := out.String()
	if !strings.Contains(got, "TAP version 13\n1..2\n") {
		t.Fatalf("header/plan missing, got %q", got)
	}
	if !strings.Contains(got, "ok 1 - suite/mytest:first_check") {
		t.Fatalf("expected prefixed+sanitised name, got %q", got)
	}
	if !strings.Contains(got, "not ok 2 - suite/mytest:second_check # TODO investigate") {
		t.Fatalf("expected prefixed name with directive preserved, got %q", got)
	}
}

func TestCanonicalizeTAPNativeWarnsOnPlanMismatch(t *testing.T) {
	var warnings bytes.Buffer
	p := &Pipeline{Warnings: &warnings}
	cfg := &Config{Plan: 5}
	stdout := []string{"TAP version 13", "1..2", "ok 1 - a", "ok 2 - b"}

	var out bytes.Buffer
	enc := tap.NewEncoder(&out)
	if _, err := p.canonicalizeTAPNative(stdout, cfg, "t", enc); err != nil {
		t.Fatalf("canonicalizeTAPNative: %v", err)
	}
	if !strings.Contains(out.String(), "1..5") {
		t.Fatalf("expected the configured plan to win, got %q", out.String())
	}
	if warnings.Len() == 0 {
		t.Fatalf("expected a plan-mismatch warning")
	}
}

func TestCanonicalizeTAPNativeStopsAtBailOut(t *testing.T) {
	p := &Pipeline{Warnings: &bytes.Buffer{}}
	cfg := &Config{Plan: -1}
	stdout := []string{
		"TAP version 13",
		"1..3",
		"ok 1 - a",
		"Bail out! disk full",
		"ok 2 - b",
	}

	var out bytes.Buffer
	enc := tap.NewEncoder(&out)
	bailed, err := p.canonicalizeTAPNative(stdout, cfg, "t", enc)
	if err != nil {
		t.Fatalf("canonicalizeTAPNative: %v", err)
	}
	if !bailed {
		t.Fatalf("expected a bail-out")
	}
	if strings.Contains(out.String(), "ok 2 - b") {
		t.Fatalf("lines after the bail-out must not be emitted, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Bail out! disk full") {
		t.Fatalf("expected the bail-out line itself, got %q", out.String())
	}
}

func TestEnforcePlanFillsNumericShortfall(t *testing.T) {
	var warnings bytes.Buffer
	p := &Pipeline{Warnings: &warnings, counter: 1}
	cfg := &Config{Plan: 3}

	var out bytes.Buffer
	enc := tap.NewEncoder(&out)
	p.enforcePlan(cfg, "t", enc)

	got := out.String()
	if !strings.Contains(got, "not ok 2 - t:missing_name_2") || !strings.Contains(got, "not ok 3 - t:missing_name_3") {
		t.Fatalf("expected two placeholder failures, got %q", got)
	}
	if warnings.Len() == 0 {
		t.Fatalf("expected a plan-mismatch warning")
	}
}

func TestEnforcePlanReportsUnconsumedMappingNames(t *testing.T) {
	dir := t.TempDir()
	exec := filepath.Join(dir, "mytest")
	writeConfigYAML(t, exec, "test:\n  plan:\n    alpha: does a\n    beta: does b\n")

	cfg, err := LoadConfig(exec, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	var warnings bytes.Buffer
	p := &Pipeline{Warnings: &warnings}

	var out bytes.Buffer
	enc := tap.NewEncoder(&out)
	p.enforcePlan(cfg, "t", enc)

	got := out.String()
	if !strings.Contains(got, "t:alpha") || !strings.Contains(got, "t:beta") {
		t.Fatalf("expected both unconsumed names reported, got %q", got)
	}
	if warnings.Len() == 0 {
		t.Fatalf("expected a plan-mismatch warning")
	}
}
