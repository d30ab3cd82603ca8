// Package runpipeline drives a single test executable through resource
// resolution, environment binding, subprocess recording, and TAP13
// canonicalisation (§4.E).
package runpipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tela/internal/harnesscfg"
	"tela/internal/recorder"
	"tela/internal/resolver"
	"tela/internal/tap"
	"tela/internal/yamlmodel"
)

// Pipeline runs test executables one at a time, emitting a self-contained
// TAP13 stream per RunOne call: the result counter and any adopted plan
// are local to that call, matching the "run | exec" CLI surface where one
// invocation drives exactly one executable.
type Pipeline struct {
	Registry *resolver.Registry
	State    *resolver.StateRunner
	DoState  bool
	ResFail  bool

	Cfg     harnesscfg.Config
	Cleanup *harnesscfg.CleanupGuard

	// OSIDScript, if set, is run once per Pipeline lifetime to populate
	// TELA_OS_ID/TELA_OS_VERSION.
	OSIDScript string

	// Warnings receives out-of-band "WARNING: ..." lines; defaults to
	// os.Stderr.
	Warnings io.Writer

	osID    *osIdentity
	counter int
}

// RunOptions supplies the per-call requirement/resource trees and the
// optional TELA_RESOURCE_FILE target.
type RunOptions struct {
	Requirements *yamlmodel.Node
	Resources    *yamlmodel.Node
	ResourceFile string
}

// RunOne runs the executable at execPath, writing its canonicalised TAP13
// stream to out. execPath also names the test in canonicalised result
// lines, so callers should pass it relative to whatever root the operator
// expects to read in a report.
func (p *Pipeline) RunOne(execPath string, opts RunOptions, out io.Writer) error {
	if p.Warnings == nil {
		p.Warnings = os.Stderr
	}
	p.counter = 0
	enc := tap.NewEncoder(out)

	cfg, err := LoadConfig(execPath, p.Warnings)
	if err != nil {
		return err
	}

	outcome, reason, err := resolver.Resolve(opts.Requirements, opts.Resources, resolver.Options{
		Registry:     p.Registry,
		State:        p.State,
		DoState:      p.DoState,
		ResFail:      p.ResFail,
		Warnings:     p.Warnings,
		ResourceFile: opts.ResourceFile,
	})
	if err != nil {
		return fmt.Errorf("runpipeline: resolve %s: %w", execPath, err)
	}
	if outcome == nil {
		return p.emitResolveFailure(execPath, cfg, reason, enc)
	}

	tmp, err := p.Cfg.NewTempDir(cfg.LargeTemp)
	if err != nil {
		return fmt.Errorf("runpipeline: temp dir for %s: %w", execPath, err)
	}
	if p.Cleanup != nil {
		p.Cleanup.Add(tmp)
	}

	osID, osVersion := p.osIDVersion()
	env := append(os.Environ(),
		"TELA_TMP="+tmp,
		"TELA_EXEC="+execPath,
		"TELA_OS_ID="+osID,
		"TELA_OS_VERSION="+osVersion,
	)
	env = append(env, outcome.Env...)

	var stdout []string
	var lastStderr string
	handler := func(ev recorder.Event) {
		if ev.Closed {
			return
		}
		switch ev.Stream {
		case "stdout":
			stdout = append(stdout, ev.Line)
		case "stderr":
			lastStderr = ev.Line
		}
	}

	abs, err := filepath.Abs(execPath)
	if err != nil {
		return fmt.Errorf("runpipeline: resolve path of %s: %w", execPath, err)
	}
	result, err := recorder.Record([]string{abs}, recorder.RecordOptions{
		Dir:     filepath.Dir(abs),
		Env:     env,
		Scope:   recorder.Stdout | recorder.Stderr | recorder.Rusage,
		Handler: handler,
	})
	if err != nil {
		return fmt.Errorf("runpipeline: run %s: %w", execPath, err)
	}

	if isTAPNative(stdout) {
		bailed, err := p.canonicalizeTAPNative(stdout, cfg, execPath, enc)
		if err != nil {
			return err
		}
		if bailed {
			return ErrBailOut
		}
	} else {
		if err := p.emitNonTAPResult(execPath, cfg, result, lastStderr, enc); err != nil {
			return err
		}
	}

	p.enforcePlan(cfg, execPath, enc)
	return nil
}

// emitResolveFailure implements §4.E step 2: a test whose requirements
// never matched is reported as SKIP, once per planned sub-test, without
// ever spawning it.
func (p *Pipeline) emitResolveFailure(execPath string, cfg *Config, reason string, enc *tap.Encoder) error {
	plan := cfg.Plan
	if plan < 1 {
		plan = 1
	}
	if err := enc.WriteVersion(); err != nil {
		return err
	}
	if err := enc.WritePlan(plan); err != nil {
		return err
	}

	if cfg.PlanMapping != nil {
		for entry := cfg.PlanMapping; entry != nil; entry = entry.Next {
			if entry.Kind != yamlmodel.Mapping || entry.Key == nil {
				continue
			}
			p.counter++
			if err := enc.WriteResult(tap.ResultLine{
				Num:       p.counter,
				Ok:        true,
				Name:      tap.PrefixName(execPath, entry.Key.Content),
				Directive: tap.DirectiveSkip,
				Reason:    reason,
			}); err != nil {
				return err
			}
		}
		return nil
	}

	for n := 1; n <= plan; n++ {
		p.counter++
		if err := enc.WriteResult(tap.ResultLine{
			Num:       p.counter,
			Ok:        true,
			Name:      execPath,
			Directive: tap.DirectiveSkip,
			Reason:    reason,
		}); err != nil {
			return err
		}
	}
	return nil
}

// emitNonTAPResult implements §4.E step 6 for a child that did not emit
// its own TAP13 header: the harness synthesises the single result from
// the exit status, per the exit-code convention (0 pass, 2 skip, 3 todo,
// anything else or a signal is a failure).
func (p *Pipeline) emitNonTAPResult(execPath string, cfg *Config, result *recorder.Result, lastStderr string, enc *tap.Encoder) error {
	plan := cfg.Plan
	if plan < 1 {
		plan = 1
	}
	if err := enc.WriteVersion(); err != nil {
		return err
	}
	if err := enc.WritePlan(plan); err != nil {
		return err
	}

	outcome := tap.Fail
	switch {
	case result.HasExitCode && result.ExitCode == 0:
		outcome = tap.Pass
	case result.HasExitCode && result.ExitCode == 2:
		outcome = tap.Skip
	case result.HasExitCode && result.ExitCode == 3:
		outcome = tap.Todo
	}

	p.counter++
	// TELA_SKIP prints "ok ... # SKIP ..."; only TELA_FAIL and TELA_TODO
	// print "not ok" (log.c's tap_log_result switch, §8 scenario #2).
	line := tap.ResultLine{Num: p.counter, Ok: outcome == tap.Pass || outcome == tap.Skip, Name: execPath}
	reason := ""
	switch outcome {
	case tap.Skip:
		line.Directive = tap.DirectiveSkip
		reason = lastStderr
	case tap.Todo:
		line.Directive = tap.DirectiveTodo
		reason = lastStderr
	case tap.Fail:
		reason = lastStderr
	}
	line.Reason = reason
	if err := enc.WriteResult(line); err != nil {
		return err
	}

	return enc.WriteBlock(buildResultBlock(outcome.String(), reason, execPath, result))
}
