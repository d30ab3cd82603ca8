package tap

import (
	"fmt"
	"io"
	"strings"
)

// Encoder writes a TAP13 stream, one call per line or per result block. It
// keeps no state beyond the writer: plan bookkeeping and the global result
// counter belong to the caller (internal/runpipeline), which may be
// emitting canonicalised lines gathered from several child processes.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) WriteVersion() error {
	_, err := fmt.Fprintln(e.w, "TAP version 13")
	return err
}

func (e *Encoder) WritePlan(n int) error {
	_, err := fmt.Fprintf(e.w, "1..%d\n", n)
	return err
}

func (e *Encoder) WriteResult(line ResultLine) error {
	_, err := fmt.Fprintln(e.w, line.String())
	return err
}

// WriteBlock emits a result's "---"/"..." fenced YAML metadata, indented by
// two spaces as the wire format specifies.
func (e *Encoder) WriteBlock(b ResultBlock) error {
	var sb strings.Builder
	sb.WriteString("  ---\n")
	fmt.Fprintf(&sb, "  testresult: %q\n", b.TestResult)
	if b.Reason != "" {
		fmt.Fprintf(&sb, "  reason: %q\n", b.Reason)
	}
	fmt.Fprintf(&sb, "  testexec: %q\n", b.TestExec)
	if b.ExitCode != nil {
		fmt.Fprintf(&sb, "  exitcode: %d\n", *b.ExitCode)
	}
	if b.Signal != nil {
		fmt.Fprintf(&sb, "  signal: %d\n", *b.Signal)
	}
	fmt.Fprintf(&sb, "  starttime: %.6f # %s\n", b.StartSec, b.StartISO)
	fmt.Fprintf(&sb, "  stoptime:  %.6f # %s\n", b.StopSec, b.StopISO)
	fmt.Fprintf(&sb, "  duration_ms: %.3f\n", b.DurationMs)
	if b.Rusage != nil {
		r := b.Rusage
		sb.WriteString("  rusage:\n")
		fmt.Fprintf(&sb, "    utime_ms: %.3f\n", r.UtimeMs)
		fmt.Fprintf(&sb, "    stime_ms: %.3f\n", r.StimeMs)
		fmt.Fprintf(&sb, "    maxrss_kb: %d\n", r.MaxRSSKB)
		fmt.Fprintf(&sb, "    minflt: %d\n", r.MinFlt)
		fmt.Fprintf(&sb, "    majflt: %d\n", r.MajFlt)
		fmt.Fprintf(&sb, "    inblock: %d\n", r.InBlock)
		fmt.Fprintf(&sb, "    outblock: %d\n", r.OutBlock)
		fmt.Fprintf(&sb, "    nvcsw: %d\n", r.NVCSW)
		fmt.Fprintf(&sb, "    nivcsw: %d\n", r.NIVCSW)
	}
	sb.WriteString("  output: |\n")
	for _, ln := range strings.Split(strings.TrimRight(b.Output, "\n"), "\n") {
		sb.WriteString("    ")
		sb.WriteString(ln)
		sb.WriteByte('\n')
	}
	sb.WriteString("  ...\n")

	_, err := io.WriteString(e.w, sb.String())
	return err
}

// WriteRaw emits line verbatim, used for lines that pass through
// canonicalisation unchanged (comments, YAML block bodies, already-rewritten
// result lines).
func (e *Encoder) WriteRaw(line string) error {
	_, err := fmt.Fprintln(e.w, line)
	return err
}

func (e *Encoder) WriteBailOut(reason string) error {
	_, err := fmt.Fprintf(e.w, "Bail out! %s\n", reason)
	return err
}

func (e *Encoder) WriteComment(text string) error {
	_, err := fmt.Fprintf(e.w, "# %s\n", text)
	return err
}

// WriteWarning emits the in-band form of a harness warning, used when
// stdout carries the TAP stream so a downstream formatter can count it.
func (e *Encoder) WriteWarning(msg string) error {
	_, err := fmt.Fprintf(e.w, "# WARNING: %s\n", msg)
	return err
}
