package runpipeline

import (
	"fmt"
	"io"
	"regexp"

	"tela/internal/tap"
	"tela/internal/yamlmodel"
)

var tapHeaderRE = regexp.MustCompile(`^TAP version \d+\s*$`)

// isTAPNative classifies a test by its first stdout line, per §4.E step 5.
func isTAPNative(stdout []string) bool {
	return len(stdout) > 0 && tapHeaderRE.MatchString(stdout[0])
}

func warn(w io.Writer, enc *tap.Encoder, inBand bool, msg string) {
	fmt.Fprintf(w, "WARNING: %s\n", msg)
	if inBand && enc != nil {
		enc.WriteWarning(msg)
	}
}

// canonicalizeTAPNative rewrites a TAP-native child's stdout into the
// canonical form: the header echo is dropped, the plan is adopted or
// checked against the config plan, result names are fixed up and
// prefixed, and a "Bail out!" line ends processing immediately.
//
// It reports whether a bail-out was seen, along with any error from
// writing the canonical stream.
func (p *Pipeline) canonicalizeTAPNative(stdout []string, cfg *Config, relPath string, enc *tap.Encoder) (bailed bool, err error) {
	effectivePlan := cfg.Plan
	var body []string

	for i, raw := range stdout {
		if i == 0 && tapHeaderRE.MatchString(raw) {
			continue
		}
		line := tap.ParseLine(raw)
		switch line.Kind {
		case tap.KindPlan:
			if effectivePlan <= 0 {
				effectivePlan = line.PlanN
			} else if effectivePlan != line.PlanN {
				warn(p.Warnings, enc, true, fmt.Sprintf(
					"test plan 1..%d differs from configured plan 1..%d; keeping configured plan", line.PlanN, effectivePlan))
			}
		case tap.KindResult:
			p.counter++
			if cfg.PlanMapping != nil {
				if entry := yamlmodel.FindMapEntry(cfg.PlanMapping, line.Result.Name); entry != nil {
					entry.Handled = true
				}
			}
			r := line.Result
			r.Num = p.counter
			r.Name = tap.PrefixName(relPath, r.Name)
			body = append(body, r.String())
		case tap.KindBailOut:
			body = append(body, fmt.Sprintf("Bail out! %s", line.BailReason))
			if writeErr := p.flushTAPNative(enc, effectivePlan, body); writeErr != nil {
				return true, writeErr
			}
			return true, nil
		case tap.KindComment, tap.KindPassthrough:
			body = append(body, raw)
		default:
			warn(p.Warnings, enc, true, fmt.Sprintf("line %q is not in TAP13 format", raw))
		}
	}

	if effectivePlan <= 0 {
		effectivePlan = p.counter
	}
	return false, p.flushTAPNative(enc, effectivePlan, body)
}

func (p *Pipeline) flushTAPNative(enc *tap.Encoder, plan int, body []string) error {
	if err := enc.WriteVersion(); err != nil {
		return err
	}
	if err := enc.WritePlan(plan); err != nil {
		return err
	}
	for _, line := range body {
		if err := enc.WriteRaw(line); err != nil {
			return err
		}
	}
	return nil
}

// enforcePlan implements §4.E step 7: after the test exits, any declared
// sub-test name never consumed becomes an extra failing result, and any
// numeric shortfall against a scalar plan is filled with placeholder
// failing results and reported as a warning.
func (p *Pipeline) enforcePlan(cfg *Config, relPath string, enc *tap.Encoder) {
	if cfg.PlanMapping != nil {
		missing := false
		for entry := cfg.PlanMapping; entry != nil; entry = entry.Next {
			if entry.Kind != yamlmodel.Mapping || entry.Key == nil || entry.Handled {
				continue
			}
			missing = true
			p.counter++
			enc.WriteResult(tap.ResultLine{Num: p.counter, Ok: false, Name: tap.PrefixName(relPath, entry.Key.Content)})
		}
		if missing {
			warn(p.Warnings, enc, true, "Plan mismatch: not every declared sub-test was reported")
		}
		return
	}

	if cfg.Plan > 0 && p.counter < cfg.Plan {
		got := p.counter
		for n := p.counter + 1; n <= cfg.Plan; n++ {
			p.counter++
			name := fmt.Sprintf("missing_name_%d", n)
			enc.WriteResult(tap.ResultLine{Num: p.counter, Ok: false, Name: tap.PrefixName(relPath, name)})
		}
		warn(p.Warnings, enc, true, fmt.Sprintf("Plan mismatch: expected %d, got %d", cfg.Plan, got))
	}
}
