package runpipeline

import (
	"io"
	"time"

	"tela/internal/recorder"
	"tela/internal/tap"
)

// buildResultBlock translates a completed recorder.Result into the YAML
// metadata block that follows a result line, per §6.1.
func buildResultBlock(testResult, reason, testExec string, result *recorder.Result) tap.ResultBlock {
	b := tap.ResultBlock{
		TestResult: testResult,
		Reason:     reason,
		TestExec:   testExec,
		StartSec:   unixSeconds(result.Start),
		StartISO:   result.Start.UTC().Format(time.RFC3339),
		StopSec:    unixSeconds(result.Stop),
		StopISO:    result.Stop.UTC().Format(time.RFC3339),
		DurationMs: float64(result.Duration()) / float64(time.Millisecond),
	}
	if result.HasExitCode {
		ec := result.ExitCode
		b.ExitCode = &ec
	}
	if result.HasSignal {
		sig := result.Signal
		b.Signal = &sig
	}
	if result.Rusage != nil {
		r := result.Rusage
		b.Rusage = &tap.Rusage{
			UtimeMs:  r.UtimeMs,
			StimeMs:  r.StimeMs,
			MaxRSSKB: r.MaxRSSKb,
			MinFlt:   r.MinFlt,
			MajFlt:   r.MajFlt,
			InBlock:  r.InBlock,
			OutBlock: r.OutBlock,
			NVCSW:    r.NVCSW,
			NIVCSW:   r.NIVCSW,
		}
	}
	if result.Output != nil {
		data, _ := io.ReadAll(result.Output)
		b.Output = string(data)
	}
	return b
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
