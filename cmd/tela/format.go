package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"tela/internal/tap"

	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format tap-file-or-- [numtests] [diag]",
	Short: "Reformat a TAP13 stream",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openTAPInput(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		numtests := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("numtests must be an integer: %w", err)
			}
			numtests = n
		}
		keepDiag := len(args) > 2

		return reformatTAP(r, os.Stdout, numtests, keepDiag)
	},
}

func openTAPInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func reformatTAP(r io.Reader, w io.Writer, numtests int, keepDiag bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var body []string
	count := 0
	for sc.Scan() {
		line := tap.ParseLine(sc.Text())
		switch line.Kind {
		case tap.KindVersion:
		case tap.KindPlan:
			if numtests == 0 {
				numtests = line.PlanN
			}
		case tap.KindResult:
			count++
			r := line.Result
			r.Num = count
			body = append(body, r.String())
		case tap.KindBailOut:
			body = append(body, fmt.Sprintf("Bail out! %s", line.BailReason))
		case tap.KindComment:
			if keepDiag {
				body = append(body, fmt.Sprintf("# %s", line.CommentText))
			}
		default:
			body = append(body, line.Raw)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if numtests == 0 {
		numtests = count
	}

	enc := tap.NewEncoder(w)
	if err := enc.WriteVersion(); err != nil {
		return err
	}
	if err := enc.WritePlan(numtests); err != nil {
		return err
	}
	for _, line := range body {
		if err := enc.WriteRaw(line); err != nil {
			return err
		}
	}
	return nil
}
