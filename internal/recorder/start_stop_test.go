package recorder

import (
	"fmt"
	"testing"
)

func TestStartStopCapturesOwnStdout(t *testing.T) {
	var lines []string
	rec, err := Start(Stdout, func(ev Event) {
		if !ev.Closed {
			lines = append(lines, ev.Line)
		}
	}, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	fmt.Println("captured-line-one")
	fmt.Println("captured-line-two")

	if _, err := rec.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if len(lines) != 2 || lines[0] != "captured-line-one" || lines[1] != "captured-line-two" {
		t.Fatalf("lines = %v, want [captured-line-one captured-line-two]", lines)
	}
}
