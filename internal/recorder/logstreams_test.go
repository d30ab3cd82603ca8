package recorder

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLogStreamsSplitsLines(t *testing.T) {
	var events []Event
	handler := func(ev Event) { events = append(events, ev) }

	streams := []StreamDescriptor{
		{Name: "stdout", Reader: strings.NewReader("one\ntwo\nthree\n")},
	}
	if err := LogStreams(nil, streams, handler, time.Now(), nil); err != nil {
		t.Fatalf("LogStreams: %v", err)
	}

	var lines []string
	for _, ev := range events {
		if !ev.Closed {
			lines = append(lines, ev.Line)
		}
	}
	want := []string{"one", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestLogStreamsRetainsPartialLineUntilClose(t *testing.T) {
	var events []Event
	streams := []StreamDescriptor{
		{Name: "stdout", Reader: strings.NewReader("partial-no-newline")},
	}
	if err := LogStreams(nil, streams, func(ev Event) { events = append(events, ev) }, time.Now(), nil); err != nil {
		t.Fatalf("LogStreams: %v", err)
	}

	var got *Event
	for i := range events {
		if !events[i].Closed {
			got = &events[i]
		}
	}
	if got == nil {
		t.Fatalf("expected a line event for the unterminated partial data")
	}
	if got.Line != "partial-no-newline" || !got.NoNewline {
		t.Fatalf("got %+v, want NoNewline partial-no-newline", got)
	}
}

func TestLogStreamsDeliversOnCloseEvent(t *testing.T) {
	var events []Event
	streams := []StreamDescriptor{
		{Name: "aux", Reader: strings.NewReader("x\n"), OnClose: true},
	}
	if err := LogStreams(nil, streams, func(ev Event) { events = append(events, ev) }, time.Now(), nil); err != nil {
		t.Fatalf("LogStreams: %v", err)
	}
	if len(events) == 0 || !events[len(events)-1].Closed {
		t.Fatalf("expected a trailing Closed event, got %+v", events)
	}
}

func TestLogStreamsNoCountStreamDoesNotBlockCompletion(t *testing.T) {
	r, w := io.Pipe()
	streams := []StreamDescriptor{
		{Name: "stdout", Reader: strings.NewReader("done\n")},
		{Name: "sidecar", Reader: r, NoCount: true},
	}
	defer w.Close()

	done := make(chan error, 1)
	go func() { done <- LogStreams(nil, streams, nil, time.Now(), nil) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("LogStreams: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("LogStreams did not return; a NoCount stream should not be waited on")
	}
}

func TestLogStreamsOpensControlStream(t *testing.T) {
	f, err := os.CreateTemp("", "tela-control-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	f.WriteString("hello\n")
	f.Close()

	control := strings.NewReader("extra:" + f.Name() + "\n")
	streams := []StreamDescriptor{{Name: "", Reader: control}}

	var events []Event
	if err := LogStreams(nil, streams, func(ev Event) { events = append(events, ev) }, time.Now(), nil); err != nil {
		t.Fatalf("LogStreams: %v", err)
	}

	found := false
	for _, ev := range events {
		if ev.Stream == "extra" && ev.Line == "hello" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a 'hello' event on stream 'extra', got %+v", events)
	}
}

func TestLogStreamsStopChannelEndsEarly(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	stop := make(chan struct{})
	close(stop)

	streams := []StreamDescriptor{{Name: "stdout", Reader: r}}
	done := make(chan error, 1)
	go func() { done <- LogStreams(nil, streams, nil, time.Now(), stop) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("LogStreams: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("LogStreams did not honor an already-closed stop channel")
	}
}

func TestLogStreamsWritesLog(t *testing.T) {
	var buf bytes.Buffer
	streams := []StreamDescriptor{{Name: "stdout", Reader: strings.NewReader("hi\n")}}
	if err := LogStreams(&buf, streams, nil, time.Now(), nil); err != nil {
		t.Fatalf("LogStreams: %v", err)
	}
	if !strings.Contains(buf.String(), "stdout: hi") {
		t.Fatalf("log output = %q, want it to contain %q", buf.String(), "stdout: hi")
	}
}

func TestParseControlLine(t *testing.T) {
	cases := []struct {
		in       string
		wantName string
		wantPath string
		wantOK   bool
	}{
		{"name:/tmp/foo", "name", "/tmp/foo", true},
		{"no-colon", "", "", false},
		{":/tmp/foo", "", "", false},
		{"name:", "", "", false},
	}
	for _, c := range cases {
		name, path, ok := parseControlLine(c.in)
		if ok != c.wantOK || name != c.wantName || path != c.wantPath {
			t.Errorf("parseControlLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.in, name, path, ok, c.wantName, c.wantPath, c.wantOK)
		}
	}
}
