package exitcode

import (
	"errors"
	"testing"
)

func TestRunMapsUntaggedErrorToRuntime(t *testing.T) {
	if got := Run(func() error { return errors.New("boom") }); got != Runtime {
		t.Fatalf("code = %d, want %d", got, Runtime)
	}
}

func TestRunMapsTaggedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"syntax", AsSyntax(errors.New("bad flag")), Syntax},
		{"testcase", AsTestCase(errors.New("test failed")), TestCase},
		{"ok", nil, OK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Run(func() error { return c.err }); got != c.want {
				t.Fatalf("code = %d, want %d", got, c.want)
			}
		})
	}
}

func TestTagPreservesWrappedError(t *testing.T) {
	base := errors.New("underlying")
	tagged := AsSyntax(base)
	if !errors.Is(tagged, base) {
		t.Fatalf("expected Tag to preserve errors.Is against the wrapped error")
	}
}
