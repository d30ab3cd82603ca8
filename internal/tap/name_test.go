package tap

import "testing"

func TestSanitizeNameCollapsesInvalidRuns(t *testing.T) {
	cases := map[string]string{
		"basic setup":    "basic_setup",
		"a///b":          "a_b",
		"already-ok_1.2": "already-ok_1.2",
		"  leading":      "_leading",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrefixName(t *testing.T) {
	if got := PrefixName("tests/dasd", "basic setup"); got != "tests/dasd:basic_setup" {
		t.Fatalf("PrefixName = %q", got)
	}
}
