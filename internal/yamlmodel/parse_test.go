package yamlmodel

import (
	"errors"
	"strings"
	"testing"
)

func TestParseMapping(t *testing.T) {
	root := mustParse(t, "name: widget\ncount: 3\n")
	if root.Kind != Mapping || Len(root) != 2 {
		t.Fatalf("expected a 2-entry mapping chain, got %+v", root)
	}
	if root.Key.Content != "name" || root.Value.Content != "widget" {
		t.Fatalf("first entry = %+v", root)
	}
	if root.Next.Key.Content != "count" || root.Next.Value.Content != "3" {
		t.Fatalf("second entry = %+v", root.Next)
	}
}

func TestParseSequence(t *testing.T) {
	root := mustParse(t, "- alpha\n- beta\n- gamma\n")
	if root.Kind != Sequence || Len(root) != 3 {
		t.Fatalf("expected a 3-element sequence, got %+v", root)
	}
	if root.Elem.Content != "alpha" {
		t.Fatalf("first element = %+v", root.Elem)
	}
	if root.Next.Next.Elem.Content != "gamma" {
		t.Fatalf("third element = %+v", root.Next.Next.Elem)
	}
}

func TestParseNestedMapping(t *testing.T) {
	root := mustParse(t, "outer:\n  inner: value\n  second: 2\n")
	if root.Kind != Mapping || root.Key.Content != "outer" {
		t.Fatalf("outer entry = %+v", root)
	}
	inner := root.Value
	if inner == nil || Len(inner) != 2 {
		t.Fatalf("expected 2 nested entries, got %+v", inner)
	}
	if inner.Key.Content != "inner" || inner.Value.Content != "value" {
		t.Fatalf("inner[0] = %+v", inner)
	}
}

func TestParseSequenceOfMappings(t *testing.T) {
	root := mustParse(t, "items:\n  -\n    name: a\n  -\n    name: b\n")
	seq := root.Value
	if seq == nil || seq.Kind != Sequence || Len(seq) != 2 {
		t.Fatalf("expected 2-element sequence, got %+v", seq)
	}
	first := seq.Elem
	if first.Kind != Mapping || first.Key.Content != "name" || first.Value.Content != "a" {
		t.Fatalf("first seq element = %+v", first)
	}
}

func TestParseScalarFolding(t *testing.T) {
	root := mustParse(t, "first line\nsecond line\n")
	if root.Kind != Scalar || root.Next != nil {
		t.Fatalf("expected folded scalars to merge into one node, got %+v", root)
	}
	if root.Content != "first line second line" {
		t.Fatalf("folded content = %q", root.Content)
	}
}

func TestParseQuotedScalars(t *testing.T) {
	root := mustParse(t, "key: 'it''s here'\n")
	if root.Value.Content != "it's here" {
		t.Fatalf("single-quote unescape = %q", root.Value.Content)
	}

	root2 := mustParse(t, `key: "line\nbreak \\ here"`+"\n")
	want := "line\nbreak \\ here"
	if root2.Value.Content != want {
		t.Fatalf("double-quote unescape = %q, want %q", root2.Value.Content, want)
	}
}

func TestParseComments(t *testing.T) {
	root := mustParse(t, "# full line comment\nkey: value # trailing comment\n")
	if root.Key.Content != "key" || root.Value.Content != "value" {
		t.Fatalf("comment stripping = %+v", root)
	}
}

func TestParseDocumentMarkers(t *testing.T) {
	root := mustParse(t, "---\nkey: value\n...\n")
	if root.Key.Content != "key" {
		t.Fatalf("expected doc markers to be skipped, got %+v", root)
	}
}

func TestParseTabIndentIsError(t *testing.T) {
	_, err := ParseString("outer:\n\tinner: value\n", "bad.yaml")
	if err == nil {
		t.Fatalf("expected a tab-indentation error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a *ParseError, got %T", err)
	}
	if !errors.Is(perr.Err, ErrTabIndent) {
		t.Fatalf("expected ErrTabIndent, got %v", perr.Err)
	}
	if perr.File != "bad.yaml" || perr.Line != 2 {
		t.Fatalf("expected file=bad.yaml line=2, got %+v", perr)
	}
}

func TestParseMixedKindsIsError(t *testing.T) {
	_, err := ParseString("key: value\n- item\n", "bad.yaml")
	if err == nil {
		t.Fatalf("expected a mixed-kind error")
	}
	if !strings.Contains(err.Error(), "kind") {
		t.Fatalf("expected mixed-kind message, got %v", err)
	}
}

func TestParseUnterminatedQuoteIsError(t *testing.T) {
	_, err := ParseString("key: 'unterminated\n", "bad.yaml")
	if err == nil {
		t.Fatalf("expected an unterminated-quote error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) || !errors.Is(perr.Err, ErrUnterminated) {
		t.Fatalf("expected ErrUnterminated, got %v", err)
	}
}

func TestParseEmptyKeyIsError(t *testing.T) {
	_, err := ParseString("'': value\n", "bad.yaml")
	if err == nil {
		t.Fatalf("expected an empty-key error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) || !errors.Is(perr.Err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	root, err := ParseString("\n# just a comment\n", "empty.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != nil {
		t.Fatalf("expected nil root for an empty document, got %+v", root)
	}
}
