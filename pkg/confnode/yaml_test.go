package confnode

import (
	"errors"
	"testing"
)

func TestParsePreservesOrder(t *testing.T) {
	src := `
valid_values:
  playback: playback
  capture: capture
  duplex: duplex
`
	root, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	vv := root.Find("valid_values")
	if vv == nil || !vv.IsCompound() {
		t.Fatal("expected compound valid_values node")
	}

	want := []string{"playback", "capture", "duplex"}
	for i, c := range vv.Children() {
		if c.Name() != want[i] {
			t.Errorf("child %d = %q, want %q", i, c.Name(), want[i])
		}
	}
}

func TestParseScalarTyping(t *testing.T) {
	src := `
min: 0
max: 48000
dir: playback
quoted: "100"
hex: 0x10
`
	root, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if v, err := root.Find("min").IntValue(); err != nil || v != 0 {
		t.Errorf("min = %d, %v, want 0", v, err)
	}
	if v, err := root.Find("max").IntValue(); err != nil || v != 48000 {
		t.Errorf("max = %d, %v, want 48000", v, err)
	}
	if _, err := root.Find("dir").IntValue(); !errors.Is(err, ErrInvalidScalarType) {
		t.Errorf("IntValue on string node = %v, want ErrInvalidScalarType", err)
	}

	// A quoted digit string stays a string; the digit-prefix heuristic in
	// the schema layer decides what to do with it.
	if s, err := root.Find("quoted").StringValue(); err != nil || s != "100" {
		t.Errorf("quoted = %q, %v, want \"100\"", s, err)
	}

	if v, err := root.Find("hex").IntValue(); err != nil || v != 16 {
		t.Errorf("hex = %d, %v, want 16", v, err)
	}
}

func TestParseSequence(t *testing.T) {
	src := `
mandatory: [dir, rate]
`
	root, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	m := root.Find("mandatory")
	if m == nil || !m.IsSequence() {
		t.Fatal("expected sequence node for mandatory")
	}
	if len(m.Children()) != 2 {
		t.Fatalf("len = %d, want 2", len(m.Children()))
	}
	if m.Children()[0].Name() != "0" || m.Children()[1].Name() != "1" {
		t.Errorf("sequence children named %q, %q, want 0, 1",
			m.Children()[0].Name(), m.Children()[1].Name())
	}
	if s, _ := m.Children()[1].StringValue(); s != "rate" {
		t.Errorf("second entry = %q, want rate", s)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	root, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !root.IsCompound() || len(root.Children()) != 0 {
		t.Errorf("empty document should produce an empty compound root")
	}
}

func TestParseAnchorAlias(t *testing.T) {
	src := `
base: &dir playback
copy: *dir
`
	root, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s, err := root.Find("copy").StringValue(); err != nil || s != "playback" {
		t.Errorf("copy = %q, %v, want playback", s, err)
	}
}
