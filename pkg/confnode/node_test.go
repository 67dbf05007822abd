package confnode

import (
	"errors"
	"testing"
)

func TestScalarReads(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		wantStr bool
		wantInt bool
	}{
		{"string node", String("dir", "playback"), true, false},
		{"integer node", Int("rate", 48000), false, true},
		{"compound node", Compound("constraints"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.node.StringValue()
			if gotStr := err == nil; gotStr != tt.wantStr {
				t.Errorf("StringValue error = %v, want success = %v", err, tt.wantStr)
			}
			if err != nil && !errors.Is(err, ErrInvalidScalarType) {
				t.Errorf("StringValue error = %v, want ErrInvalidScalarType", err)
			}

			_, err = tt.node.IntValue()
			if gotInt := err == nil; gotInt != tt.wantInt {
				t.Errorf("IntValue error = %v, want success = %v", err, tt.wantInt)
			}
			if err != nil && !errors.Is(err, ErrInvalidScalarType) {
				t.Errorf("IntValue error = %v, want ErrInvalidScalarType", err)
			}
		})
	}
}

func TestChildrenOrderAndFind(t *testing.T) {
	n := Compound("root",
		String("a", "1"),
		Int("b", 2),
		String("a", "3"),
	)

	names := make([]string, 0, 3)
	for _, c := range n.Children() {
		names = append(names, c.Name())
	}
	want := []string{"a", "b", "a"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("children order = %v, want %v", names, want)
		}
	}

	// Find returns the first match even with duplicate names.
	first := n.Find("a")
	if first == nil {
		t.Fatal("Find returned nil for existing child")
	}
	if s, _ := first.StringValue(); s != "1" {
		t.Errorf("Find returned child with value %q, want %q", s, "1")
	}

	if n.Find("missing") != nil {
		t.Error("Find returned non-nil for missing child")
	}
}

func TestInterface(t *testing.T) {
	n := Compound("root",
		Compound("constraints",
			Int("min", 0),
			Int("max", 16),
		),
		Sequence("mandatory",
			String("0", "dir"),
			String("1", "rate"),
		),
	)

	got, ok := n.Interface().(map[string]any)
	if !ok {
		t.Fatalf("Interface() = %T, want map", n.Interface())
	}

	cons, ok := got["constraints"].(map[string]any)
	if !ok {
		t.Fatalf("constraints = %T, want map", got["constraints"])
	}
	if cons["min"] != int64(0) || cons["max"] != int64(16) {
		t.Errorf("constraints = %v, want min 0 max 16", cons)
	}

	list, ok := got["mandatory"].([]any)
	if !ok {
		t.Fatalf("mandatory = %T, want slice", got["mandatory"])
	}
	if len(list) != 2 || list[0] != "dir" || list[1] != "rate" {
		t.Errorf("mandatory = %v, want [dir rate]", list)
	}
}
