package compiler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcherRecompilesOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-classes.yaml", classDoc)
	writeFile(t, dir, "02-objects.yaml", objectDoc)

	c, err := New(Options{Paths: []string{dir}}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *Result, 1)
	w := NewWatcher(c, zerolog.Nop())
	w.debounce = 50 * time.Millisecond
	if err := w.Start(ctx, func(r *Result) { results <- r }); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = w.Stop() }()

	writeFile(t, dir, "02-objects.yaml", `
Object:
  buffer:
    0:
      size: 4096
`)

	select {
	case result := <-results:
		if len(result.Objects) != 1 {
			t.Errorf("got %d objects, want 1", len(result.Objects))
		}
		if attr := result.Objects[0].Attribute("size"); attr == nil || attr.Integer != 4096 {
			t.Errorf("size = %+v, want 4096", attr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no recompilation within timeout")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "classes.yaml", classDoc)

	c, err := New(Options{Paths: []string{dir}}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *Result, 1)
	w := NewWatcher(c, zerolog.Nop())
	w.debounce = 50 * time.Millisecond
	if err := w.Start(ctx, func(r *Result) { results <- r }); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = w.Stop() }()

	writeFile(t, dir, "notes.txt", "irrelevant")

	select {
	case <-results:
		t.Fatal("non-config file change should not trigger a recompilation")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherStop(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "classes.yaml", classDoc)

	c, err := New(Options{Paths: []string{dir}}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	w := NewWatcher(c, zerolog.Nop())
	if err := w.Start(context.Background(), func(*Result) {}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
