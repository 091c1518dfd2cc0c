package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const page = `<html><head><title>Signup</title></head><body><button style="color:#777;background:#888">Join</button></body></html>`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_FileThenHistory(t *testing.T) {
	dir := t.TempDir()
	o := options{
		file:   writePage(t),
		dbPath: filepath.Join(dir, "data", "ux.db"),
		asJSON: true,
	}
	ctx := context.Background()
	if err := run(ctx, quietLogger(), o); err != nil {
		t.Fatalf("file: %v", err)
	}
	o.asJSON = false
	if err := run(ctx, quietLogger(), o); err != nil {
		t.Fatalf("file markdown: %v", err)
	}
	if err := run(ctx, quietLogger(), options{history: true, dbPath: o.dbPath}); err != nil {
		t.Fatalf("history: %v", err)
	}
}

func TestRun_MissingFile(t *testing.T) {
	o := options{file: filepath.Join(t.TempDir(), "nope.html"), dbPath: ":memory:"}
	if err := run(context.Background(), quietLogger(), o); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRun_Principles(t *testing.T) {
	if err := run(context.Background(), quietLogger(), options{principles: true, category: "accessibility"}); err != nil {
		t.Fatal(err)
	}
	if err := run(context.Background(), quietLogger(), options{principles: true, category: "no such thing"}); err == nil {
		t.Fatal("expected unknown category error")
	}
}

func TestServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, quietLogger(), options{serve: true, dbPath: ":memory:", listen: "127.0.0.1:0"})
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestWatchFile_Debounces(t *testing.T) {
	path := writePage(t)
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, quietLogger(), path, func() error {
			runs.Add(1)
			return nil
		})
	}()

	waitFor(t, func() bool { return runs.Load() == 1 })
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(page+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, func() bool { return runs.Load() == 2 })

	time.Sleep(2 * debounce)
	if n := runs.Load(); n != 2 {
		t.Errorf("runs = %d, want 2 (initial + one debounced burst)", n)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met")
}
