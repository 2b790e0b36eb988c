package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCheck_NoChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.yaml")
	os.WriteFile(path, []byte("token: abc\n"), 0600)

	var calls int32
	w := New(path, time.Hour, func() { atomic.AddInt32(&calls, 1) })
	w.check()

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("onChange called %d times for unchanged file, want 0", got)
	}
}

func TestCheck_DetectsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.yaml")
	os.WriteFile(path, []byte("token: abc\n"), 0600)

	var calls int32
	w := New(path, time.Hour, func() { atomic.AddInt32(&calls, 1) })
	os.Remove(path)
	w.check()
	w.check()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("onChange called %d times, want 1", got)
	}
}

func TestPollDetectsCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.yaml")

	var calls int32
	w := New(path, 50*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	os.WriteFile(path, []byte("token: abc\n"), 0600)

	waitFor(t, func() bool { return atomic.LoadInt32(&calls) > 0 })
}

func TestStop_Idempotent(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "x"), 50*time.Millisecond, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()
}
