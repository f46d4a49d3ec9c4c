package xferlib

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileSinkAtomicSuccess(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.bin")
	mtime := time.Unix(1704067200, 0)

	s := NewFileSink(target, mtime, false)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	payload := []byte("hello world")
	if err := s.Write(payload, len(payload)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(true); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("target file missing: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("content = %q, want %q", got, payload)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestFileSinkCloseSuccessZeroBytes(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "empty.bin")
	s := NewFileSink(target, time.Time{}, false)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(true); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("zero-byte success close must still produce the target file: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("size = %d, want 0", info.Size())
	}
}

func TestFileSinkCloseFailureDiscardsByDefault(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.bin")
	s := NewFileSink(target, time.Time{}, false)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	s.Write([]byte("partial"), 7)
	if err := s.Close(false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("target should not exist after a failed close without keep_failed")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no temporary should survive a discarded failure, found: %v", entries)
	}
}

func TestFileSinkCloseFailureKeepsPartial(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.bin")
	s := NewFileSink(target, time.Time{}, true)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	s.Write([]byte("partial"), 7)
	if err := s.Close(false); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(target + ".partial")
	if err != nil {
		t.Fatalf("expected <target>.partial to exist: %v", err)
	}
	if string(got) != "partial" {
		t.Errorf("partial content = %q, want %q", got, "partial")
	}
}

func TestNullSinkCountsWithoutIO(t *testing.T) {
	n := &NullSink{}
	if err := n.Open(); err != nil {
		t.Fatal(err)
	}
	n.Write(make([]byte, 100), 100)
	n.Write(make([]byte, 50), 50)
	if n.Total != 150 {
		t.Errorf("Total = %d, want 150", n.Total)
	}
}
