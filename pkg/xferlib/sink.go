package xferlib

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sink is the byte-stream consumer capability set (§4.2, §9: "express as a
// capability set {open, write, close}"). Invariant: after Open returns nil,
// Write may be called 0..N times, then exactly one Close; no writes after
// Close.
type Sink interface {
	Open() error
	Write(buf []byte, n int) error
	Close(success bool) error
}

// FileSink writes to a temporary file colocated with the target path, then
// atomically completes it on success (§4.2 FileSink).
type FileSink struct {
	target     string
	mtime      time.Time // zero ⇒ do not touch
	keepFailed bool

	mu       sync.Mutex
	tmp      *os.File
	tmpPath  string
	writeErr error
}

// NewFileSink returns a FileSink writing to target. mtime is the timestamp
// to propagate on success; pass the zero time to leave mtime untouched.
func NewFileSink(target string, mtime time.Time, keepFailed bool) *FileSink {
	return &FileSink{target: target, mtime: mtime, keepFailed: keepFailed}
}

// Open creates the colocated temporary file.
func (f *FileSink) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	dir := filepath.Dir(f.target)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.target)+".*.tmp")
	if err != nil {
		return NewError(KindSinkOpenFailed, "sink.open", err)
	}
	if err := tmp.Chmod(DefaultFileMode); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return NewError(KindSinkOpenFailed, "sink.open", err)
	}
	f.tmp = tmp
	f.tmpPath = tmp.Name()
	return nil
}

// Write appends buf[:n] to the temporary file. Once a write has failed, all
// further writes are no-ops returning the recorded error, per §4.2 "If
// write fails partway, subsequent writes return false without further I/O".
func (f *FileSink) Write(buf []byte, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, err := f.tmp.Write(buf[:n]); err != nil {
		f.writeErr = NewError(KindWriteFailed, "sink.write", err)
		return f.writeErr
	}
	return nil
}

// Close finalizes the sink. On success it flushes, optionally sets mtime,
// then atomically renames over the target. On failure it deletes the
// temporary unless keepFailed is set, in which case it is renamed to
// "<target>.partial".
func (f *FileSink) Close(success bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tmp == nil {
		return nil
	}
	tmp := f.tmp
	f.tmp = nil

	if err := tmp.Sync(); err != nil && success {
		tmp.Close()
		os.Remove(f.tmpPath)
		return NewError(KindWriteFailed, "sink.close", err)
	}
	if err := tmp.Close(); err != nil && success {
		os.Remove(f.tmpPath)
		return NewError(KindWriteFailed, "sink.close", err)
	}

	if success {
		if !f.mtime.IsZero() {
			if err := os.Chtimes(f.tmpPath, f.mtime, f.mtime); err != nil {
				os.Remove(f.tmpPath)
				return NewError(KindWriteFailed, "sink.close", err)
			}
		}
		if err := moveFile(f.tmpPath, f.target); err != nil {
			os.Remove(f.tmpPath)
			return NewError(KindWriteFailed, "sink.close", err)
		}
		return nil
	}

	if f.keepFailed {
		partial := f.target + ".partial"
		if err := moveFile(f.tmpPath, partial); err != nil {
			os.Remove(f.tmpPath)
		}
		return nil
	}
	os.Remove(f.tmpPath)
	return nil
}

// moveFile renames src to dst atomically when possible, falling back to
// copy+delete on a cross-device rename (EXDEV).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	return copyAndDelete(src, dst)
}

func copyAndDelete(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, DefaultFileMode)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	succeeded := false
	defer func() {
		dstFile.Close()
		if !succeeded {
			os.Remove(dst)
		}
	}()

	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(dstFile, srcFile, buf); err != nil {
		return fmt.Errorf("copy content: %w", err)
	}
	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	succeeded = true
	srcFile.Close()
	return os.Remove(src)
}

// StdOutSink writes binary bytes to process standard output.
type StdOutSink struct {
	w io.Writer
}

// NewStdOutSink wraps w (typically os.Stdout).
func NewStdOutSink(w io.Writer) *StdOutSink {
	return &StdOutSink{w: w}
}

// Open is a no-op; the stream is assumed already valid.
func (s *StdOutSink) Open() error { return nil }

// Write writes buf[:n] to the underlying stream.
func (s *StdOutSink) Write(buf []byte, n int) error {
	if _, err := s.w.Write(buf[:n]); err != nil {
		return NewError(KindWriteFailed, "sink.write", err)
	}
	return nil
}

// Close is a no-op beyond flushing if the writer supports it.
func (s *StdOutSink) Close(success bool) error {
	if flusher, ok := s.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// NullSink accepts all writes, counts bytes, performs no I/O.
type NullSink struct {
	mu    sync.Mutex
	Total uint64
}

// Open is a no-op.
func (n *NullSink) Open() error { return nil }

// Write counts n bytes without writing anywhere.
func (n *NullSink) Write(buf []byte, written int) error {
	n.mu.Lock()
	n.Total += uint64(written)
	n.mu.Unlock()
	return nil
}

// Close is a no-op.
func (n *NullSink) Close(success bool) error { return nil }
