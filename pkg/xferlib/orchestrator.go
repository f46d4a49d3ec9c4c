package xferlib

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lmuldr/netget/pkg/logger"
)

// Output sentinels for the positional <output_file> argument (§6).
const (
	OutputStdout = "-"
	OutputNull   = "NUL"
)

// Transfer composes (Params, URL) → (Client, Sink) → outcome, per §4.3-4.4.
// It is the single stateless entry point cmd/netget drives.
func Transfer(ctx context.Context, p Params, u URL, output string, abort *AbortSignal, log logger.Logger) error {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if !u.Complete() {
		return NewError(KindUrlUnsupported, "transfer", fmt.Errorf("unsupported or incomplete URL"))
	}

	console := &ConsoleMutex{}
	listener := NewConsoleListener(console, log, abort)

	client, err := newClient(u, p, abort)
	if err != nil {
		return err
	}
	client.AddListener(listener)
	defer client.Close()

	postBody, err := resolvePostBody(p.PostData)
	if err != nil {
		return NewError(KindInvalidArgument, "transfer", err)
	}

	ifModifiedSince := TimeUnknown
	if p.UpdateMode {
		if info, err := os.Stat(output); err == nil {
			ifModifiedSince = info.ModTime().Unix()
		} else {
			listener.OnMessage("local file missing, proceeding unconditionally")
		}
	}

	if err := client.Open(ctx, p.Verb, postBody, p.Referrer, ifModifiedSince); err != nil {
		notify(p.Notify, false)
		return err
	}

	meta, err := client.Result(ctx)
	if err != nil {
		notify(p.Notify, false)
		return err
	}

	if p.UpdateMode && meta.StatusCode == 304 {
		listener.OnMessage("skipped: not modified")
		notify(p.Notify, true)
		return nil
	}

	printResponseInfo(meta)

	if !meta.Success {
		listener.OnMessage(fmt.Sprintf("request failed: %s", client.GetErrorText()))
		notify(p.Notify, false)
		return NewError(KindRequestRejected, "transfer", fmt.Errorf("%s", client.GetErrorText()))
	}

	sink, err := newSink(output, p, meta)
	if err != nil {
		notify(p.Notify, false)
		return err
	}
	if err := sink.Open(); err != nil {
		notify(p.Notify, false)
		return err
	}

	err = runStreamingLoop(ctx, client, sink, meta, u, abort, listener)
	if err != nil {
		notify(p.Notify, false)
		return err
	}
	notify(p.Notify, true)
	return nil
}

func newClient(u URL, p Params, abort *AbortSignal) (Client, error) {
	switch u.Scheme {
	case SchemeHTTP, SchemeHTTPS:
		return NewHTTPClient(u, p, abort)
	case SchemeFTP:
		return NewFTPClient(u, p, abort), nil
	default:
		return nil, NewError(KindUrlUnsupported, "transfer", fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
}

func newSink(output string, p Params, meta ClientMeta) (Sink, error) {
	switch output {
	case OutputStdout:
		return NewStdOutSink(os.Stdout), nil
	case OutputNull:
		return &NullSink{}, nil
	default:
		var mtime time.Time
		if p.SetFileTime && meta.LastModifiedTS != TimeUnknown {
			mtime = time.Unix(meta.LastModifiedTS, 0)
		}
		return NewFileSink(output, mtime, p.KeepFailed), nil
	}
}

// resolvePostBody implements §4.3 step 1: literal post data, or read one
// line from stdin when post_data is "-".
func resolvePostBody(postData string) ([]byte, error) {
	if postData == "" {
		return nil, nil
	}
	if postData != "-" {
		return []byte(urlEncode(postData)), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")
	return []byte(urlEncode(line)), nil
}

func printResponseInfo(meta ClientMeta) {
	size := "<N/A>"
	if meta.FileSize != SizeUnknown {
		size = FormatBytes(meta.FileSize)
	}
	lastMod := "<N/A>"
	if meta.LastModifiedTS != TimeUnknown {
		lastMod = time.Unix(meta.LastModifiedTS, 0).UTC().Format(time.RFC1123)
	}
	fmt.Fprintf(os.Stderr, "Status: %d, Content-Type: %s, Content-Encoding: %s, Size: %s, Last-Modified: %s\n",
		meta.StatusCode, orNA(meta.ContentType), orNA(meta.ContentEncoding), size, lastMod)
}

func orNA(s string) string {
	if s == "" {
		return "<N/A>"
	}
	return s
}

func notify(enabled bool, success bool) {
	if !enabled {
		return
	}
	// The audible-notification hook is an out-of-scope collaborator;
	// emitting the terminal bell is the one cue the core can ring itself.
	if success {
		fmt.Fprint(os.Stderr, "\a")
	} else {
		fmt.Fprint(os.Stderr, "\a\a")
	}
}

// runStreamingLoop implements §4.4.
func runStreamingLoop(ctx context.Context, client Client, sink Sink, meta ClientMeta, u URL, abort *AbortSignal, listener Listener) error {
	buf := make([]byte, ChunkSize)
	timer := NewTimer()
	transferTimer := NewTimer()
	rate := NewRateEstimator()
	progress := NewProgress(os.Stderr, u.String())

	var totalBytes, transferredBytes uint64
	currentRate := rate.Current()
	eta := 0.0

	progress.Render(true, totalBytes, meta.FileSize, currentRate, eta)

	for {
		if abort.IsSet() {
			listener.OnMessage("aborted by user")
			sink.Close(false)
			return NewError(KindUserAbort, "transfer", fmt.Errorf("user abort"))
		}

		n, eof, err := client.ReadData(ctx, buf)
		if err != nil {
			listener.OnMessage(fmt.Sprintf("read failed: %s", err))
			sink.Close(false)
			return err
		}

		if n > 0 {
			totalBytes += uint64(n)
			transferredBytes += uint64(n)
			if transferTimer.Query() >= 0.5 {
				currentRate = rate.Update(float64(transferredBytes) / transferTimer.Query())
				transferTimer.Reset()
				transferredBytes = 0
			}
			if err := sink.Write(buf, n); err != nil {
				listener.OnMessage(fmt.Sprintf("write failed: %s", err))
				sink.Close(false)
				return err
			}
		}

		if abort.IsSet() {
			listener.OnMessage("aborted by user")
			sink.Close(false)
			return NewError(KindUserAbort, "transfer", fmt.Errorf("user abort"))
		}

		if meta.FileSize != SizeUnknown && totalBytes < meta.FileSize && currentRate > 0 {
			eta = float64(meta.FileSize-totalBytes) / currentRate
		}
		progress.Render(false, totalBytes, meta.FileSize, currentRate, eta)

		if eof {
			break
		}
	}

	progress.Render(true, totalBytes, meta.FileSize, currentRate, eta)
	totalTime := timer.Query()
	averageRate := float64(totalBytes) / totalTime
	if err := sink.Close(true); err != nil {
		return err
	}
	listener.OnMessage(fmt.Sprintf("Download completed in %s (avg. rate: %s/s)",
		FormatDuration(totalTime), FormatBytes(uint64(averageRate))))
	return nil
}
