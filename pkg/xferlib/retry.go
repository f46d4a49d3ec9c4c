package xferlib

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"
)

// retryBackoff is the fixed delay between open() retry attempts. The
// governor does not use exponential backoff or jitter.
const retryBackoff = 1 * time.Second

// ClassifyError decides whether err, returned from a client's open(),
// should be retried. Only connect-phase failures are retriable; anything
// mid-stream (read_data) must never be passed through this classifier.
func ClassifyError(err error) Kind {
	if err == nil {
		return KindProviderInternal
	}

	var xerr *TransferError
	if errors.As(err, &xerr) {
		return xerr.Kind
	}

	if errors.Is(err, context.Canceled) {
		return KindUserAbort
	}

	var certVerifyErr *tls.CertificateVerificationError
	var unknownAuthErr x509.UnknownAuthorityError
	var certInvalidErr x509.CertificateInvalidError
	var hostnameErr x509.HostnameError
	if errors.As(err, &certVerifyErr) || errors.As(err, &unknownAuthErr) ||
		errors.As(err, &certInvalidErr) || errors.As(err, &hostnameErr) {
		return KindTlsPolicy
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return KindConnectFailed
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeoutConnect
	}

	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		switch sysErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.EPIPE:
			return KindConnectFailed
		}
	}

	lower := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection reset", "connection refused", "broken pipe",
		"timeout", "no such host", "network is unreachable",
	} {
		if strings.Contains(lower, pattern) {
			return KindConnectFailed
		}
	}

	return KindProviderInternal
}

// RetryGovernor drives the retry policy around a client's open() call
// (§4.1.3): fixed 1-second backoff, listener notification on each retry,
// abort-aware sleep. read_data is never retried by design — callers must
// not route read_data errors through Run.
type RetryGovernor struct {
	MaxRetries int
	Abort      *AbortSignal
	Notify     func(msg string)
}

// Run invokes attempt() up to MaxRetries+1 times. attempt must return a
// *TransferError (or nil) so Run can classify retriability via Kind.
func (g *RetryGovernor) Run(ctx context.Context, attempt func(n int) error) error {
	var lastErr error
	for n := 0; n <= g.MaxRetries; n++ {
		if g.Abort != nil && g.Abort.IsSet() {
			return NewError(KindUserAbort, "open", nil)
		}
		err := attempt(n)
		if err == nil {
			return nil
		}
		lastErr = err

		var xerr *TransferError
		retriable := errors.As(err, &xerr) && xerr.IsRetriable()
		if !retriable || n == g.MaxRetries {
			return err
		}

		if g.Notify != nil {
			g.Notify(fmt.Sprintf("Request failed, retrying (%d/%d)...", n+1, g.MaxRetries))
		}
		if err := g.sleep(ctx); err != nil {
			return NewError(KindUserAbort, "open", err)
		}
	}
	return lastErr
}

func (g *RetryGovernor) sleep(ctx context.Context) error {
	t := time.NewTimer(retryBackoff)
	defer t.Stop()
	poll := time.NewTicker(25 * time.Millisecond)
	defer poll.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		case <-poll.C:
			if g.Abort != nil && g.Abort.IsSet() {
				return errors.New("user abort")
			}
		}
	}
}
