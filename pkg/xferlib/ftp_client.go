package xferlib

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"time"

	"github.com/jlaffaye/ftp"
)

// FTPClient is the FTP/FTPS AbstractClient variant (§4.1.2). It simulates
// HTTP-like semantics: authenticate, SIZE/MDTM for metadata, then a single
// binary-mode RETR data stream. Only GET is supported.
type FTPClient struct {
	baseClient

	target URL
	useTLS bool

	timeoutConn time.Duration
	retry       RetryGovernor

	conn     *ftp.ServerConn
	resp     *ftp.Response
	fileSize Size
	mtime    int64
}

// NewFTPClient constructs an FTPClient for target.
func NewFTPClient(target URL, p Params, abort *AbortSignal) *FTPClient {
	connTimeout := time.Duration(p.TimeoutConnectS) * time.Second
	if p.TimeoutConnectS < 0 {
		connTimeout = 30 * time.Second
	}
	c := &FTPClient{
		baseClient: baseClient{
			userAgent:    p.EffectiveUserAgent(),
			disableProxy: p.DisableProxy,
			verbose:      p.Verbose,
			abort:        abort,
		},
		target:      target,
		useTLS:      target.Scheme == SchemeFTP && target.Port == 990,
		timeoutConn: connTimeout,
		fileSize:    UnknownSize,
		mtime:       TimeUnknown,
		retry:       RetryGovernor{MaxRetries: p.RetryCount, Abort: abort},
	}
	c.retry.Notify = c.emit
	return c
}

// Open implements Client.Open. Verbs other than GET are rejected
// immediately, per §4.1.2 "Verbs other than GET are rejected at open".
func (c *FTPClient) Open(ctx context.Context, verb Verb, postBody []byte, referrer string, ifModifiedSince int64) error {
	if verb != VerbGET {
		err := fmt.Errorf("FTP does not support verb %s", verb)
		c.setErr(err.Error())
		return NewError(KindInvalidArgument, "ftp.open", err)
	}
	return c.retry.Run(ctx, func(attempt int) error {
		return c.openOnce(ctx)
	})
}

func (c *FTPClient) openOnce(ctx context.Context) error {
	user, pass := c.target.User, c.target.Password
	if user == "" {
		user, pass = "anonymous", "anonymous"
	}

	host := fmt.Sprintf("%s:%d", c.target.Host, c.target.EffectivePort())
	dialOpts := []ftp.DialOption{
		ftp.DialWithTimeout(c.timeoutConn),
		ftp.DialWithContext(ctx),
	}
	if c.useTLS {
		dialOpts = append(dialOpts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: c.target.Host,
			MinVersion: tls.VersionTLS12,
		}))
	}

	conn, err := ftp.Dial(host, dialOpts...)
	if err != nil {
		c.setErr(err.Error())
		return classifyFTPError("ftp.open", err)
	}
	if err := conn.Login(user, pass); err != nil {
		conn.Quit()
		c.setErr(err.Error())
		return classifyFTPError("ftp.open", err)
	}
	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		conn.Quit()
		c.setErr(err.Error())
		return NewError(KindProviderInternal, "ftp.open", err)
	}
	c.conn = conn
	c.emit(fmt.Sprintf("connected to %s", host))
	return nil
}

// Result implements Client.Result, using SIZE and MDTM for the two
// metadata fields the provider contract requires (§4.1.2).
func (c *FTPClient) Result(ctx context.Context) (ClientMeta, error) {
	if c.conn == nil {
		return ClientMeta{}, NewError(KindProviderInternal, "ftp.result", fmt.Errorf("result before open"))
	}

	size, err := c.conn.FileSize(c.target.Path)
	if err != nil {
		c.setErr(err.Error())
		return ClientMeta{
			Success:    false,
			StatusCode: 404,
		}, nil
	}
	c.fileSize = Size(size)

	if mt, err := c.conn.GetTime(c.target.Path); err == nil {
		c.mtime = mt.Unix()
	}

	resp, err := c.conn.Retr(c.target.Path)
	if err != nil {
		c.setErr(err.Error())
		return ClientMeta{Success: false, StatusCode: 500}, nil
	}
	c.resp = resp

	return ClientMeta{
		Success:        true,
		StatusCode:     200,
		FileSize:       c.fileSize.ToUint64(),
		LastModifiedTS: c.mtime,
	}, nil
}

// ReadData implements Client.ReadData by reading from the open RETR stream.
func (c *FTPClient) ReadData(ctx context.Context, buf []byte) (n int, eof bool, err error) {
	if c.resp == nil {
		return 0, false, NewError(KindProviderInternal, "ftp.read", fmt.Errorf("read before result"))
	}
	n, rerr := c.resp.Read(buf)
	if rerr == io.EOF {
		return n, true, nil
	}
	if rerr != nil {
		c.setErr(rerr.Error())
		return n, false, NewError(KindReadFailed, "ftp.read", rerr)
	}
	return n, false, nil
}

// Close implements Client.Close. Idempotent.
func (c *FTPClient) Close() error {
	var firstErr error
	if c.resp != nil {
		firstErr = c.resp.Close()
		c.resp = nil
	}
	if c.conn != nil {
		if err := c.conn.Quit(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.conn = nil
	}
	return firstErr
}

// classifyFTPError maps an FTP error to a Kind: 4xx responses and network
// errors are connect-retriable, 5xx and everything else is not.
func classifyFTPError(op string, err error) *TransferError {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		if tpErr.Code >= 400 && tpErr.Code < 500 {
			return NewError(KindConnectFailed, op, err)
		}
		return NewError(KindRequestRejected, op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewError(KindTimeoutConnect, op, err)
		}
		return NewError(KindConnectFailed, op, err)
	}
	return NewError(KindProviderInternal, op, err)
}
