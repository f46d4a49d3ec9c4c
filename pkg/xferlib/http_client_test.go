package xferlib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
)

func testURLFrom(t *testing.T, ts *httptest.Server) URL {
	t.Helper()
	parsed, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(parsed.Port())
	return URL{Scheme: SchemeHTTP, Host: parsed.Hostname(), Port: port, Path: "/a.bin"}
}

func TestHTTPClientByteExactDelivery(t *testing.T) {
	body := make([]byte, 1048576)
	for i := range body {
		body[i] = byte(i)
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Mon, 01 Jan 2024 00:00:00 GMT")
		w.Write(body)
	}))
	defer ts.Close()

	target := testURLFrom(t, ts)
	c, err := NewHTTPClient(target, Params{RetryCount: 0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Open(ctx, VerbGET, nil, "", TimeUnknown); err != nil {
		t.Fatal(err)
	}
	meta, err := c.Result(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !meta.Success {
		t.Fatal("expected success")
	}
	if meta.FileSize != uint64(len(body)) {
		t.Errorf("FileSize = %d, want %d", meta.FileSize, len(body))
	}
	if meta.LastModifiedTS != 1704067200 {
		t.Errorf("LastModifiedTS = %d, want 1704067200", meta.LastModifiedTS)
	}

	var got []byte
	buf := make([]byte, ChunkSize)
	for {
		n, eof, err := c.ReadData(ctx, buf)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, buf[:n]...)
		if eof {
			break
		}
	}
	if len(got) != len(body) {
		t.Fatalf("read %d bytes, want %d", len(got), len(body))
	}
	for i := range body {
		if got[i] != body[i] {
			t.Fatalf("byte mismatch at offset %d", i)
		}
	}
}

func TestHTTPClientConditionalGet304(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(IfModifiedSinceKey) != "" {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Write([]byte("abc"))
	}))
	defer ts.Close()

	target := testURLFrom(t, ts)
	c, err := NewHTTPClient(target, Params{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Open(ctx, VerbGET, nil, "", 1704067200); err != nil {
		t.Fatal(err)
	}
	meta, err := c.Result(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if meta.StatusCode != http.StatusNotModified {
		t.Errorf("StatusCode = %d, want 304", meta.StatusCode)
	}
}

func TestHTTPClientRejectStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	target := testURLFrom(t, ts)
	c, err := NewHTTPClient(target, Params{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Open(ctx, VerbGET, nil, "", TimeUnknown); err != nil {
		t.Fatal(err)
	}
	meta, err := c.Result(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Success {
		t.Error("404 should not be Success")
	}
	if meta.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", meta.StatusCode)
	}
}

func TestHTTPClientUnknownSizeOnChunked(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Transfer-Encoding", "chunked")
		fw := w.(http.Flusher)
		w.Write([]byte("abc"))
		fw.Flush()
	}))
	defer ts.Close()

	target := testURLFrom(t, ts)
	c, err := NewHTTPClient(target, Params{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Open(ctx, VerbGET, nil, "", TimeUnknown); err != nil {
		t.Fatal(err)
	}
	meta, err := c.Result(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if meta.FileSize != SizeUnknown {
		t.Errorf("FileSize = %d, want SizeUnknown for a chunked response", meta.FileSize)
	}

	buf := make([]byte, ChunkSize)
	var total int
	for {
		n, eof, err := c.ReadData(ctx, buf)
		if err != nil {
			t.Fatal(err)
		}
		total += n
		if eof {
			break
		}
	}
	if total != 3 {
		t.Errorf("read %d bytes, want 3", total)
	}
}

func TestHTTPClientAppliesHeadersThroughHeadersType(t *testing.T) {
	var gotUA, gotReferer, gotRange string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get(UserAgentKey)
		gotReferer = r.Header.Get(RefererKey)
		gotRange = r.Header.Get(RangeKey)
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	target := testURLFrom(t, ts)
	c, err := NewHTTPClient(target, Params{UserAgent: "netget-test/1.0"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	c.SetRange(10, SizeFromUint64(20))

	ctx := context.Background()
	if err := c.Open(ctx, VerbGET, nil, "http://referer.example/", TimeUnknown); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Result(ctx); err != nil {
		t.Fatal(err)
	}

	if gotUA != "netget-test/1.0" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "netget-test/1.0")
	}
	if gotReferer != "http://referer.example/" {
		t.Errorf("Referer = %q, want %q", gotReferer, "http://referer.example/")
	}
	if gotRange != "bytes=10-20" {
		t.Errorf("Range = %q, want %q", gotRange, "bytes=10-20")
	}
}

