package xferlib

import (
	"net/http"
	"net/url"
	"testing"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestRedirectPolicyDisabled(t *testing.T) {
	policy := RedirectPolicy(true)
	req := &http.Request{URL: mustURL(t, "http://example.com/b")}
	if err := policy(req, []*http.Request{{URL: mustURL(t, "http://example.com/a")}}); err != http.ErrUseLastResponse {
		t.Errorf("disabled policy returned %v, want http.ErrUseLastResponse", err)
	}
}

func TestRedirectPolicyMaxHops(t *testing.T) {
	policy := RedirectPolicy(false)
	var via []*http.Request
	for i := 0; i < DefaultMaxRedirects; i++ {
		via = append(via, &http.Request{URL: mustURL(t, "http://example.com/")})
	}
	req := &http.Request{URL: mustURL(t, "http://example.com/")}
	if err := policy(req, via); err == nil {
		t.Fatal("expected ErrTooManyRedirects")
	}
}

func TestRedirectPolicyCrossProtocol(t *testing.T) {
	policy := RedirectPolicy(false)
	via := []*http.Request{{URL: mustURL(t, "https://example.com/")}}
	req := &http.Request{URL: mustURL(t, "ftp://example.com/")}
	if err := policy(req, via); err == nil {
		t.Fatal("expected ErrCrossProtocolRedirect")
	}
}

func TestRedirectPolicyStripsHeadersCrossOrigin(t *testing.T) {
	policy := RedirectPolicy(false)
	via := []*http.Request{{URL: mustURL(t, "https://a.example.com/")}}
	req := &http.Request{URL: mustURL(t, "https://b.example.com/"), Header: http.Header{
		"Authorization": []string{"Bearer token"},
		"User-Agent":    []string{"netget/1.0"},
	}}
	if err := policy(req, via); err != nil {
		t.Fatal(err)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Authorization should be stripped on cross-origin redirect")
	}
	if req.Header.Get("User-Agent") == "" {
		t.Error("User-Agent should survive cross-origin redirect")
	}
}
