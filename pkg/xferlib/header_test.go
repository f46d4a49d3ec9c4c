package xferlib

import (
	"net/http"
	"testing"
)

func TestHeadersInitOrUpdate(t *testing.T) {
	var h Headers
	h.InitOrUpdate(UserAgentKey, "first")
	h.InitOrUpdate(UserAgentKey, "second")
	if i, ok := h.Get(UserAgentKey); !ok || h[i].Value != "first" {
		t.Fatalf("InitOrUpdate should not overwrite an existing key, got %+v", h)
	}
}

func TestHeadersUpdate(t *testing.T) {
	var h Headers
	h.Update(UserAgentKey, "first")
	h.Update(UserAgentKey, "second")
	if i, ok := h.Get(UserAgentKey); !ok || h[i].Value != "second" {
		t.Fatalf("Update should overwrite, got %+v", h)
	}
}

func TestHeadersApply(t *testing.T) {
	h := Headers{{UserAgentKey, "netget/1.0"}, {RefererKey, "http://example.com"}}
	hdr := http.Header{}
	h.Apply(hdr)
	if hdr.Get(UserAgentKey) != "netget/1.0" {
		t.Errorf("UserAgent not applied: %v", hdr)
	}
	if hdr.Get(RefererKey) != "http://example.com" {
		t.Errorf("Referer not applied: %v", hdr)
	}
}
