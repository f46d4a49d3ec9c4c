package xferlib

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// DefaultMaxRedirects is the maximum number of redirect hops an HttpClient
// with DisableRedirect=false will follow.
const DefaultMaxRedirects = 10

var (
	// ErrTooManyRedirects is returned when a redirect chain exceeds the max hops.
	ErrTooManyRedirects = errors.New("redirect loop detected")
	// ErrCrossProtocolRedirect is returned on an HTTP(S) -> non-HTTP(S) hop.
	ErrCrossProtocolRedirect = errors.New("cross-protocol redirect not supported")
)

func isHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

func isCrossOrigin(a, b *url.URL) bool {
	return a.Host != b.Host
}

// safeHeaders survive a cross-origin redirect hop; everything else is
// stripped to avoid leaking credentials/tokens to a different origin.
var safeHeaders = map[string]bool{
	"User-Agent":      true,
	"Accept":          true,
	"Accept-Language": true,
	"Accept-Encoding": true,
	"Range":           true,
}

func stripUnsafeHeaders(req *http.Request) {
	for key := range req.Header {
		if !safeHeaders[http.CanonicalHeaderKey(key)] {
			req.Header.Del(key)
		}
	}
}

// RedirectPolicy returns a CheckRedirect function. If disableRedirect is
// set, every redirect is refused via http.ErrUseLastResponse (§4.1.1:
// "disable auto-redirect iff disable_redir"). Otherwise it enforces
// DefaultMaxRedirects hops, rejects cross-protocol redirects, and strips
// unsafe headers across origins.
func RedirectPolicy(disableRedirect bool) func(*http.Request, []*http.Request) error {
	if disableRedirect {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= DefaultMaxRedirects {
			lastURL := via[len(via)-1].URL.String()
			return fmt.Errorf("%w: exceeded %d hops (last URL: %s)",
				ErrTooManyRedirects, DefaultMaxRedirects, lastURL)
		}
		if len(via) > 0 {
			prev := via[len(via)-1]
			if isHTTPScheme(prev.URL.Scheme) && !isHTTPScheme(req.URL.Scheme) {
				return fmt.Errorf("%w: %s -> %s", ErrCrossProtocolRedirect, prev.URL.Scheme, req.URL.Scheme)
			}
			if isCrossOrigin(prev.URL, req.URL) {
				stripUnsafeHeaders(req)
			}
		}
		return nil
	}
}
