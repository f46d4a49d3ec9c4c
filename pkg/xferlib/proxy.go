package xferlib

import (
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/net/proxy"
)

// newTransport builds an *http.Transport honoring disableProxy, wiring its
// dialer so connTimeout (§3 Params timeout_connect_s) applies regardless of
// which path below sets it. When proxying is enabled, SOCKS5 proxies named
// via ALL_PROXY/all_proxy are dialed directly through golang.org/x/net/proxy,
// using connTimeout as the base dialer's own timeout so the SOCKS5 path and
// the direct path enforce the same deadline; http(s) proxies fall back to
// http.ProxyFromEnvironment (which also applies NO_PROXY).
func newTransport(disableProxy bool, connTimeout time.Duration) (*http.Transport, error) {
	transport := &http.Transport{}
	if disableProxy {
		transport.Proxy = nil
		transport.DialContext = (&netDialer{timeout: connTimeout}).DialContext
		return transport, nil
	}

	if all := firstNonEmpty(os.Getenv("ALL_PROXY"), os.Getenv("all_proxy")); all != "" {
		parsed, err := url.Parse(all)
		if err == nil && parsed.Scheme == "socks5" {
			var auth *proxy.Auth
			if parsed.User != nil {
				pass, _ := parsed.User.Password()
				auth = &proxy.Auth{User: parsed.User.Username(), Password: pass}
			}
			base := &net.Dialer{Timeout: connTimeout}
			dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, base)
			if err == nil {
				if ctxDialer, ok := dialer.(proxy.ContextDialer); ok {
					transport.DialContext = ctxDialer.DialContext
				} else {
					transport.Dial = dialer.Dial
				}
				return transport, nil
			}
		}
	}

	transport.Proxy = http.ProxyFromEnvironment
	transport.DialContext = (&netDialer{timeout: connTimeout}).DialContext
	return transport, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
