package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lmuldr/netget/pkg/xferlib"
)

// parseURL turns a raw command-line argument into the structured URL value
// the core consumes. URL parsing is an out-of-scope collaborator of the
// core (spec.md §1): the core never sees a raw string.
func parseURL(raw string) (xferlib.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return xferlib.URL{}, fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return xferlib.URL{}, fmt.Errorf("invalid url: %w", err)
	}

	var scheme xferlib.Scheme
	switch strings.ToLower(u.Scheme) {
	case "http":
		scheme = xferlib.SchemeHTTP
	case "https":
		scheme = xferlib.SchemeHTTPS
	case "ftp":
		scheme = xferlib.SchemeFTP
	default:
		return xferlib.URL{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	port := 0
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return xferlib.URL{}, fmt.Errorf("invalid port %q", p)
		}
		port = n
	}

	password, _ := u.User.Password()
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	return xferlib.URL{
		Scheme:   scheme,
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		Path:     path,
		Query:    u.RawQuery,
	}, nil
}
