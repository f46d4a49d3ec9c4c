package xferlib

import (
	"strconv"
	"strings"
)

// Scheme is the URL scheme tag consumed by the core.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
	SchemeFTP   Scheme = "ftp"
)

func defaultPort(s Scheme) int {
	switch s {
	case SchemeHTTP:
		return 80
	case SchemeHTTPS:
		return 443
	case SchemeFTP:
		return 21
	default:
		return 0
	}
}

// URL is the immutable structured value the core consumes; parsing it from
// a raw string is an out-of-scope collaborator (cmd/netget/urlparse.go).
type URL struct {
	Scheme   Scheme
	Host     string
	Port     int
	User     string
	Password string
	Path     string
	Query    string
}

// Complete reports whether scheme and host are present and the scheme is
// one this core supports.
func (u URL) Complete() bool {
	if u.Host == "" {
		return false
	}
	switch u.Scheme {
	case SchemeHTTP, SchemeHTTPS, SchemeFTP:
		return true
	default:
		return false
	}
}

// EffectivePort returns Port if set, else the scheme's default.
func (u URL) EffectivePort() int {
	if u.Port > 0 {
		return u.Port
	}
	return defaultPort(u.Scheme)
}

// RequestURI joins Path and Query the way net/http expects.
func (u URL) RequestURI() string {
	p := u.Path
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if u.Query != "" {
		return p + "?" + u.Query
	}
	return p
}

// String renders u back into a canonical URL string.
func (u URL) String() string {
	var b strings.Builder
	b.WriteString(string(u.Scheme))
	b.WriteString("://")
	if u.User != "" {
		b.WriteString(u.User)
		if u.Password != "" {
			b.WriteString(":")
			b.WriteString(u.Password)
		}
		b.WriteString("@")
	}
	b.WriteString(u.Host)
	if u.Port > 0 && u.Port != defaultPort(u.Scheme) {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(u.Port))
	}
	b.WriteString(u.RequestURI())
	return b.String()
}
