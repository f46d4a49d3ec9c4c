package xferlib

import "net/http"

const (
	// UserAgentKey is the canonical HTTP header name for the user agent.
	UserAgentKey = "User-Agent"
	// RangeKey is the canonical HTTP header name for byte-range requests.
	RangeKey = "Range"
	// IfModifiedSinceKey is the canonical HTTP header name for conditional GET.
	IfModifiedSinceKey = "If-Modified-Since"
	// RefererKey is the canonical HTTP header name for the referrer.
	RefererKey = "Referer"
	// ContentTypeKey is the canonical HTTP header name for the request/response content type.
	ContentTypeKey = "Content-Type"
)

// Header is a single key/value pair applied to an outgoing request.
type Header struct {
	Key   string
	Value string
}

// Set applies the header to h, overwriting any existing value for Key.
func (h Header) Set(header http.Header) {
	header.Set(h.Key, h.Value)
}

// Headers is an ordered list of Header values built up by a client before
// open().
type Headers []Header

// Get returns the index of the header with the given key, if present.
func (h Headers) Get(key string) (index int, have bool) {
	for i, x := range h {
		if x.Key == key {
			return i, true
		}
	}
	return 0, false
}

// InitOrUpdate sets key to value only if key is not already present.
func (h *Headers) InitOrUpdate(key, value string) {
	if _, ok := h.Get(key); ok {
		return
	}
	*h = append(*h, Header{key, value})
}

// Update sets key to value, overwriting any prior entry.
func (h *Headers) Update(key, value string) {
	if i, ok := h.Get(key); ok {
		(*h)[i] = Header{key, value}
		return
	}
	*h = append(*h, Header{key, value})
}

// Apply writes every header onto header, in order.
func (h Headers) Apply(header http.Header) {
	for _, x := range h {
		x.Set(header)
	}
}
