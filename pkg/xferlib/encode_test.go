package xferlib

import "testing"

func TestUrlEncode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"foo=bar baz", "foo%3Dbar+baz"},
		{"hello", "hello"},
		{"a b", "a+b"},
	}
	for _, c := range cases {
		if got := urlEncode(c.in); got != c.want {
			t.Errorf("urlEncode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUrlEncodeIdempotentOnUnreserved(t *testing.T) {
	const s = "abcXYZ019-_.~"
	if got := urlEncode(s); got != s {
		t.Errorf("urlEncode(%q) = %q, want unchanged", s, got)
	}
}
