package xferlib

import (
	"errors"
	"testing"
)

func TestTransferErrorIsRetriable(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{KindConnectFailed, true},
		{KindTimeoutConnect, true},
		{KindTimeoutReceive, false},
		{KindRequestRejected, false},
		{KindUserAbort, false},
	}
	for _, c := range cases {
		e := NewError(c.kind, "op", nil)
		if got := e.IsRetriable(); got != c.want {
			t.Errorf("Kind %s: IsRetriable() = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestTransferErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := NewError(KindReadFailed, "read", cause)
	if !errors.Is(e, cause) {
		t.Fatal("errors.Is should see through TransferError.Unwrap")
	}
}

func TestTransferErrorMessage(t *testing.T) {
	e := NewError(KindTlsPolicy, "http.open", errors.New("certificate expired"))
	want := "http.open: TlsPolicy: certificate expired"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}
