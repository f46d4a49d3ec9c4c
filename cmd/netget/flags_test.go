package main

import (
	"testing"

	"github.com/lmuldr/netget/pkg/xferlib"
)

func TestBuildParamsNoRetryWinsOverRetry(t *testing.T) {
	resetFlagVars()
	defer resetFlagVars()
	retryFlag = 5
	noRetryFlag = true

	p := buildParams()
	if p.RetryCount != 0 {
		t.Errorf("RetryCount = %d, want 0 when --no-retry is set", p.RetryCount)
	}
}

func TestBuildParamsTimeoutShorthand(t *testing.T) {
	resetFlagVars()
	defer resetFlagVars()
	timeoutFlag = 15

	p := buildParams()
	if p.TimeoutConnectS != 15 || p.TimeoutReceiveS != 15 {
		t.Errorf("TimeoutConnectS/TimeoutReceiveS = %d/%d, want 15/15", p.TimeoutConnectS, p.TimeoutReceiveS)
	}
}

func TestBuildParamsPerDirectionTimeoutsWithoutShorthand(t *testing.T) {
	resetFlagVars()
	defer resetFlagVars()
	timeConnFlag = 3
	timeRecvFlag = 7

	p := buildParams()
	if p.TimeoutConnectS != 3 || p.TimeoutReceiveS != 7 {
		t.Errorf("TimeoutConnectS/TimeoutReceiveS = %d/%d, want 3/7", p.TimeoutConnectS, p.TimeoutReceiveS)
	}
}

func TestDefaultOutputName(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/a.bin", "a.bin"},
		{"/dir/file.txt", "file.txt"},
		{"/", "index.html"},
		{"/dir/", "index.html"},
	}
	for _, c := range cases {
		got := defaultOutputName(xferlib.URL{Path: c.path})
		if got != c.want {
			t.Errorf("defaultOutputName(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestExitCodeFor(t *testing.T) {
	if got := exitCodeFor(xferlib.NewError(xferlib.KindUserAbort, "op", nil)); got != 130 {
		t.Errorf("exit code for UserAbort = %d, want 130", got)
	}
	if got := exitCodeFor(xferlib.NewError(xferlib.KindRequestRejected, "op", nil)); got != 1 {
		t.Errorf("exit code for RequestRejected = %d, want 1", got)
	}
}
