package xferlib

import (
	"fmt"
	"os"

	"github.com/lmuldr/netget/pkg/logger"
)

// Listener receives structured diagnostic messages from a Client (§4.6).
// Dispatch to a Listener must be serialized by the caller.
type Listener interface {
	OnMessage(msg string)
}

// ConsoleListener prints every message to stderr and records it through its
// logger, serialized
// on a shared ConsoleMutex and prefixed "--> ", suppressing output once the
// user-abort signal is set to avoid interleaving with shutdown (§4.6).
type ConsoleListener struct {
	console *ConsoleMutex
	log     logger.Logger
	abort   *AbortSignal
}

// NewConsoleListener returns a ConsoleListener sharing console with other
// writers (e.g. progress rendering) so lines never interleave mid-write.
func NewConsoleListener(console *ConsoleMutex, log logger.Logger, abort *AbortSignal) *ConsoleListener {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ConsoleListener{console: console, log: log, abort: abort}
}

// OnMessage implements Listener.
func (c *ConsoleListener) OnMessage(msg string) {
	if c.abort != nil && c.abort.IsSet() {
		return
	}
	c.console.Guard(func() {
		fmt.Fprintf(os.Stderr, "--> %s\n", msg)
		c.log.Info("%s", msg)
	})
}
