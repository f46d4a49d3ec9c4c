package xferlib

import "fmt"

// Kind classifies a TransferError for the retry governor and the exit-code
// mapping in the CLI front end.
type Kind int

const (
	// KindInvalidArgument covers malformed Params/URL input.
	KindInvalidArgument Kind = iota
	// KindUrlUnsupported covers a scheme the client set doesn't know.
	KindUrlUnsupported
	// KindConnectFailed is retriable: transport-level connect failure.
	KindConnectFailed
	// KindRequestRejected covers HTTP 4xx/5xx or the FTP equivalent; non-retriable.
	KindRequestRejected
	// KindTlsPolicy covers certificate/CRL policy violations; non-retriable.
	KindTlsPolicy
	// KindTimeoutConnect is retriable: the provider could not connect in time.
	KindTimeoutConnect
	// KindTimeoutReceive covers a mid-stream read timeout; non-retriable.
	KindTimeoutReceive
	// KindReadFailed covers any other read_data failure.
	KindReadFailed
	// KindWriteFailed covers a sink write failure.
	KindWriteFailed
	// KindSinkOpenFailed covers a sink open failure.
	KindSinkOpenFailed
	// KindUserAbort is always terminal and quiet.
	KindUserAbort
	// KindProviderInternal covers anything that doesn't fit the above.
	KindProviderInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindUrlUnsupported:
		return "UrlUnsupported"
	case KindConnectFailed:
		return "ConnectFailed"
	case KindRequestRejected:
		return "RequestRejected"
	case KindTlsPolicy:
		return "TlsPolicy"
	case KindTimeoutConnect:
		return "TimeoutConnect"
	case KindTimeoutReceive:
		return "TimeoutReceive"
	case KindReadFailed:
		return "ReadFailed"
	case KindWriteFailed:
		return "WriteFailed"
	case KindSinkOpenFailed:
		return "SinkOpenFailed"
	case KindUserAbort:
		return "UserAbort"
	case KindProviderInternal:
		return "ProviderInternal"
	default:
		return "Unknown"
	}
}

// TransferError is the structured error surfaced by every core operation.
type TransferError struct {
	Kind  Kind
	Op    string
	Cause error
}

// Error implements the error interface: "op: kind: cause".
func (e *TransferError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap enables errors.Is/As chaining onto Cause.
func (e *TransferError) Unwrap() error {
	return e.Cause
}

// IsRetriable reports whether the retry governor should re-attempt open()
// after this error. Only ConnectFailed and TimeoutConnect are retriable
// per the retry governor's contract; a mid-stream read never retries.
func (e *TransferError) IsRetriable() bool {
	return e.Kind == KindConnectFailed || e.Kind == KindTimeoutConnect
}

// NewError wraps cause with the given kind and operation name.
func NewError(kind Kind, op string, cause error) *TransferError {
	return &TransferError{Kind: kind, Op: op, Cause: cause}
}
