package xferlib

// Verb is the request verb.
type Verb string

const (
	VerbGET    Verb = "GET"
	VerbPOST   Verb = "POST"
	VerbPUT    Verb = "PUT"
	VerbDELETE Verb = "DELETE"
	VerbHEAD   Verb = "HEAD"
)

// Params is the immutable configuration the core consumes; assembling it
// from CLI flags and/or a --config file is an out-of-scope collaborator.
type Params struct {
	Verb Verb
	// PostData is the literal post body, or "-" to mean "read one line
	// from standard input" (resolved by the orchestrator, §4.3 step 1).
	PostData string

	DisableProxy bool
	UserAgent    string
	DisableRedir bool

	Insecure bool
	ForceCRL bool

	TimeoutConnectS int
	TimeoutReceiveS int

	RetryCount int

	Referrer string

	SetFileTime bool
	UpdateMode  bool
	KeepFailed  bool
	Notify      bool
	Verbose     bool
}

// EffectiveUserAgent returns UserAgent, or DefaultUserAgent if empty.
func (p Params) EffectiveUserAgent() string {
	if p.UserAgent == "" {
		return DefaultUserAgent
	}
	return p.UserAgent
}
