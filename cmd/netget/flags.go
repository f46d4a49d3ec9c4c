package main

import "github.com/urfave/cli"

var (
	verbFlag       string
	dataFlag       string
	noProxyFlag    bool
	agentFlag      string
	noRedirFlag    bool
	insecureFlag   bool
	forceCRLFlag   bool
	referFlag      string
	timeConnFlag   int
	timeRecvFlag   int
	timeoutFlag    int
	retryFlag      int
	noRetryFlag    bool
	setFTimeFlag   bool
	updateFlag     bool
	keepFailedFlag bool
	notifyFlag     bool
	configFlag     string
	verboseFlag    bool

	xferFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "verb",
			Usage:       "request verb override (GET/POST/PUT/DELETE/HEAD)",
			Value:       "GET",
			Destination: &verbFlag,
		},
		cli.StringFlag{
			Name:        "data",
			Usage:       "post body; '-' reads one line from standard input",
			Destination: &dataFlag,
		},
		cli.BoolFlag{
			Name:        "no-proxy",
			Usage:       "disable system proxy for this transfer",
			Destination: &noProxyFlag,
		},
		cli.StringFlag{
			Name:        "agent",
			Usage:       "user-agent override",
			Destination: &agentFlag,
		},
		cli.BoolFlag{
			Name:        "no-redir",
			Usage:       "disable HTTP redirect following",
			Destination: &noRedirFlag,
		},
		cli.BoolFlag{
			Name:        "insecure",
			Usage:       "ignore TLS certificate errors",
			Destination: &insecureFlag,
		},
		cli.BoolFlag{
			Name:        "force-crl",
			Usage:       "require a successful CRL fetch",
			Destination: &forceCRLFlag,
		},
		cli.StringFlag{
			Name:        "refer",
			Usage:       "referrer header",
			Destination: &referFlag,
		},
		cli.IntFlag{
			Name:        "time-cn",
			Usage:       "connect timeout in seconds",
			Destination: &timeConnFlag,
		},
		cli.IntFlag{
			Name:        "time-rc",
			Usage:       "receive timeout in seconds",
			Destination: &timeRecvFlag,
		},
		cli.IntFlag{
			Name:        "timeout",
			Usage:       "shorthand for --time-cn and --time-rc together",
			Destination: &timeoutFlag,
		},
		cli.IntFlag{
			Name:        "retry",
			Usage:       "max retries",
			Value:       3,
			Destination: &retryFlag,
		},
		cli.BoolFlag{
			Name:        "no-retry",
			Usage:       "alias for --retry=0 (overrides --retry, whatever their order)",
			Destination: &noRetryFlag,
		},
		cli.BoolFlag{
			Name:        "set-ftime",
			Usage:       "propagate Last-Modified to the file's mtime",
			Destination: &setFTimeFlag,
		},
		cli.BoolFlag{
			Name:        "update",
			Usage:       "conditional GET using the local file's mtime",
			Destination: &updateFlag,
		},
		cli.BoolFlag{
			Name:        "keep-failed",
			Usage:       "keep the partial file on failure, as <output>.partial",
			Destination: &keepFailedFlag,
		},
		cli.BoolFlag{
			Name:        "notify",
			Usage:       "audible completion cue",
			Destination: &notifyFlag,
		},
		cli.StringFlag{
			Name:        "config",
			Usage:       "load flags from a config file (same syntax, one flag per line, # comments)",
			Destination: &configFlag,
		},
		cli.BoolFlag{
			Name:        "verbose",
			Usage:       "raise listener verbosity",
			Destination: &verboseFlag,
		},
	}
)

// resetFlagVars restores every flag-destination global to its zero/default
// value. Exercised by tests that set the globals directly and call
// buildParams, since cli.Flag Destination pointers are package-level globals.
func resetFlagVars() {
	verbFlag = "GET"
	dataFlag = ""
	noProxyFlag = false
	agentFlag = ""
	noRedirFlag = false
	insecureFlag = false
	forceCRLFlag = false
	referFlag = ""
	timeConnFlag = 0
	timeRecvFlag = 0
	timeoutFlag = 0
	retryFlag = 3
	noRetryFlag = false
	setFTimeFlag = false
	updateFlag = false
	keepFailedFlag = false
	notifyFlag = false
	configFlag = ""
	verboseFlag = false
}
