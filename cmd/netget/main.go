package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/lmuldr/netget/pkg/logger"
	"github.com/lmuldr/netget/pkg/xferlib"
)

func Execute(args []string) error {
	app := cli.App{
		Name:                  "NetGet",
		HelpName:              "netget",
		Usage:                 "fetch a single resource over HTTP, HTTPS, or FTP",
		Version:               version,
		UsageText:             "netget [options] <source_url> [output_file]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          usageErrorCallback,
		Action:                run,
		Flags:                 xferFlags,
		UseShortOptionHandling: true,
	}
	return app.Run(args)
}

func main() {
	if err := Execute(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "netget: %s\n", err.Error())
		os.Exit(exitCodeFor(err))
	}
}

func run(ctx *cli.Context) error {
	if configFlag != "" {
		if err := applyConfigFile(ctx, configFlag); err != nil {
			return err
		}
	}

	src := ctx.Args().Get(0)
	if src == "" {
		return printErrWithHelp(ctx, fmt.Errorf("no url provided"))
	}

	target, err := parseURL(src)
	if err != nil {
		return exitErr(xferlib.NewError(xferlib.KindUrlUnsupported, "cli", err))
	}

	output := ctx.Args().Get(1)
	if output == "" {
		output = defaultOutputName(target)
	}

	p := buildParams()

	abort := &xferlib.AbortSignal{}
	sigCtx, cancel := setupAbortHandler(abort)
	defer cancel()

	lg := logger.Logger(logger.NewNopLogger())
	if p.Verbose {
		l, lerr := newVerboseLogger(output)
		if lerr == nil {
			lg = l
			defer lg.Close()
		}
	}

	if err := xferlib.Transfer(sigCtx, p, target, output, abort, lg); err != nil {
		return exitErr(err)
	}
	return nil
}

// buildParams assembles the core's Params record from the parsed flags,
// applying two precedence rules: --no-retry overrides --retry whatever
// their order on the command line (flag order is not consulted), and a
// positive --timeout overrides both per-direction timeouts.
func buildParams() xferlib.Params {
	retry := retryFlag
	if noRetryFlag {
		retry = 0
	}
	timeConn := timeConnFlag
	timeRecv := timeRecvFlag
	if timeoutFlag > 0 {
		timeConn = timeoutFlag
		timeRecv = timeoutFlag
	}
	return xferlib.Params{
		Verb:            xferlib.Verb(verbFlag),
		PostData:        dataFlag,
		DisableProxy:    noProxyFlag,
		UserAgent:       agentFlag,
		DisableRedir:    noRedirFlag,
		Insecure:        insecureFlag,
		ForceCRL:        forceCRLFlag,
		TimeoutConnectS: timeConn,
		TimeoutReceiveS: timeRecv,
		RetryCount:      retry,
		Referrer:        referFlag,
		SetFileTime:     setFTimeFlag,
		UpdateMode:      updateFlag,
		KeepFailed:      keepFailedFlag,
		Notify:          notifyFlag,
		Verbose:         verboseFlag,
	}
}

// setupAbortHandler installs the SIGINT/SIGTERM trap that sets the shared
// user-abort flag the core polls cooperatively (spec's signal-trap
// collaborator lives here, not in the core).
func setupAbortHandler(abort *xferlib.AbortSignal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		signal.Stop(sigChan)
		abort.Set()
		cancel()
	}()

	return ctx, cancel
}

func newVerboseLogger(output string) (logger.Logger, error) {
	path := output + ".log"
	if output == xferlib.OutputStdout || output == xferlib.OutputNull {
		path = "netget.log"
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return logger.NewStandardLogger(log.New(f, "", log.LstdFlags)), nil
}

// defaultOutputName derives a filename from the URL path when the caller
// didn't supply one, mirroring the teacher's filename-inference fallback.
func defaultOutputName(u xferlib.URL) string {
	path := u.Path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			path = path[i+1:]
			break
		}
	}
	if path == "" || path == u.Path {
		return "index.html"
	}
	return path
}

// exitErr prints a diagnostic block and returns the error unchanged so
// main can translate it into an exit code.
func exitErr(err error) error {
	fmt.Fprintf(os.Stderr, "%s\n\n", err.Error())
	return err
}

// exitCodeFor maps a core error kind onto a process exit code (§6).
func exitCodeFor(err error) int {
	te, ok := err.(*xferlib.TransferError)
	if !ok {
		return 1
	}
	switch te.Kind {
	case xferlib.KindUserAbort:
		return 130
	default:
		return 1
	}
}
