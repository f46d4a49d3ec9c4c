package main

import (
	"fmt"

	"github.com/urfave/cli"
)

// version is set at build time via -ldflags; left at its zero value in a
// development build.
var version = "dev"

func printErrWithHelp(ctx *cli.Context, err error) error {
	if err == nil {
		return nil
	}
	fmt.Printf("%s: %s\n\n", ctx.App.HelpName, err.Error())
	cli.ShowAppHelpAndExit(ctx, 1)
	return nil
}

func usageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	return printErrWithHelp(ctx, err)
}
