package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"
)

// applyConfigFile loads flag syntax from path, one flag per line, '#'
// comments, and applies each flag to ctx unless the same flag was already
// set explicitly on the command line (explicit flags win).
func applyConfigFile(ctx *cli.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, err := parseConfigLine(line)
		if err != nil {
			return fmt.Errorf("config:%d: %w", lineNo, err)
		}
		if ctx.IsSet(name) {
			continue
		}
		if err := ctx.Set(name, value); err != nil {
			return fmt.Errorf("config:%d: unknown flag %q", lineNo, name)
		}
	}
	return scanner.Err()
}

// parseConfigLine splits a "--name=value", "--name value" or bare "--name"
// (boolean flag) line into its flag name and value.
func parseConfigLine(line string) (name, value string, err error) {
	line = strings.TrimPrefix(line, "--")
	line = strings.TrimPrefix(line, "-")
	if line == "" {
		return "", "", fmt.Errorf("empty flag")
	}
	if i := strings.IndexAny(line, "= "); i >= 0 {
		if line[i] == '=' {
			return line[:i], line[i+1:], nil
		}
		return line[:i], strings.TrimSpace(line[i+1:]), nil
	}
	return line, "true", nil
}
