package main

const DESCRIPTION = `NetGet opens a single HTTP, HTTPS, or FTP resource and streams it to a
file, standard output, or discard, reporting progress and outcome to the
terminal.`

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[options]{{end}} [arguments...]{{end}}

{{.Description}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
