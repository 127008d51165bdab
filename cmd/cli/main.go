// Tailgate - Incremental Access Log Monitor
//
// Tailgate watches an append-only web-server access log, reporting a
// recent request rate on every invocation and running a bounded
// full-window analysis pass at most once per day. It is designed to be
// driven by an external scheduler every few minutes.
package main

import (
	"os"

	"github.com/jrenner/tailgate/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
