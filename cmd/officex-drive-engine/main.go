// Command officex-drive-engine runs (or inspects) one organization
// drive's engine: the content-addressed directory tree, permission and
// group machinery, webhook fan-out, and checksum-chained state-diff log
// described by this module's internal/engine package.
package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
