package main

import "os"

// Exit codes for different failure modes.
// These let scripts distinguish "tool missing" from "texprobe broke".
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitGeneral indicates a general error
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments or usage error
	ExitUsage = 2

	// ExitUnknownCapability indicates a named capability is not in the registry
	ExitUnknownCapability = 3

	// ExitNotPresent indicates one or more probed capabilities are absent
	ExitNotPresent = 7
)

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	os.Exit(code)
}
