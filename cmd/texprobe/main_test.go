package main

import (
	"bytes"
	"testing"
)

// Operational failures inside subcommands exit with their own codes;
// anything cobra rejects before a Run function starts is a usage
// error, which main maps to ExitUsage. These tests pin down that every
// malformed invocation surfaces as an error from Execute.
func TestMalformedInvocationsAreUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing required argument", []string{"path"}},
		{"too many arguments", []string{"path", "a.cls", "b.cls"}},
		{"unexpected argument", []string{"list", "extra"}},
		{"unknown flag", []string{"check", "--no-such-flag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)
			t.Cleanup(func() { rootCmd.SetArgs(nil) })

			if err := rootCmd.Execute(); err == nil {
				t.Errorf("args %v accepted, want a usage error", tt.args)
			}
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	codes := map[int]string{
		ExitSuccess:           "ExitSuccess",
		ExitGeneral:           "ExitGeneral",
		ExitUsage:             "ExitUsage",
		ExitUnknownCapability: "ExitUnknownCapability",
		ExitNotPresent:        "ExitNotPresent",
	}
	if len(codes) != 5 {
		t.Error("exit codes collide")
	}
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
}
