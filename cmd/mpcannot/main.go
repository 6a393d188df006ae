// Command mpcannot annotates patient mutation calls with MPC and
// PolyPhen2 predictions from a chunked reference score table, adjusts
// consequence labels, and exports curated CSV reports.
//
// Usage:
//
//	mpcannot annotate <mutations-file> <reference> [flags]
//	mpcannot partition <reference-file> [flags]
//	mpcannot config [show|set|get] [flags]
//	mpcannot version
//
// The reference may be a raw score file, which is partitioned into
// bounded chunks on first use, or a directory of previously staged
// chunks.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// usageError marks errors caused by bad invocations so run can exit
// with ExitUsage instead of ExitError.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// needsArgs validates the positional argument count and reports a
// usage error naming the expected arguments.
func needsArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError{fmt.Errorf("expected arguments: %s", usage)}
		}
		return nil
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mpcannot",
		Short: "Annotate patient mutations with MPC and PolyPhen2 predictions",
		Long: `mpcannot joins patient mutation calls against a chunked reference of
per-variant MPC scores and PolyPhen2 predictions, reclassifies
consequences using both signals, and writes curated CSV reports plus a
per-run audit log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAnnotateCmd())
	root.AddCommand(newPartitionCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func run() int {
	cobra.OnInitialize(initConfig)

	root := newRootCmd()
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func main() {
	os.Exit(run())
}
