// Package commands wires the bomx command line: loading a catalog, then
// exploding, showing, validating, converting or generating it.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the bomx command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&runtime{})
}

func newRootCommand(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:           "bomx",
		Short:         "Bill of materials explosion engine",
		Long:          "bomx flattens multi-level bills of materials into component requirements, expanding phantom kits in place and matching template lines to product variants.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./bomx.toml or $HOME/.config/bomx/bomx.toml)")
	flags.String("catalog", "", "catalog directory of CSV files or a .toml file")
	flags.String("db", "", "persist the catalog through a database: sqlite or postgres")
	flags.String("dsn", "", "database connection string")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolP("verbose", "v", false, "verbose output")

	root.AddCommand(
		newExplodeCommand(rt),
		newShowCommand(rt),
		newValidateCommand(rt),
		newConvertCommand(rt),
		newGenerateCommand(rt),
	)
	for _, cmd := range root.Commands() {
		closeAfter(cmd, rt)
	}
	return root
}

// closeAfter releases the runtime once cmd has run, whether or not it failed.
// Cobra skips post-run hooks after a RunE error.
func closeAfter(cmd *cobra.Command, rt *runtime) {
	runE := cmd.RunE
	if runE == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = errors.Join(err, rt.close())
		}()
		return runE(cmd, args)
	}
}

// Execute runs bomx with os.Args and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
