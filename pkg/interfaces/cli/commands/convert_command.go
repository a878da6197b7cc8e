package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConvertCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "convert DESTINATION",
		Short: "Write the catalog as a TOML file or a CSV directory",
		Long:  "convert reads the configured catalog, checks that it builds, and writes it to DESTINATION: a .toml path becomes a single TOML file, anything else a CSV directory.",
		Example: `  bomx convert catalog.toml --catalog ./catalog
  bomx convert ./catalog-csv --catalog catalog.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := rt.loadSnapshot(rt.cfg.Catalog.Path, rt.cfg.Catalog.Format)
			if err != nil {
				return err
			}
			if _, err := snap.Build(); err != nil {
				return err
			}
			if err := writeSnapshot(args[0], snap); err != nil {
				return err
			}
			if rt.verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "💾 Catalog written to %s (%d products, %d BOMs)\n",
					args[0], len(snap.Products), len(snap.BOMs))
			}
			return nil
		},
	}
}
