package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altinkaya-opensource/odoo-addons/pkg/application/services"
	"github.com/altinkaya-opensource/odoo-addons/pkg/interfaces/cli/output"
)

func newValidateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog for cycles, duplicate lines and unit mismatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repos, err := rt.openCatalog(ctx)
			if err != nil {
				return err
			}

			svc := services.NewCatalogService(repos.Products, repos.BOMs,
				services.WithEventStore(rt.events),
				services.WithLogger(rt.log))
			result, err := svc.Validate(ctx)
			if err != nil {
				return err
			}

			if err := output.WriteValidation(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Valid() {
				return fmt.Errorf("catalog validation failed with %d error(s)", len(result.Errors))
			}
			return nil
		},
	}
}
