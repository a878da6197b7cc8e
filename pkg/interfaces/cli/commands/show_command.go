package commands

import (
	"github.com/spf13/cobra"

	"github.com/altinkaya-opensource/odoo-addons/pkg/application/services"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
	"github.com/altinkaya-opensource/odoo-addons/pkg/interfaces/cli/output"
)

func newShowCommand(rt *runtime) *cobra.Command {
	var company, pickingType int64

	cmd := &cobra.Command{
		Use:   "show BOM_OR_PRODUCT",
		Short: "Print a bill of materials by BOM code or product code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repos, err := rt.openCatalog(ctx)
			if err != nil {
				return err
			}

			svc := services.NewCatalogService(repos.Products, repos.BOMs, services.WithLogger(rt.log))
			bom, err := svc.LookupBOM(ctx, args[0], repositories.FindOptions{
				PickingTypeID: entities.PickingTypeID(pickingType),
				CompanyID:     entities.CompanyID(company),
			})
			if err != nil {
				return err
			}
			return output.WriteBOM(cmd.OutOrStdout(), bom)
		},
	}

	cmd.Flags().Int64Var(&company, "company", 0, "company the BOM is resolved for (0 = any)")
	cmd.Flags().Int64Var(&pickingType, "picking-type", 0, "operation type the BOM is resolved for (0 = any)")
	return cmd
}
