package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/altinkaya-opensource/odoo-addons/pkg/application/services"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/repositories/memory"
	"github.com/altinkaya-opensource/odoo-addons/pkg/interfaces/cli/output"
)

func newExplodeCommand(rt *runtime) *cobra.Command {
	var (
		bomCode     string
		company     int64
		pickingType int64
		format      string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "explode PRODUCT [QUANTITY]",
		Short: "Explode the bill of materials of a product into its components",
		Example: `  bomx explode CHAIR-R 2 --catalog ./catalog
  bomx explode CHAIR-B --bom CHAIR --format json
  bomx explode CHAIR-R 10 --format csv --output results/`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := decimal.NewFromInt(1)
			if len(args) == 2 {
				var err error
				if qty, err = decimal.NewFromString(args[1]); err != nil {
					return fmt.Errorf("invalid quantity %q: %w", args[1], err)
				}
			}

			flags := cmd.Flags()
			if !flags.Changed("company") {
				company = rt.cfg.Explode.CompanyID
			}
			if !flags.Changed("picking-type") {
				pickingType = rt.cfg.Explode.PickingTypeID
			}
			if !flags.Changed("format") {
				format = rt.cfg.Explode.Format
			}
			if !flags.Changed("output") {
				outputDir = rt.cfg.Explode.OutputDir
			}

			ctx := cmd.Context()
			repos, err := rt.openCatalog(ctx)
			if err != nil {
				return err
			}

			svc := services.NewExplosionService(repos.Products, repos.BOMs,
				services.WithEventStore(rt.events),
				services.WithLogger(rt.log))

			result, err := svc.Explode(ctx, services.ExplodeRequest{
				ProductCode:   args[0],
				Quantity:      qty,
				BOMCode:       bomCode,
				PickingTypeID: entities.PickingTypeID(pickingType),
				CompanyID:     entities.CompanyID(company),
			})
			if err != nil {
				return err
			}
			if rt.verbose {
				stats := memory.GetMemoryStats()
				rt.log.Debug("memory usage",
					zap.String("alloc", memory.FormatBytes(stats.AllocBytes)),
					zap.String("total_alloc", memory.FormatBytes(stats.TotalAllocBytes)),
					zap.Uint64("heap_objects", stats.HeapObjects))
			}

			return output.Generate(cmd.OutOrStdout(), result, output.Config{
				Format:    format,
				OutputDir: outputDir,
				Verbose:   rt.verbose,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&bomCode, "bom", "", "explode this BOM code instead of resolving one")
	flags.Int64Var(&company, "company", 0, "company the BOMs are resolved for (0 = any)")
	flags.Int64Var(&pickingType, "picking-type", 0, "operation type the BOMs are resolved for (0 = any)")
	flags.StringVarP(&format, "format", "f", "text", "output format: text, json, csv, svg")
	flags.StringVarP(&outputDir, "output", "o", "", "write results to this directory instead of stdout")
	return cmd
}
