package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/okian/execdash/internal/domain/indicators"
	"github.com/okian/execdash/internal/domain/types"
	"github.com/spf13/cobra"
)

func newKPIsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kpis [name...]",
		Short: "Print the KPI set, or only the named KPIs",
		Example: `  kpictl kpis
  kpictl kpis total_revenue pipeline_coverage_ratio -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.deadline(cmd)
			defer cancel()
			svc, err := a.load(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()
			snap, err := svc.Latest(ctx)
			if err != nil {
				return err
			}

			kpis := snap.KPIs
			if len(args) > 0 {
				kpis = make(map[string]any, len(args))
				for _, name := range args {
					v, ok := snap.KPIs[name]
					if !ok {
						return fmt.Errorf("unknown kpi %q", name)
					}
					kpis[name] = v
				}
			}

			resp := types.KPIResponse{SnapshotID: snap.ID, LoadedAt: snap.LoadedAt, KPIs: kpis}
			return a.render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				names := make([]string, 0, len(kpis))
				for k := range kpis {
					names = append(names, k)
				}
				sort.Strings(names)
				rows := make([][]string, 0, len(names))
				for _, k := range names {
					rows = append(rows, []string{k, indicators.FormatValue(kpis[k])})
				}
				return table(w, []string{"KPI", "VALUE"}, rows)
			})
		},
	}
}
