package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/okian/execdash/internal/domain/indicators"
	"github.com/okian/execdash/internal/domain/normalize"
	"github.com/okian/execdash/internal/domain/scenario"
	"github.com/spf13/cobra"
)

func newScenarioCommand(a *app) *cobra.Command {
	var (
		set      map[string]string
		question string
	)
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Compare the workbook assumptions with overridden ones",
		Example: `  kpictl scenario --set "Cost of Chief of Staff Salary=150000"
  kpictl scenario --set "Sales Conversion Rate (%)=30%" --question "Is it worth it?"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := make(scenario.Inputs, len(set))
			for k, raw := range set {
				v, ok := normalize.Optional(raw)
				if !ok {
					return fmt.Errorf("override %q: %q is not a number", k, raw)
				}
				overrides[k] = v
			}

			ctx, cancel := a.deadline(cmd)
			defer cancel()
			svc, err := a.load(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			cmp, err := svc.Scenario(ctx, overrides)
			if err != nil {
				return err
			}
			out := struct {
				scenario.Comparison `yaml:",inline"`
				Answer              string `json:"answer,omitempty" yaml:"answer,omitempty"`
			}{Comparison: cmp}
			if question != "" {
				ans, err := svc.AskScenario(ctx, question, cmp)
				if err != nil {
					return err
				}
				out.Answer = ans.Text
			}

			return a.render(cmd.OutOrStdout(), out, func(w io.Writer) error {
				rows := make([][]string, 0, len(cmp.Rows))
				for _, r := range cmp.Rows {
					rows = append(rows, []string{
						r.Category,
						indicators.FormatCurrency(r.DoNothing),
						indicators.FormatCurrency(r.Proposed),
						strconv.FormatFloat(r.Difference, 'f', 2, 64),
					})
				}
				if err := table(w, []string{"CATEGORY", "DO NOTHING", "PROPOSED", "DIFFERENCE"}, rows); err != nil {
					return err
				}
				if out.Answer != "" {
					_, err := fmt.Fprintf(w, "\n%s\n", out.Answer)
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringToStringVar(&set, "set", nil, "override an assumption, e.g. --set \"Work Weeks in a year=48\"")
	cmd.Flags().StringVar(&question, "question", "", "ask the language model about the comparison")
	return cmd
}
