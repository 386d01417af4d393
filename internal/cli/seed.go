package cli

import (
	"fmt"
	"time"

	"github.com/okian/execdash/internal/adapters/source/xlsx"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/fixtures"
	"github.com/spf13/cobra"
)

func newSeedCommand(a *app) *cobra.Command {
	var (
		out    string
		sample bool
		gen    = fixtures.DefaultConfig()
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a demo workbook for the xlsx source",
		Long: `seed writes every dashboard worksheet to an .xlsx file. By default the rows
are generated from --seed, so the same seed always yields the same workbook.
--sample writes the small fixed workbook used in the documentation instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = a.cfg.XLSXPath
			}
			ctx, cancel := a.deadline(cmd)
			defer cancel()

			var (
				tables model.TableSet
				err    error
			)
			if sample {
				tables = fixtures.Sample(time.Now())
			} else {
				gen.Today = time.Now()
				if tables, err = fixtures.Generate(ctx, gen); err != nil {
					return err
				}
			}
			if err := xlsx.Write(out, tables, fixtures.Order()...); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d worksheets to %s\n", len(tables), out)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&out, "out", "", "workbook path (defaults to the configured xlsx_path)")
	f.BoolVar(&sample, "sample", false, "write the fixed sample workbook")
	f.IntVar(&gen.Projects, "projects", gen.Projects, "generated projects")
	f.IntVar(&gen.Pursuits, "pursuits", gen.Pursuits, "generated pipeline pursuits")
	f.IntVar(&gen.Staff, "staff", gen.Staff, "generated staff members")
	f.Uint64Var(&gen.Seed, "seed", gen.Seed, "random seed")
	return cmd
}
