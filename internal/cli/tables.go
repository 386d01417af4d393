package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/okian/execdash/internal/domain/types"
	"github.com/spf13/cobra"
)

func newTablesCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "tables [name]",
		Short: "List the loaded worksheets, or print the rows of one",
		Args:  cobra.MaximumNArgs(1),
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

			if len(args) == 0 {
				out := make([]types.TableSummary, 0, len(snap.Tables))
				for _, name := range snap.Tables.Names() {
					t := snap.Tables[name]
					out = append(out, types.TableSummary{Name: name, Columns: t.Columns, Rows: t.Len()})
				}
				return a.render(cmd.OutOrStdout(), out, func(w io.Writer) error {
					rows := make([][]string, 0, len(out))
					for _, s := range out {
						rows = append(rows, []string{s.Name, strconv.Itoa(s.Rows), strconv.Itoa(len(s.Columns))})
					}
					return table(w, []string{"WORKSHEET", "ROWS", "COLUMNS"}, rows)
				})
			}

			name := args[0]
			t, ok := snap.Tables[name]
			if !ok {
				return fmt.Errorf("unknown worksheet %q", name)
			}
			n := t.Len()
			if limit > 0 && limit < n {
				n = limit
			}
			resp := types.TableResponse{Name: name, Columns: t.Columns, Total: t.Len(), Records: make([]map[string]string, n)}
			for i := range n {
				resp.Records[i] = t.Records[i]
			}
			return a.render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				rows := make([][]string, 0, n)
				for _, r := range resp.Records {
					row := make([]string, len(t.Columns))
					for i, c := range t.Columns {
						row[i] = r[c]
					}
					rows = append(rows, row)
				}
				return table(w, t.Columns, rows)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many rows (0 prints all)")
	return cmd
}
