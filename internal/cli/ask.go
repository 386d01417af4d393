package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/execdash/internal/domain/types"
	"github.com/spf13/cobra"
)

func newAskCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant a question about the dashboard data",
		Long: `Questions that match a known KPI (total revenue, red projects, pipeline
coverage, green ratio, high-severity risks, utilization) are answered from the
KPI set. Anything else goes to the language model when llm_api_key is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.deadline(cmd)
			defer cancel()
			svc, err := a.load(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			ans, err := svc.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			resp := types.AskResponse{Question: ans.Question, Answer: ans.Text, Mode: ans.Mode}
			return a.render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, ans.Text)
				return err
			})
		},
	}
}

func newDigestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Print today's top three action items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.deadline(cmd)
			defer cancel()
			svc, err := a.load(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			digest, err := svc.Digest(ctx)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), types.DigestResponse{Digest: digest}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, digest)
				return err
			})
		},
	}
}
