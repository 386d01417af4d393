// Package cli implements kpictl, a command-line client that loads the
// dashboard workbook once and prints KPIs, tables and assistant answers.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	service "github.com/okian/execdash/internal/app"
	"github.com/okian/execdash/internal/config"
	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/pkg/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const defaultTimeout = 2 * time.Minute

// app holds the flags and configuration shared by every subcommand.
type app struct {
	configFile string
	xlsxPath   string
	format     string
	verbose    bool
	timeout    time.Duration

	cfg *config.Config
	log logger.Logger
}

// NewRootCommand builds the kpictl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "kpictl",
		Short: "Inspect the executive dashboard from the command line",
		Long: `kpictl loads the dashboard workbook once, computes the KPI set and
prints the result. Configuration follows the server: EXECDASH_ environment
variables, optionally layered over a YAML file.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&a.xlsxPath, "xlsx", "", "read this workbook instead of the configured source")
	flags.StringVarP(&a.format, "format", "o", FormatText, "output format: text, json or yaml")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")
	flags.DurationVar(&a.timeout, "timeout", defaultTimeout, "overall deadline for one command")

	root.AddCommand(
		newKPIsCommand(a),
		newTablesCommand(a),
		newAskCommand(a),
		newDigestCommand(a),
		newScenarioCommand(a),
		newSeedCommand(a),
	)
	return root
}

// Execute runs the command tree against os.Args until ctx is done.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	switch a.format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q", a.format)
	}

	if err := logger.InitWithOptions(cmd.ErrOrStderr(), logger.FormatText); err != nil {
		return err
	}
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)
	a.log = logger.Get()

	if a.configFile != "" {
		if err := os.Setenv(config.EnvConfigFile, a.configFile); err != nil {
			return err
		}
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		// An explicit workbook makes the rest of the configuration optional.
		if a.xlsxPath == "" {
			return err
		}
		cfg = config.New(ctx)
	}
	if a.xlsxPath != "" {
		cfg.Source = config.SourceXLSX
		cfg.XLSXPath = a.xlsxPath
	}
	a.cfg = cfg
	return nil
}

func (a *app) deadline(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.timeout)
}

// load builds a service and runs one load cycle. Callers stop the service.
func (a *app) load(ctx context.Context) (*service.Service, error) {
	svc, err := service.FromConfig(ctx, a.cfg, a.log, service.WithRefreshInterval(0), service.WithWatch(false))
	if err != nil {
		return nil, err
	}
	if err := svc.Refresh(ctx, model.NewRefreshRequest(model.TriggerManual)); err != nil {
		svc.Stop()
		return nil, err
	}
	return svc, nil
}

// render writes v in the selected format; text output is delegated to text.
func (a *app) render(w io.Writer, v any, text func(w io.Writer) error) error {
	switch a.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

// table writes aligned columns.
func table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}
