// Package main provides the CLI entry point for taoperf, which lists,
// exports, checks, and plans the TAO benchmark definition table.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/weiihann/taoperf/definition"
	"github.com/weiihann/taoperf/harness"
	"github.com/weiihann/taoperf/plan"
	"github.com/weiihann/taoperf/report"
)

func main() {
	root := newRootCmd(os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cli carries state shared by all subcommands once persistent flags are
// parsed.
type cli struct {
	logger    *slog.Logger
	logLevel  string
	logFormat string
	noColor   bool
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "taoperf",
		Short: "TAO benchmark definition table",
		Long: `Taoperf holds the TAO benchmark definitions used by the perf harness:
groups of client/server ORB configurations exercised under thread pool,
thread-per-connection, reactive and blocking concurrency models.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			c.logger = newLogger(c.logLevel, c.logFormat, logOut)
			if c.noColor {
				color.NoColor = true
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	flags.StringVar(&c.logFormat, "log-format", "text",
		"Log format: text, json")
	flags.BoolVar(&c.noColor, "no-color", false,
		"Disable colored output")

	root.AddCommand(
		newListCmd(c),
		newShowCmd(c),
		newExportCmd(c),
		newCheckCmd(c),
		newPlanCmd(c),
	)

	return root
}

func newListCmd(c *cli) *cobra.Command {
	var showCases bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List benchmark groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups := definition.Definitions()

			c.logger.DebugContext(cmd.Context(), "listing groups",
				slog.Int("groups", len(groups)),
				slog.Bool("cases", showCases),
			)

			return listGroups(cmd.OutOrStdout(), groups, showCases)
		},
	}

	cmd.Flags().BoolVar(&showCases, "cases", false,
		"Show the cases of every group")

	return cmd
}

func listGroups(w io.Writer, groups []definition.Group, showCases bool) error {
	title := color.New(color.Bold)
	label := color.New(color.FgCyan)
	payload := color.New(color.FgYellow)

	for _, g := range groups {
		title.Fprintf(w, "%s", g.Title)
		fmt.Fprintf(w, "  [%s, %d cases]\n", g.Product, len(g.Cases))

		if !showCases {
			continue
		}

		for _, cs := range g.Cases {
			fmt.Fprint(w, "  ")
			label.Fprintf(w, "%-13s", cs.Label)
			fmt.Fprintf(w, " client=%q server=%q",
				strings.TrimSpace(cs.ClientArgs),
				strings.TrimSpace(cs.ServerArgs),
			)

			if v, ok := cs.Override(definition.PayloadKey); ok {
				fmt.Fprint(w, " ")
				payload.Fprintf(w, "payload=%s", v)
			}

			fmt.Fprintln(w)
		}
	}

	s := report.Summarize(groups)
	fmt.Fprintf(w, "\n%d groups, %d cases (%d with payload)\n",
		s.Groups, s.Cases, s.PayloadCases)

	return nil
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <title>",
		Short: "Show the cases of one benchmark group",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

			g, ok := definition.Lookup(title)
			if !ok {
				return fmt.Errorf("unknown group %q", title)
			}

			c.logger.DebugContext(cmd.Context(), "showing group",
				slog.String("title", g.Title),
				slog.Int("cases", len(g.Cases)),
			)

			return report.Generate(cmd.OutOrStdout(), []definition.Group{g})
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full definition table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOutput(cmd, out, func(w io.Writer) error {
				return exportTable(cmd.Context(), c.logger, w, format)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "markdown",
		"Output format: markdown, json, yaml")
	flags.StringVarP(&out, "out", "o", "",
		"Write to file instead of stdout")

	return cmd
}

func exportTable(
	ctx context.Context,
	logger *slog.Logger,
	w io.Writer,
	format string,
) error {
	groups := definition.Definitions()

	var err error

	switch format {
	case "markdown", "md":
		err = report.Generate(w, groups)
	case "json":
		err = report.GenerateJSON(w, groups)
	case "yaml", "yml":
		err = report.GenerateYAML(w, groups)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	logger.InfoContext(ctx, "definitions exported",
		slog.String("format", format),
		slog.Int("groups", len(groups)),
	)

	return nil
}

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the definition table invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return checkTable(cmd.Context(), c.logger, definition.Definitions())
		},
	}
}

func checkTable(
	ctx context.Context,
	logger *slog.Logger,
	groups []definition.Group,
) error {
	err := definition.Validate(groups)
	if err == nil {
		s := report.Summarize(groups)
		logger.InfoContext(ctx, "definition table ok",
			slog.Int("groups", s.Groups),
			slog.Int("cases", s.Cases),
		)

		return nil
	}

	violations := []error{err}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		violations = joined.Unwrap()
	}

	for _, v := range violations {
		logger.ErrorContext(ctx, "invariant violated",
			slog.String("error", v.Error()),
		)
	}

	return fmt.Errorf("definition table has %d violations", len(violations))
}

type planConfig struct {
	runID          string
	groups         []string
	cases          []string
	binDir         string
	clientTemplate string
	serverTemplate string
	out            string
}

func newPlanCmd(c *cli) *cobra.Command {
	var cfg planConfig

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Write a JSONL launch plan for the selected cases",
		Long: `Describe the client and server commands a harness would run for each
selected case, one JSON object per line. Nothing is executed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOutput(cmd, cfg.out, func(w io.Writer) error {
				return writePlan(cmd.Context(), c.logger, w, cfg)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.runID, "run-id", "",
		"Identifier stamped on every entry (default: random UUID)")
	flags.StringArrayVarP(&cfg.groups, "group", "g", nil,
		"Group title to include (repeatable, default: all)")
	flags.StringArrayVarP(&cfg.cases, "case", "c", nil,
		"Case label to include (repeatable, default: all)")
	flags.StringVar(&cfg.binDir, "bin-dir", "bin",
		"Directory holding the client and server executables")
	flags.StringVar(&cfg.clientTemplate, "client-template", harness.DefaultTemplate,
		"Client argument template; ${args} and override keys are expanded")
	flags.StringVar(&cfg.serverTemplate, "server-template", harness.DefaultTemplate,
		"Server argument template; ${args} and override keys are expanded")
	flags.StringVarP(&cfg.out, "out", "o", "",
		"Write to file instead of stdout")

	return cmd
}

func writePlan(
	ctx context.Context,
	logger *slog.Logger,
	w io.Writer,
	cfg planConfig,
) error {
	runID := cfg.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	gen := plan.NewGenerator(plan.Config{
		RunID:  runID,
		Groups: cfg.groups,
		Cases:  cfg.cases,
		Launch: harness.LaunchConfig{
			BinDir:         cfg.binDir,
			ClientTemplate: cfg.clientTemplate,
			ServerTemplate: cfg.serverTemplate,
		},
	})

	summary, err := gen.Generate(w)
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}

	logger.InfoContext(ctx, "plan generated",
		slog.String("run_id", runID),
		slog.Int("groups", summary.Groups),
		slog.Int("cases", summary.Cases),
		slog.Int("payload_cases", summary.PayloadCases),
	)

	return nil
}

// withOutput runs fn against path, or the command's stdout when path is
// empty.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)

		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}
