// Command planner searches the exercise catalog and exports session plans from the terminal.
//
//	planner digest --phase defense --intensity high --max-duration 20
//	planner export --ids 4,1,7 --title "Tuesday U18" --out tuesday.pdf
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alcyxob/session-planner/internal/bootstrap"
	"alcyxob/session-planner/internal/config"
	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/logging"
	"alcyxob/session-planner/internal/service"
)

// newLogger is swapped out by tests.
var newLogger = logging.New

// cliOptions holds the flag values shared by every subcommand.
type cliOptions struct {
	configDir   string
	verbose     bool
	phase       string
	intensity   string
	maxDuration int
	subtopic    string
	ids         []string
	title       string
	out         string
	publish     bool

	cfg    config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "planner",
		Short:         "Search rugby training exercises and export session plans",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configDir)
			if err != nil {
				return err
			}
			if opts.verbose {
				cfg.Log.Level = "debug"
				cfg.Log.Development = true
			}
			logger, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			opts.cfg, opts.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&opts.configDir, "config", ".", "directory holding config.yaml")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newListCmd(opts), newDigestCmd(opts), newExportCmd(opts))
	return root
}

func addCriteriaFlags(cmd *cobra.Command, opts *cliOptions) {
	cmd.Flags().StringVar(&opts.phase, "phase", "", "game phase, e.g. defense")
	cmd.Flags().StringVar(&opts.intensity, "intensity", "", "intensity, e.g. high")
	cmd.Flags().IntVar(&opts.maxDuration, "max-duration", 0, "longest exercise in minutes")
	cmd.Flags().StringVar(&opts.subtopic, "subtopic", "", "subtopic substring")
}

// criteria leaves MaxDuration nil unless the flag was given, so --max-duration 0 is a real bound.
func (o *cliOptions) criteria(cmd *cobra.Command) domain.Criteria {
	c := domain.Criteria{Phase: o.phase, Intensity: o.intensity, Subtopic: o.subtopic}
	if cmd.Flags().Changed("max-duration") {
		d := o.maxDuration
		c.MaxDuration = &d
	}
	return c
}

func (o *cliOptions) services(ctx context.Context) (*bootstrap.Services, error) {
	return bootstrap.NewServices(ctx, o.cfg, o.logger)
}

func newListCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exercises matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := opts.services(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			exercises, err := services.Plans.Search(cmd.Context(), opts.criteria(cmd))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHASE\tINTENSITY\tMIN")
			for _, e := range exercises {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Phase, e.Intensity, e.DurationText)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d exercise(s)\n", len(exercises))
			return nil
		},
	}
	addCriteriaFlags(cmd, opts)
	return cmd
}

func newDigestCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print a short digest of matching exercises",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := opts.services(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			digest, err := services.Plans.Digest(cmd.Context(), opts.criteria(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
	addCriteriaFlags(cmd, opts)
	return cmd
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a session plan as PDF",
		Long:  "Export the exercises given by --ids (in that order), or every exercise matching the filters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := opts.services(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			req := service.PlanRequest{
				Title:       opts.title,
				Criteria:    opts.criteria(cmd),
				ExerciseIDs: opts.ids,
				RequestedBy: os.Getenv("USER"),
			}

			if opts.publish {
				published, err := services.Plans.PublishPlan(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d exercises, %d min)\n%s\nlink expires %s\n",
					published.Plan.Title, len(published.Plan.Exercises), published.Plan.TotalMinutes,
					published.URL, published.ExpiresAt.Format("2006-01-02 15:04 MST"))
				return nil
			}

			plan, pdf, err := services.Plans.ExportPlan(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.out, pdf, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d exercise(s), %d min\n",
				opts.out, len(plan.Exercises), plan.TotalMinutes)
			return nil
		},
	}
	addCriteriaFlags(cmd, opts)
	cmd.Flags().StringSliceVar(&opts.ids, "ids", nil, "exercise ids in session order")
	cmd.Flags().StringVar(&opts.title, "title", "", "plan title (defaults to export.title)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "session-plan.pdf", "output file")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "upload to object storage and print a download link")
	return cmd
}
