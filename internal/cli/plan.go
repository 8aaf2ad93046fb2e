package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RollCut/internal/engine"
	"github.com/piwi3910/RollCut/internal/export"
	"github.com/piwi3910/RollCut/internal/gcode"
	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/project"
	"github.com/piwi3910/RollCut/internal/report"
)

type planOptions struct {
	job     jobFlags
	txt     string
	pdf     string
	labels  string
	xlsx    string
	chart   string
	gcode   string
	profile string
	save    string
	print   bool
	copy    bool
	quiet   bool
}

func (a *app) newPlanCmd() *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Pack a job and print its cutting plan",
		Long: `Pack a job and print its cutting plan.

The optional file may be a TOML job file, a saved job (.rollcut), or a cut
list (.csv, .xlsx, .dxf). Pieces can also be given with --piece or entered
at prompts with --interactive.`,
		Example: `  rollcut plan --piece 600x400x2:Door --piece 450x300
  rollcut plan kitchen.toml --pdf kitchen.pdf --gcode kitchen.nc
  rollcut plan cutlist.csv --roll-width 1600 --policy set-aside`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlan(cmd, args, opts)
		},
	}
	opts.job.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&opts.txt, "txt", "", "write the plan as text to this file")
	fs.StringVar(&opts.pdf, "pdf", "", "write a PDF layout to this file")
	fs.StringVar(&opts.labels, "labels", "", "write QR piece labels (PDF) to this file")
	fs.StringVar(&opts.xlsx, "xlsx", "", "write an Excel workbook to this file")
	fs.StringVar(&opts.chart, "chart", "", "write an HTML row chart to this file")
	fs.StringVar(&opts.gcode, "gcode", "", "write a knife cutting program to this file")
	fs.StringVar(&opts.profile, "profile", "", "GCode profile (defaults to the configured one)")
	fs.StringVar(&opts.save, "save", "", "save the job with its result to this file")
	fs.BoolVar(&opts.print, "print", false, "send the plan to the printer")
	fs.BoolVar(&opts.copy, "copy", false, "copy the plan to the terminal clipboard")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the plan")
	return cmd
}

// searchContext applies the configured search timeout.
func (a *app) searchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := time.Duration(a.config.SearchTimeout); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

func (a *app) runPlan(cmd *cobra.Command, args []string, opts *planOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	job, err := a.loadJob(cmd, args, &opts.job)
	if err != nil {
		return err
	}

	searchCtx, cancel := a.searchContext(ctx)
	defer cancel()

	p := newProgress(logger)
	plan, err := engine.PlanJob(searchCtx, job, engine.WithLogger(logger))
	switch {
	case errors.Is(err, model.ErrInvalidJob):
		for _, ve := range model.ValidationErrors(err) {
			printError(a.stderr, "%s", ve)
		}
		return fmt.Errorf("job %q is not valid", job.Name)
	case errors.Is(err, context.DeadlineExceeded):
		// Show what was packed before the limit, then fail.
		if !opts.quiet {
			if rerr := report.Render(a.stdout, plan); rerr != nil {
				return rerr
			}
		}
		printWarning(a.stderr, "search stopped after %s; raise search_timeout in the config to pack everything", time.Duration(a.config.SearchTimeout))
		return err
	case err != nil:
		return err
	}
	p.done(fmt.Sprintf("Packed %d pieces into %d rows", plan.Result.PieceCount(), len(plan.Result.Rows)))

	if !opts.quiet {
		if err := report.Render(a.stdout, plan); err != nil {
			return err
		}
	}
	if err := a.exportPlan(ctx, plan, opts); err != nil {
		return err
	}

	if opts.save != "" {
		job.Result = &plan.Result
		if err := project.SaveJob(opts.save, job); err != nil {
			return err
		}
		printFile(a.stderr, opts.save)
		a.config.AddRecentJob(opts.save)
		if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
			logger.Warn("could not record recent job", "err", err)
		}
	}
	return nil
}

// exportPlan writes every output requested by flags.
func (a *app) exportPlan(ctx context.Context, plan model.Plan, opts *planOptions) error {
	files := []struct {
		path  string
		write func(string, model.Plan) error
	}{
		{opts.txt, export.ExportText},
		{opts.pdf, export.ExportPDF},
		{opts.labels, export.ExportLabels},
		{opts.xlsx, export.ExportXLSX},
		{opts.chart, export.ExportChart},
		{opts.gcode, a.writeGCode(ctx, opts.profile)},
	}

	written := 0
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if err := f.write(f.path, plan); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		if written == 0 {
			printSuccess(a.stderr, "Exported")
		}
		printFile(a.stderr, f.path)
		written++
	}

	if opts.print {
		if err := export.Print(ctx, plan, a.config.PrintCommand); err != nil {
			return err
		}
		printSuccess(a.stderr, "Sent to printer")
	}
	if opts.copy {
		if err := export.CopyToClipboard(a.stderr, export.Text(plan)); err != nil {
			return err
		}
		printSuccess(a.stderr, "Copied to clipboard")
	}
	return nil
}

// writeGCode returns a writer producing a knife program with the named
// profile, checked against the material before it is written.
func (a *app) writeGCode(ctx context.Context, profileName string) func(string, model.Plan) error {
	return func(path string, plan model.Plan) error {
		logger := loggerFromContext(ctx)
		if profileName == "" {
			profileName = a.config.DefaultGCodeProfile
		}
		custom, err := project.LoadCustomProfiles(project.DefaultProfilesPath())
		if err != nil {
			logger.Warn("ignoring custom profiles", "err", err)
		}

		settings := model.DefaultCutterSettings()
		settings.Profile = profileName
		program := gcode.NewWithProfile(settings, project.ResolveProfile(profileName, custom)).Generate(plan)

		for _, v := range gcode.Verify(program, plan.RollWidth, plan.Metrics.TotalLength, settings.Overcut) {
			logger.Warn("cut program check", "problem", v.String())
		}
		return os.WriteFile(path, []byte(program), 0644)
	}
}
