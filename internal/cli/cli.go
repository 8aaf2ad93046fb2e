// Package cli implements the rollcut command-line interface.
//
// Commands:
//   - plan: pack a job and print the cutting plan, optionally exporting it
//   - compare: pack a job under several settings side by side
//   - estimate: area-based material estimate before packing
//   - serve: run the HTTP API
//   - config: show, initialise, back up and restore the app config
//
// All commands accept --verbose (-v) for debug logging and --config to use a
// config file other than ~/.rollcut/config.json. The logger travels in the
// command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/project"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app holds what every command shares: the streams and the loaded config.
type app struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	verbose    bool
	configPath string
	config     model.AppConfig
}

// NewRootCommand builds the command tree using the given streams.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "rollcut",
		Short:         "RollCut plans how to cut rectangular pieces from a roll",
		Long:          `RollCut packs rectangular pieces into full-width rows across a material roll, trying every combination and orientation to use as little roll length as possible.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if a.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(a.stderr, level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			cfg, err := project.LoadAppConfig(a.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.config = cfg
			logger.Debug("config loaded", "path", a.configPath)
			return nil
		},
	}

	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("rollcut %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", project.DefaultConfigPath(), "path to the config file")

	root.AddCommand(a.newPlanCmd())
	root.AddCommand(a.newCompareCmd())
	root.AddCommand(a.newEstimateCmd())
	root.AddCommand(a.newServeCmd())
	root.AddCommand(a.newConfigCmd())

	return root
}

// Execute runs the CLI with the process streams.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
}
