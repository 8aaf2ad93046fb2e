package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/project"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and manage the application config",
	}
	cmd.AddCommand(a.newConfigShowCmd(), a.newConfigInitCmd(), a.newConfigExportCmd(), a.newConfigImportCmd())
	return cmd
}

func (a *app) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(a.config, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, string(data))
			return nil
		},
	}
}

func (a *app) newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.configPath)
			}
			if err := project.SaveAppConfig(a.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			printSuccess(a.stdout, "Config written")
			printFile(a.stdout, a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func (a *app) newConfigExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Back up the config and custom GCode profiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := project.LoadCustomProfiles(project.DefaultProfilesPath())
			if err != nil {
				return fmt.Errorf("loading custom profiles: %w", err)
			}
			if err := project.ExportAllData(args[0], a.config, profiles); err != nil {
				return err
			}
			printSuccess(a.stdout, "Backup written (%d custom profiles)", len(profiles))
			printFile(a.stdout, args[0])
			return nil
		},
	}
}

func (a *app) newConfigImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore a backup made with 'config export'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(a.configPath, backup.Config); err != nil {
				return err
			}
			if len(backup.Profiles) > 0 {
				if err := project.SaveCustomProfiles(project.DefaultProfilesPath(), backup.Profiles); err != nil {
					return fmt.Errorf("saving custom profiles: %w", err)
				}
			}
			a.config = backup.Config
			printSuccess(a.stdout, "Restored backup from %s (version %s)", backup.CreatedAt, backup.Version)
			return nil
		},
	}
}
