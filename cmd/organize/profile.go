package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/organize/pkg/organize"
	"github.com/arthur-debert/organize/pkg/organize/config"
)

func newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage named pattern profiles",
	}
	cmd.AddCommand(newProfileListCommand())
	cmd.AddCommand(newProfileAddCommand())
	cmd.AddCommand(newProfileExportCommand())
	cmd.AddCommand(newProfileImportCommand())
	return cmd
}

func newProfileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"Name", "Pattern", "Active"})
			for _, p := range cfg.Profiles {
				active := ""
				if p.Name == cfg.ActiveProfile {
					active = "*"
				}
				tw.AppendRow(table.Row{p.Name, p.Regex, active})
			}
			fmt.Println(tw.Render())
			return nil
		},
	}
}

func newProfileAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <pattern>",
		Short: "Save a new profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			// Reject patterns that would fail at planning time.
			if _, err := organize.NewPatternRule(args[1]); err != nil {
				return err
			}
			if err := cfg.AddProfile(config.Profile{Name: args[0], Regex: args[1]}); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Printf("Saved profile %q\n", args[0])
			return nil
		},
	}
}

func newProfileExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export profiles to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ExportProfiles(args[0]); err != nil {
				return err
			}
			fmt.Printf("Exported %d profile(s) to %s\n", len(cfg.Profiles), args[0])
			return nil
		},
	}
}

func newProfileImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import profiles from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			added, err := cfg.ImportProfiles(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Printf("Imported %d profile(s) from %s\n", added, args[0])
			return nil
		},
	}
}
