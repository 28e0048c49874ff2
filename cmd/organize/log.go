package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage the transaction journal",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear [directory]",
		Short: "Clear the journal",
		Long: `Truncate the directory's transaction journal. Rollback can no longer undo
anything journaled before this point.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			root := resolveRoot(args, cfg)
			engine, err := buildEngine(root, runFlags{}, cfg, nil)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			if err := engine.Journal().Clear(); err != nil {
				return err
			}
			fmt.Println("Journal cleared.")
			return nil
		},
	})
	return cmd
}
