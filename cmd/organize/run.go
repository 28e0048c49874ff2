package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/organize/pkg/organize"
)

func newRunCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [directory]",
		Short: "Organize files into pattern-derived subfolders",
		Long: `Organize files in the directory into subfolders named after the first
capture group of the pattern. Files the pattern does not match are left alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			rule, err := buildRule(flags, cfg)
			if err != nil {
				return err
			}
			root := resolveRoot(args, cfg)
			engine, err := buildEngine(root, flags, cfg, rule)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			result, err := engine.Run(cmd.Context(), organize.Forward, &consoleReporter{})
			if err != nil {
				return err
			}
			rememberDirectory(cfg, path, engine.Root())
			return summarize(result)
		},
	}
	addRunFlags(cmd, &flags)
	return cmd
}

func newByTypeCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "bytype [directory]",
		Short: "Organize files into fixed category subfolders",
		Long: `Organize files in the directory into category subfolders (Images, Videos,
Documents, ...) derived from each file's extension. Files with an unknown or
missing extension go to Others.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			root := resolveRoot(args, cfg)
			engine, err := buildEngine(root, flags, cfg, nil)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			result, err := engine.Run(cmd.Context(), organize.ByType, &consoleReporter{})
			if err != nil {
				return err
			}
			rememberDirectory(cfg, path, engine.Root())
			return summarize(result)
		},
	}
	addRunFlags(cmd, &flags)
	_ = cmd.Flags().MarkHidden("pattern")
	_ = cmd.Flags().MarkHidden("profile")
	return cmd
}

func newRevertCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "revert [directory]",
		Short: "Flatten files back into the directory root",
		Long: `Move every file below the directory back into its root and remove the
subfolders the moves leave empty.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			root := resolveRoot(args, cfg)
			engine, err := buildEngine(root, flags, cfg, nil)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			result, err := engine.Run(cmd.Context(), organize.Reverse, &consoleReporter{})
			if err != nil {
				return err
			}
			rememberDirectory(cfg, path, engine.Root())
			return summarize(result)
		},
	}
	addRunFlags(cmd, &flags)
	_ = cmd.Flags().MarkHidden("pattern")
	_ = cmd.Flags().MarkHidden("profile")
	return cmd
}

func newRollbackCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "rollback [directory]",
		Short: "Undo the most recent batch",
		Long: `Read the transaction journal and reverse the most recent batch of actions.
Run it again to unwind the batch before that.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			root := resolveRoot(args, cfg)
			engine, err := buildEngine(root, flags, cfg, nil)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			return engine.Rollback(cmd.Context(), &consoleReporter{})
		},
	}
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "worker pool size (0 = default)")
	return cmd
}
