package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/organize/pkg/organize"
	"github.com/arthur-debert/organize/pkg/organize/config"
)

// runFlags are the per-run options shared by the organizing subcommands.
type runFlags struct {
	pattern    string
	profile    string
	subfolders bool
	dryRun     bool
	backup     bool
	workers    int
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVarP(&f.pattern, "pattern", "p", "", "regex pattern; first capture group names the destination folder")
	cmd.Flags().StringVar(&f.profile, "profile", "", "named pattern profile from the config")
	cmd.Flags().BoolVarP(&f.subfolders, "subfolders", "s", false, "also organize files inside subfolders")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "report actions without performing them")
	cmd.Flags().BoolVarP(&f.backup, "backup", "b", false, "copy sources into <root>/backup before moving")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "worker pool size (0 = default)")
}

func configPath() (string, error) {
	if cfgPath != "" {
		return cfgPath, nil
	}
	return config.DefaultPath()
}

func loadConfig() (*config.Config, string, error) {
	path, err := configPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// resolveRoot picks the root directory: the positional argument, then the
// remembered last-used directory, then the working directory.
func resolveRoot(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg.LastUsedDirectory != "" {
		return cfg.LastUsedDirectory
	}
	return "."
}

// buildRule resolves the pattern rule for forward mode: an explicit pattern
// wins, otherwise the selected (or active) profile supplies one.
func buildRule(f runFlags, cfg *config.Config) (organize.NamingRule, error) {
	expr := f.pattern
	if expr == "" {
		name := f.profile
		if name == "" {
			name = cfg.ActiveProfile
		}
		profile, ok := cfg.FindProfile(name)
		if !ok {
			return nil, fmt.Errorf("profile %q not found", name)
		}
		expr = profile.Regex
	}
	return organize.NewPatternRule(expr)
}

func buildEngine(root string, f runFlags, cfg *config.Config, rule organize.NamingRule) (*organize.Engine, error) {
	level, err := organize.LogLevelFromString(logLevel)
	if err != nil {
		return nil, err
	}
	logger := organize.NewLogger(os.Stderr, level)

	workers := f.workers
	if workers == 0 {
		workers = cfg.Workers
	}
	return organize.New(root, organize.Options{
		Rule:              rule,
		IncludeSubfolders: f.subfolders || cfg.IncludeSubfolders,
		DryRun:            f.dryRun,
		Backup:            f.backup || cfg.Backup,
		Workers:           workers,
		Logger:            &logger,
	})
}

// rememberDirectory persists the root as the next default. Failures are not
// worth surfacing to the user.
func rememberDirectory(cfg *config.Config, path, root string) {
	cfg.LastUsedDirectory = root
	_ = cfg.Save(path)
}

// consoleReporter renders the engine's two output streams on stdout.
type consoleReporter struct {
	lastPct int
}

func (r *consoleReporter) Progress(pct int) {
	r.lastPct = pct
}

func (r *consoleReporter) Status(line string) {
	fmt.Printf("[%3d%%] %s\n", r.lastPct, line)
}

func summarize(result *organize.Result) error {
	if len(result.Outcomes) == 0 {
		fmt.Println("Nothing to do.")
		return nil
	}
	failed := len(result.Errors)
	fmt.Printf("\n%d action(s), %d failed (batch %d)\n", len(result.Outcomes), failed, result.Sequence)
	if !result.Success {
		return fmt.Errorf("%d action(s) failed", failed)
	}
	return nil
}
