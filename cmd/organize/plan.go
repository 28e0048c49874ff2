package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/organize/pkg/organize"
)

func newPlanCommand() *cobra.Command {
	var (
		flags runFlags
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "plan [directory]",
		Short: "Preview the actions a run would perform",
		Long: `Plan the selected mode and print the resulting action list as a table
without executing anything or writing to the journal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			planMode, err := parseMode(mode)
			if err != nil {
				return err
			}
			var rule organize.NamingRule
			if planMode == organize.Forward {
				if rule, err = buildRule(flags, cfg); err != nil {
					return err
				}
			}
			root := resolveRoot(args, cfg)
			engine, err := buildEngine(root, flags, cfg, rule)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			batch, err := engine.Plan(planMode)
			if err != nil {
				return err
			}
			if len(batch.Actions) == 0 {
				fmt.Println("Nothing to do.")
				return nil
			}
			fmt.Println(renderBatch(batch))
			return nil
		},
	}
	addRunFlags(cmd, &flags)
	cmd.Flags().StringVarP(&mode, "mode", "m", "forward", "planning mode (forward|bytype|reverse)")
	return cmd
}

func parseMode(s string) (organize.Mode, error) {
	switch s {
	case "forward":
		return organize.Forward, nil
	case "bytype":
		return organize.ByType, nil
	case "reverse":
		return organize.Reverse, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want forward, bytype or reverse)", s)
	}
}

func renderBatch(batch *organize.Batch) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Action", "Source", "Destination"})
	for i, a := range batch.Actions {
		switch a.Kind {
		case organize.ActionMove:
			tw.AppendRow(table.Row{strconv.Itoa(i + 1), "move", a.Source, a.Path})
		case organize.ActionRemove:
			tw.AppendRow(table.Row{strconv.Itoa(i + 1), "remove", a.Path, ""})
		}
	}
	return tw.Render()
}
