package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stylint/internal/lint"
	"stylint/internal/rules"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "List the rule catalog",
		Long:  `List every known rule with its default severity. With --active, show the rules enabled by the configuration found for path (default: current directory).`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRules,
	}
	cmd.Flags().String("format", "table", "output format (table|json)")
	cmd.Flags().Bool("active", false, "show only rules enabled by the configuration")
	cmd.Flags().StringArray("rule", nil, "enable or override a rule: id or id=warning|error|off (repeatable)")
	return cmd
}

type ruleRow struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	Recommended bool   `json:"recommended"`
	Description string `json:"description"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be table or json)", format)
	}
	active, err := cmd.Flags().GetBool("active")
	if err != nil {
		return fmt.Errorf("failed to get active flag: %w", err)
	}
	overrides, err := cmd.Flags().GetStringArray("rule")
	if err != nil {
		return fmt.Errorf("failed to get rule flag: %w", err)
	}

	catalog := rules.Catalog()
	var rows []ruleRow
	if active || len(overrides) > 0 {
		configPath, err := cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}
		start := "."
		if len(args) == 1 {
			start = args[0]
		}
		cfg, err := loadConfig(configPath, start)
		if err != nil {
			return err
		}
		reg, err := configureRules(cfg, overrides)
		if err != nil {
			return err
		}
		for _, r := range reg.Rules() {
			rows = append(rows, rowOf(r))
		}
	} else {
		for i := range catalog {
			rows = append(rows, rowOf(&catalog[i]))
		}
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return renderRulesTable(cmd.OutOrStdout(), rows)
}

func rowOf(r *lint.Rule) ruleRow {
	return ruleRow{
		ID:          r.ID,
		Severity:    r.Severity.String(),
		Recommended: !r.Optional,
		Description: r.Description,
	}
}

func renderRulesTable(out io.Writer, rows []ruleRow) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEVERITY\tSET\tDESCRIPTION")
	for _, r := range rows {
		set := "optional"
		if r.Recommended {
			set = "recommended"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Severity, set, r.Description)
	}
	return tw.Flush()
}
