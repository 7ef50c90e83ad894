package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stylint/internal/config"
	"stylint/internal/rules"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter stylint.toml",
		Long:  `Write stylint.toml listing every rule with its default severity. Optional rules are written as "off".`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return fmt.Errorf("failed to get force flag: %w", err)
			}
			path, err := config.WriteStarter(dir, rules.Catalog(), force)
			if errors.Is(err, config.ErrExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			if err != nil {
				return err
			}
			quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing stylint.toml")
	return cmd
}
