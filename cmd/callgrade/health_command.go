package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check connectivity to the language-model API",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.llmClient()
			if err != nil {
				return err
			}
			if err := client.HealthCheck(cmd.Context()); err != nil {
				return fmt.Errorf("language-model API unreachable: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Language-model API reachable")
			return nil
		},
	}
}
