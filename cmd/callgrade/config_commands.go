package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"callgrade/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := [][]string{
				{"openai.model", cfg.OpenAI.Model},
				{"openai.base_url", cfg.OpenAI.BaseURL},
				{"openai.api_key", maskSecret(cfg.OpenAI.APIKey)},
				{"deepgram.model", cfg.Deepgram.Model},
				{"deepgram.base_url", cfg.Deepgram.BaseURL},
				{"deepgram.api_key", maskSecret(cfg.Deepgram.APIKey)},
				{"intake.max_file_size_mb", fmt.Sprintf("%d", cfg.Intake.MaxFileSizeMB)},
				{"intake.audio_extensions", strings.Join(cfg.Intake.AudioExtensions, ", ")},
				{"intake.text_extensions", strings.Join(cfg.Intake.TextExtensions, ", ")},
				{"intake.ffprobe_binary", cfg.Intake.FFprobeBinary},
				{"workflow.max_retries", fmt.Sprintf("%d", cfg.Workflow.MaxRetries)},
				{"scoring.passing_threshold", fmt.Sprintf("%.1f", cfg.Scoring.PassingThreshold)},
				{"scoring.escalation_threshold", fmt.Sprintf("%.1f", cfg.Scoring.EscalationThreshold)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	}
}

func maskSecret(value string) string {
	if value == "" {
		return "(unset)"
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			if err := config.WriteSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set openai.api_key and deepgram.api_key (or export OPENAI_API_KEY and DEEPGRAM_API_KEY) before grading calls.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate the configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Model: %s\n", cfg.OpenAI.Model)
			fmt.Fprintf(out, "Transcription model: %s\n", cfg.Deepgram.Model)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
