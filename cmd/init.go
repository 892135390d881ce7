package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartlearn-ai/smartlearn/internal/config"
	"github.com/smartlearn-ai/smartlearn/internal/prompts"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize smartlearn configuration with an interactive wizard",
	Long: `Runs an interactive wizard to configure smartlearn for your study
material and generates a .smartlearn.yml file. With --profile it also
collects a study profile (subject, level, goals) used to personalize
generated answers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}

		withProfile, _ := cmd.Flags().GetBool("profile")
		if !withProfile {
			return nil
		}

		profile, err := prompts.CollectInteractive()
		if err != nil {
			return fmt.Errorf("collecting study profile: %w", err)
		}
		if profile == nil || profile.IsEmpty() {
			return nil
		}
		if err := profile.Save(cfg.ProfileFile); err != nil {
			return fmt.Errorf("saving study profile: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Study profile saved to %s\n", cfg.ProfileFile)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("profile", false, "also collect a study profile interactively")
	rootCmd.AddCommand(initCmd)
}
