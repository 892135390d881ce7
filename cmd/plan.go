package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smartlearn-ai/smartlearn/internal/history"
	"github.com/smartlearn-ai/smartlearn/internal/llm"
	"github.com/smartlearn-ai/smartlearn/internal/prompts"
	"github.com/smartlearn-ai/smartlearn/internal/search"
)

var planCmd = &cobra.Command{
	Use:   "plan [topic]",
	Short: "Generate a study plan for a topic",
	Long: `Retrieves material about the topic and generates a day-by-day study
plan grounded in what you actually have, personalized with your study
profile when one exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().Int("days", 7, "length of the study plan in days")
	planCmd.Flags().Int("limit", 0, "number of passages to retrieve (overrides config)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	topic := args[0]
	days, _ := cmd.Flags().GetInt("days")
	limit, _ := cmd.Flags().GetInt("limit")

	return runGeneration(topic, limit, history.KindPlan,
		func(b *prompts.Builder, results []search.Result) []llm.Message {
			return b.StudyPlan(topic, days, results)
		})
}
