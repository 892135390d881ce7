package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smartlearn-ai/smartlearn/internal/history"
	"github.com/smartlearn-ai/smartlearn/internal/llm"
	"github.com/smartlearn-ai/smartlearn/internal/prompts"
	"github.com/smartlearn-ai/smartlearn/internal/search"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [topic]",
	Short: "Generate a practice quiz from your study material",
	Long: `Retrieves material about the topic and generates practice questions
with answers, grounded in the retrieved passages.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().Int("questions", 5, "number of quiz questions")
	quizCmd.Flags().Int("limit", 0, "number of passages to retrieve (overrides config)")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	topic := args[0]
	questions, _ := cmd.Flags().GetInt("questions")
	limit, _ := cmd.Flags().GetInt("limit")

	return runGeneration(topic, limit, history.KindQuiz,
		func(b *prompts.Builder, results []search.Result) []llm.Message {
			return b.Quiz(topic, questions, results)
		})
}
