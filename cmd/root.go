package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smartlearn-ai/smartlearn/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "smartlearn",
	Short: "AI-powered study assistant over your own course material",
	Long: `SmartLearn ingests a directory of study material (notes, markdown,
source code), chunks it by content type, and indexes it for hybrid
semantic + keyword retrieval. Retrieved passages ground LLM-generated
answers, study plans, and quizzes. It also integrates with AI agents
via MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
