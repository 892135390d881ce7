package main

import (
	"os"

	"github.com/smartlearn-ai/smartlearn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
