package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "fetchkit",
		Short: "Resilient web search and content retrieval for AI assistants",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(serveCMD(), searchCMD(), retrieveCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
