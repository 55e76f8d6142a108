package main

import (
	"github.com/spf13/cobra"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/internal/server"
)

func serveCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the search and retrieve APIs over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return server.New(cfg).Run()
		},
	}
}
