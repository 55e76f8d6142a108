package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/internal/progress"
	"github.com/fetchkit/fetchkit/tools/web_search"
	"github.com/fetchkit/fetchkit/tools/web_search/models"
)

func searchCMD() *cobra.Command {
	var maxResults int
	var topics []string

	cmd := &cobra.Command{
		Use:   "search <query> [query...]",
		Short: "Run one batch of web searches and print the outcomes as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			req := models.Request{Queries: args, MaxResults: maxResults}
			for _, t := range topics {
				req.Topics = append(req.Topics, models.Topic(t))
			}

			tool := web_search.New(cfg.Search, progress.NewLogSink(nil), nil, nil)
			resp, err := tool.Search(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "results per query (default 10, max 20)")
	cmd.Flags().StringSliceVar(&topics, "topics", nil, "per-query topic: general or news (single value broadcasts)")
	return cmd
}
