package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/fetchkit/fetchkit/config"
	"github.com/fetchkit/fetchkit/internal/progress"
	"github.com/fetchkit/fetchkit/tools/web_retrieve"
	"github.com/fetchkit/fetchkit/tools/web_retrieve/models"
)

func retrieveCMD() *cobra.Command {
	var liveCrawl []string
	var summary []bool
	var contentTypes []string

	cmd := &cobra.Command{
		Use:   "retrieve <url> [url...]",
		Short: "Extract readable content from URLs and print the aggregate as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			req := models.Request{
				URLs:         args,
				ContentTypes: contentTypes,
				Summary:      summary,
				LiveCrawl:    liveCrawl,
			}

			tool := web_retrieve.New(cfg.Retrieve, progress.NewLogSink(nil), nil, nil)
			resp, err := tool.Retrieve(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringSliceVar(&liveCrawl, "livecrawl", nil, "per-url live-crawl mode: never, auto or preferred (single value broadcasts)")
	cmd.Flags().BoolSliceVar(&summary, "summary", nil, "per-url summary flag (single value broadcasts)")
	cmd.Flags().StringSliceVar(&contentTypes, "content-type", nil, "per-url content shape hint: text or markdown (single value broadcasts)")
	return cmd
}
