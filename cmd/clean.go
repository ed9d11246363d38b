package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tanq16/ytbulk/internal/output"
	"github.com/tanq16/ytbulk/internal/utils"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the cached yt-dlp binary",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := utils.CleanCache(cfg.CacheDir); err != nil {
				output.PrintError("Error cleaning up the yt-dlp cache")
				exitOnError(err)
			}
			output.PrintSuccess("yt-dlp cache cleaned up")
		},
	}
}
