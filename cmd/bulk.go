package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/tanq16/ytbulk/internal/prompt"
	"github.com/tanq16/ytbulk/internal/utils"
)

type bulkOptions struct {
	quality string
	output  string
	targets string
}

func newBulkCmd() *cobra.Command {
	var opts bulkOptions
	var mediaType string

	cmd := &cobra.Command{
		Use:   "bulk [URLS] [--type audio|video] [--quality 720p] [--output DIR]",
		Short: "Download a comma-separated list of URLs in parallel",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			p := prompt.New()
			if len(args) == 1 {
				opts.targets = args[0]
			}
			mode, err := resolveMode(p, mediaType)
			if err == nil {
				err = runBulk(cmd.Context(), p, mode, opts)
			}
			p.Close()
			exitOnError(err)
		},
	}

	cmd.Flags().StringVar(&mediaType, "type", "", "Download type (audio or video)")
	cmd.Flags().StringVarP(&opts.quality, "quality", "q", "", "Maximum video height (360p, 480p, 720p, 1080p)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Directory to save the downloads in")
	return cmd
}

func runBulk(ctx context.Context, p asker, mode utils.DownloadMode, opts bulkOptions) error {
	quality, err := resolveQuality(p, mode, opts.quality, "Which quality do you want ? (This format will be used for each video)")
	if err != nil {
		return err
	}
	location, err := resolveText(p, opts.output, "Enter the location where you want to save your downloads", cfg.BulkDir)
	if err != nil {
		return err
	}
	targets, err := resolveText(p, opts.targets, "Enter the urls of the videos (separated by a comma)", "")
	if err != nil {
		return err
	}
	req := utils.BatchRequest{
		Targets:     targets,
		Mode:        mode,
		Quality:     quality,
		Destination: location,
		AudioFormat: cfg.AudioFormat,
	}
	// reject bad input before yt-dlp is located or fetched
	if _, err := utils.BuildJobs(req); err != nil {
		return err
	}
	_, err = dispatch(ctx, req, newDownloader())
	return err
}
