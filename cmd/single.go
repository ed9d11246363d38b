package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/ytbulk/internal/output"
	"github.com/tanq16/ytbulk/internal/prompt"
	"github.com/tanq16/ytbulk/internal/utils"
)

type singleOptions struct {
	quality string
	output  string
	target  string
}

func newSingleCmd() *cobra.Command {
	var opts singleOptions
	var mediaType string

	cmd := &cobra.Command{
		Use:     "single [URL] [--type audio|video] [--quality 720p] [--output DIR]",
		Short:   "Download one URL and show its details",
		Aliases: []string{"one"},
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			p := prompt.New()
			if len(args) == 1 {
				opts.target = args[0]
			}
			mode, err := resolveMode(p, mediaType)
			if err == nil {
				err = runSingle(cmd.Context(), p, mode, opts)
			}
			p.Close()
			exitOnError(err)
		},
	}

	cmd.Flags().StringVar(&mediaType, "type", "", "Download type (audio or video)")
	cmd.Flags().StringVarP(&opts.quality, "quality", "q", "", "Maximum video height (360p, 480p, 720p, 1080p)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Directory to save the file in")
	return cmd
}

func runSingle(ctx context.Context, p asker, mode utils.DownloadMode, opts singleOptions) error {
	quality, err := resolveQuality(p, mode, opts.quality, "Which quality do you want ?")
	if err != nil {
		return err
	}
	target, err := resolveText(p, opts.target, "Enter the url of the video", "")
	if err != nil {
		return err
	}
	noun := "file"
	if mode == utils.ModeVideo {
		noun = "video"
	}
	location, err := resolveText(p, opts.output, fmt.Sprintf("Enter the location where you want to save the %s", noun), cfg.SingleDir)
	if err != nil {
		return err
	}
	jobs, err := utils.BuildJobs(utils.BatchRequest{
		TargetList:  []string{target},
		Mode:        mode,
		Quality:     quality,
		Destination: location,
		AudioFormat: cfg.AudioFormat,
	})
	if err != nil {
		return err
	}
	if err := utils.EnsureDirectory(location); err != nil {
		return fmt.Errorf("preparing destination: %w", err)
	}
	log.Debug().Str("op", "cmd/single").Str("job", jobs[0].ID).Msgf("Downloading %s", target)
	outcome := newDownloader().Download(ctx, jobs[0])
	output.NewReporter(stdout).Single(outcome, location, quality)
	if !outcome.Succeeded {
		return errJobsFailed
	}
	return nil
}
