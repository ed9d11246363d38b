package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytbulk/internal/downloaders/youtube"
	"github.com/tanq16/ytbulk/internal/output"
	"github.com/tanq16/ytbulk/internal/scheduler"
	"github.com/tanq16/ytbulk/internal/utils"
)

var errJobsFailed = errors.New("one or more downloads failed")

var stdout io.Writer = os.Stdout

// asker is the subset of prompt.Prompter the flows need.
type asker interface {
	Select(question string, items []string, def int) (int, error)
	Input(question, def string) (string, error)
}

var modeNames = []string{"Audio", "Video"}

func resolveMode(p asker, flagValue string) (utils.DownloadMode, error) {
	if flagValue != "" {
		return utils.ParseMode(flagValue)
	}
	idx, err := p.Select("Which type do you want ?", modeNames, 0)
	if err != nil {
		return 0, err
	}
	return utils.ParseMode(modeNames[idx])
}

// resolveQuality returns nil for audio. Video without a flag asks, with the
// lowest tier preselected.
func resolveQuality(p asker, mode utils.DownloadMode, flagValue, question string) (*utils.Quality, error) {
	if mode == utils.ModeAudio {
		if flagValue != "" {
			return nil, &utils.InputError{Field: "quality", Reason: "audio downloads take no quality tier"}
		}
		return nil, nil
	}
	if flagValue != "" {
		q, err := utils.ParseQuality(flagValue)
		if err != nil {
			return nil, err
		}
		return &q, nil
	}
	if p == nil {
		q := utils.QualityTiers[0]
		return &q, nil
	}
	idx, err := p.Select(question, utils.QualityNames(), 0)
	if err != nil {
		return nil, err
	}
	q := utils.QualityTiers[idx]
	return &q, nil
}

func resolveText(p asker, flagValue, question, def string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return p.Input(question, def)
}

var newDownloader = defaultDownloader

// defaultDownloader never fails: when yt-dlp cannot be located the configured
// name is used as is and every job reports the spawn error on its own.
func defaultDownloader() utils.Downloader {
	path, err := youtube.EnsureYtdlp(cfg.YtdlpPath, cfg.CacheDir)
	if err != nil {
		log.Warn().Str("op", "cmd/common").Err(err).Msg("Could not locate yt-dlp")
		path = cfg.YtdlpPath
	}
	opts := []youtube.Option{youtube.WithJobTimeout(cfg.JobTimeout)}
	ffmpeg, err := youtube.EnsureFFmpeg(cfg.FFmpegPath)
	if err != nil {
		log.Debug().Str("op", "cmd/common").Err(err).Msg("ffmpeg not located, leaving the lookup to yt-dlp")
	} else {
		opts = append(opts, youtube.WithFFmpeg(ffmpeg))
	}
	return youtube.NewYouTubeDownloader(path, opts...)
}

// dispatch validates the request, runs it and reports every outcome.
func dispatch(ctx context.Context, req utils.BatchRequest, downloader utils.Downloader) ([]utils.JobOutcome, error) {
	jobs, err := utils.BuildJobs(req)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDirectory(req.Destination); err != nil {
		return nil, fmt.Errorf("preparing destination: %w", err)
	}
	log.Debug().Str("op", "cmd/dispatch").Msgf("Starting scheduler with %d jobs", len(jobs))
	outcomes := scheduler.Run(ctx, jobs, cfg.Workers, downloader)
	output.NewReporter(stdout).Batch(outcomes)
	for _, o := range outcomes {
		if !o.Succeeded {
			return outcomes, errJobsFailed
		}
	}
	return outcomes, nil
}
