package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytbulk/internal/utils"
)

// CommandRunner runs one external process in dir and returns what it wrote.
// A non-nil error with an ExitCode() method means the process ran and failed;
// any other error means it never started.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args []string) (stdout, stderr []byte, err error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Debug().Str("op", "youtube/download").Msgf("Executing yt-dlp command: %s", cmd.String())
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

type exitCoder interface {
	ExitCode() int
}

// Download runs yt-dlp once for job. Every failure is reported on the
// returned outcome; nothing is retried.
func (d *YouTubeDownloader) Download(ctx context.Context, job utils.JobSpec) utils.JobOutcome {
	start := time.Now()
	outcome := utils.JobOutcome{
		JobID:  job.ID,
		Index:  job.Index,
		Target: job.Target,
	}
	args, err := d.args(job)
	if err != nil {
		outcome.Err = err
		outcome.Elapsed = time.Since(start)
		return outcome
	}
	if d.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.jobTimeout)
		defer cancel()
	}

	stdout, stderr, err := d.runner.Run(ctx, job.Destination, d.ytdlpPath, args)
	outcome.Stdout = string(stdout)
	outcome.Stderr = string(stderr)
	outcome.Elapsed = time.Since(start)
	if err == nil {
		outcome.Succeeded = true
		log.Debug().Str("op", "youtube/download").Str("job", job.ID).Msgf("yt-dlp download completed for %s", job.Target)
		return outcome
	}
	outcome.Err = d.classify(ctx, err)
	log.Debug().Str("op", "youtube/download").Str("job", job.ID).Err(outcome.Err).Msgf("yt-dlp failed for %s", job.Target)
	return outcome
}

func (d *YouTubeDownloader) classify(ctx context.Context, err error) error {
	var coded exitCoder
	if errors.As(err, &coded) {
		failure := &utils.ExternalFailure{ExitCode: coded.ExitCode()}
		if ctxErr := ctx.Err(); ctxErr != nil {
			failure.Err = fmt.Errorf("job interrupted: %w", ctxErr)
		}
		return failure
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("job interrupted before start: %w", ctxErr)
	}
	return &utils.SpawnError{Executable: d.ytdlpPath, Err: err}
}
