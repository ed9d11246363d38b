package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytbulk/internal/utils"
)

type indexedJob struct {
	slot int
	job  utils.JobSpec
}

// Run executes every job with the given downloader and returns one outcome
// per job, in input order. numWorkers bounds concurrency; zero or a value
// above len(jobs) runs one unit per job. A failing job never stops its
// siblings. Run returns only after every job has finished.
func Run(ctx context.Context, jobs []utils.JobSpec, numWorkers int, downloader utils.Downloader) []utils.JobOutcome {
	outcomes := make([]utils.JobOutcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}
	if numWorkers <= 0 || numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}
	batchID := uuid.NewString()
	start := time.Now()
	log.Debug().Str("op", "scheduler/run").Str("batch", batchID).Msgf("Starting scheduler with %d jobs on %d workers", len(jobs), numWorkers)

	jobCh := make(chan indexedJob, len(jobs))
	for i, job := range jobs {
		jobCh <- indexedJob{slot: i, job: job}
	}
	close(jobCh)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			processJobs(ctx, workerID, jobCh, downloader, outcomes)
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, o := range outcomes {
		if !o.Succeeded {
			failed++
		}
	}
	log.Debug().Str("op", "scheduler/run").Str("batch", batchID).
		Int("jobs", len(jobs)).Int("failed", failed).
		Dur("elapsed", time.Since(start)).Msg("Batch finished")
	return outcomes
}

// processJobs drains jobCh. Each slot of outcomes is written by exactly one
// worker, so no locking is needed.
func processJobs(ctx context.Context, workerID int, jobCh <-chan indexedJob, downloader utils.Downloader, outcomes []utils.JobOutcome) {
	for item := range jobCh {
		log.Debug().Str("op", "scheduler/worker").Int("worker", workerID).Str("job", item.job.ID).Msgf("Downloading %s", item.job.Target)
		outcomes[item.slot] = runOne(ctx, item.job, downloader)
	}
}

func runOne(ctx context.Context, job utils.JobSpec, downloader utils.Downloader) (outcome utils.JobOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("op", "scheduler/worker").Str("job", job.ID).Msgf("Download panicked: %v", r)
			outcome = utils.JobOutcome{
				JobID:  job.ID,
				Index:  job.Index,
				Target: job.Target,
				Err:    fmt.Errorf("download panicked: %v", r),
			}
		}
	}()
	if err := ctx.Err(); err != nil {
		return utils.JobOutcome{
			JobID:  job.ID,
			Index:  job.Index,
			Target: job.Target,
			Err:    fmt.Errorf("job not started: %w", err),
		}
	}
	outcome = downloader.Download(ctx, job)
	// the downloader owns the payload, the scheduler owns correlation
	outcome.JobID = job.ID
	outcome.Index = job.Index
	outcome.Target = job.Target
	return outcome
}
