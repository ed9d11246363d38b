package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/ytbulk/internal/utils"
)

type stubResult struct {
	delay  time.Duration
	ok     bool
	stdout string
	stderr string
	panic  bool
}

type stubDownloader struct {
	results  map[string]stubResult
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	mu       sync.Mutex
	started  []string
}

func (s *stubDownloader) Download(ctx context.Context, job utils.JobSpec) utils.JobOutcome {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if n <= seen || s.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	s.mu.Lock()
	s.started = append(s.started, job.Target)
	s.mu.Unlock()

	r := s.results[job.Target]
	if r.panic {
		panic("boom")
	}
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return utils.JobOutcome{Target: job.Target, Err: ctx.Err()}
	}
	outcome := utils.JobOutcome{Succeeded: r.ok, Stdout: r.stdout, Stderr: r.stderr}
	if !r.ok {
		outcome.Err = &utils.ExternalFailure{ExitCode: 1}
	}
	return outcome
}

func buildJobs(t *testing.T, targets string) []utils.JobSpec {
	t.Helper()
	jobs, err := utils.BuildJobs(utils.BatchRequest{Targets: targets, Mode: utils.ModeAudio, Destination: "/tmp/out"})
	require.NoError(t, err)
	return jobs
}

func TestRunPreservesInputOrder(t *testing.T) {
	stub := &stubDownloader{results: map[string]stubResult{
		"a.example/1": {delay: 80 * time.Millisecond, ok: true, stdout: "one"},
		"a.example/2": {delay: 40 * time.Millisecond, ok: true, stdout: "two"},
		"a.example/3": {delay: 0, ok: true, stdout: "three"},
	}}
	jobs := buildJobs(t, "a.example/1,a.example/2,a.example/3")

	outcomes := Run(context.Background(), jobs, 0, stub)
	require.Len(t, outcomes, 3)
	for i, o := range outcomes {
		assert.Equal(t, jobs[i].Target, o.Target)
		assert.Equal(t, jobs[i].ID, o.JobID)
		assert.Equal(t, i, o.Index)
		assert.True(t, o.Succeeded)
	}
	assert.Equal(t, []string{"one", "two", "three"}, []string{outcomes[0].Stdout, outcomes[1].Stdout, outcomes[2].Stdout})
	assert.EqualValues(t, 3, stub.calls.Load())
}

func TestRunIsolatesFailures(t *testing.T) {
	stub := &stubDownloader{results: map[string]stubResult{
		"a.example/1": {ok: false, stderr: "network error"},
		"a.example/2": {delay: 20 * time.Millisecond, ok: true, stdout: "fine"},
	}}
	outcomes := Run(context.Background(), buildJobs(t, "a.example/1,a.example/2"), 0, stub)
	require.Len(t, outcomes, 2)

	assert.False(t, outcomes[0].Succeeded)
	assert.Equal(t, "network error", outcomes[0].Diagnostic())
	assert.True(t, outcomes[1].Succeeded)
	assert.Equal(t, "fine", outcomes[1].Payload())
}

func TestRunRunsJobsConcurrently(t *testing.T) {
	results := make(map[string]stubResult)
	targets := ""
	for i := 0; i < 5; i++ {
		target := fmt.Sprintf("t%d", i)
		results[target] = stubResult{delay: 150 * time.Millisecond, ok: true}
		targets += target + ","
	}
	stub := &stubDownloader{results: results}

	start := time.Now()
	outcomes := Run(context.Background(), buildJobs(t, targets), 0, stub)
	assert.Len(t, outcomes, 5)
	assert.Less(t, time.Since(start), 600*time.Millisecond, "jobs should overlap")
	assert.EqualValues(t, 5, stub.maxSeen.Load())
}

func TestRunRespectsWorkerBound(t *testing.T) {
	results := make(map[string]stubResult)
	targets := ""
	for i := 0; i < 6; i++ {
		target := fmt.Sprintf("t%d", i)
		results[target] = stubResult{delay: 30 * time.Millisecond, ok: true}
		targets += target + ","
	}
	stub := &stubDownloader{results: results}

	outcomes := Run(context.Background(), buildJobs(t, targets), 2, stub)
	assert.Len(t, outcomes, 6)
	assert.LessOrEqual(t, stub.maxSeen.Load(), int32(2))
	assert.EqualValues(t, 6, stub.calls.Load())
}

func TestRunIsDeterministic(t *testing.T) {
	results := map[string]stubResult{
		"x": {delay: 30 * time.Millisecond, ok: true, stdout: "x"},
		"y": {ok: false, stderr: "bad"},
		"z": {delay: 10 * time.Millisecond, ok: true, stdout: "z"},
	}
	summarize := func(outcomes []utils.JobOutcome) []string {
		var s []string
		for _, o := range outcomes {
			s = append(s, fmt.Sprintf("%s:%v:%s", o.Target, o.Succeeded, o.Payload()))
		}
		return s
	}
	first := summarize(Run(context.Background(), buildJobs(t, "x,y,z"), 0, &stubDownloader{results: results}))
	second := summarize(Run(context.Background(), buildJobs(t, "x,y,z"), 0, &stubDownloader{results: results}))
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"x:true:x", "y:false:bad", "z:true:z"}, first)
}

func TestRunRecoversPanics(t *testing.T) {
	stub := &stubDownloader{results: map[string]stubResult{
		"bad":  {panic: true},
		"good": {ok: true, stdout: "ok"},
	}}
	outcomes := Run(context.Background(), buildJobs(t, "bad,good"), 1, stub)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Succeeded)
	assert.Equal(t, "bad", outcomes[0].Target)
	assert.ErrorContains(t, outcomes[0].Err, "panicked")
	assert.True(t, outcomes[1].Succeeded)
}

func TestRunCancelledContext(t *testing.T) {
	stub := &stubDownloader{results: map[string]stubResult{
		"a": {delay: time.Second, ok: true},
		"b": {delay: time.Second, ok: true},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := Run(ctx, buildJobs(t, "a,b"), 0, stub)
	require.Len(t, outcomes, 2)
	for i, o := range outcomes {
		assert.False(t, o.Succeeded)
		assert.ErrorIs(t, o.Err, context.Canceled)
		assert.Equal(t, []string{"a", "b"}[i], o.Target)
	}
	assert.EqualValues(t, 0, stub.calls.Load())
}

func TestRunEmpty(t *testing.T) {
	stub := &stubDownloader{}
	assert.Empty(t, Run(context.Background(), nil, 4, stub))
	assert.EqualValues(t, 0, stub.calls.Load())
}
