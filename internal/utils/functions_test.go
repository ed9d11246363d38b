package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qualityPtr(q Quality) *Quality { return &q }

func TestParseTargets(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "a.example/1", []string{"a.example/1"}},
		{"trims whitespace", " a.example/1 ,  a.example/2 ", []string{"a.example/1", "a.example/2"}},
		{"drops empty entries", "a.example/1,,  ,a.example/2,", []string{"a.example/1", "a.example/2"}},
		{"drops repeats keeping first", "b,a,b,c,a", []string{"b", "a", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTargets(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTargetsEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", ",", " , ,\t"} {
		_, err := ParseTargets(raw)
		require.Error(t, err)
		var nte *NoTargetsError
		assert.ErrorAs(t, err, &nte)
		assert.True(t, IsInputError(err), "NoTargetsError should count as input error")
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in      string
		want    Quality
		wantErr bool
	}{
		{"360p", 360, false},
		{"720p", 720, false},
		{"1080", 1080, false},
		{" 480P ", 480, false},
		{"4k", 0, true},
		{"", 0, true},
		{"240p", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseQuality(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			assert.True(t, IsInputError(err))
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestQualityFormatExpression(t *testing.T) {
	assert.Equal(t, "best[height<=720]", Quality(720).FormatExpression())
	assert.Equal(t, "best[height<=1080]", Quality(1080).FormatExpression())
	assert.Equal(t, "360p", Quality(360).String())
	assert.Equal(t, []string{"360p", "480p", "720p", "1080p"}, QualityNames())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Audio")
	require.NoError(t, err)
	assert.Equal(t, ModeAudio, m)

	m, err = ParseMode(" video ")
	require.NoError(t, err)
	assert.Equal(t, ModeVideo, m)

	_, err = ParseMode("podcast")
	assert.True(t, IsInputError(err))
}

func TestBuildJobs(t *testing.T) {
	jobs, err := BuildJobs(BatchRequest{
		Targets:     "a.example/1, a.example/2",
		Mode:        ModeVideo,
		Quality:     qualityPtr(720),
		Destination: "/tmp/out",
	})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	for i, job := range jobs {
		assert.Equal(t, i, job.Index)
		assert.NotEmpty(t, job.ID)
		assert.Equal(t, ModeVideo, job.Mode)
		assert.Equal(t, "/tmp/out", job.Destination)
		assert.Equal(t, DefaultAudioFormat, job.AudioFormat)
		require.NotNil(t, job.Quality)
		assert.Equal(t, Quality(720), *job.Quality)
	}
	assert.Equal(t, "a.example/1", jobs[0].Target)
	assert.Equal(t, "a.example/2", jobs[1].Target)
	assert.NotEqual(t, jobs[0].ID, jobs[1].ID)
	assert.NotSame(t, jobs[0].Quality, jobs[1].Quality, "jobs must not share quality storage")
}

func TestBuildJobsTargetList(t *testing.T) {
	jobs, err := BuildJobs(BatchRequest{
		Targets:     "ignored,when,list,is,set",
		TargetList:  []string{"https://a.example/watch?v=1&list=a,b", "  ", "https://a.example/2", "https://a.example/2"},
		Mode:        ModeAudio,
		Destination: "/tmp/out",
	})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "https://a.example/watch?v=1&list=a,b", jobs[0].Target)
	assert.Equal(t, "https://a.example/2", jobs[1].Target)
	assert.Equal(t, 1, jobs[1].Index)

	_, err = CleanTargets([]string{"", " "})
	var nte *NoTargetsError
	assert.ErrorAs(t, err, &nte)
}

func TestBuildJobsRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  BatchRequest
	}{
		{"video without quality", BatchRequest{Targets: "x", Mode: ModeVideo, Destination: "/tmp"}},
		{"audio with quality", BatchRequest{Targets: "x", Mode: ModeAudio, Quality: qualityPtr(480), Destination: "/tmp"}},
		{"unknown mode", BatchRequest{Targets: "x", Mode: DownloadMode(7), Destination: "/tmp"}},
		{"no destination", BatchRequest{Targets: "x", Mode: ModeAudio}},
		{"whitespace targets", BatchRequest{Targets: "  , ", Mode: ModeAudio, Destination: "/tmp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := BuildJobs(tt.req)
			assert.Nil(t, jobs)
			assert.True(t, IsInputError(err), "got %v", err)
		})
	}
}

func TestJobOutcomePayload(t *testing.T) {
	ok := JobOutcome{Succeeded: true, Stdout: "id\ntitle\n", Stderr: "warning"}
	assert.Equal(t, "id\ntitle", ok.Payload())

	failed := JobOutcome{Stderr: " network error\n"}
	assert.Equal(t, "network error", failed.Payload())

	spawn := JobOutcome{Err: &SpawnError{Executable: "yt-dlp", Err: os.ErrNotExist}}
	assert.Contains(t, spawn.Payload(), "could not start yt-dlp")
}

func TestFormatMegabytes(t *testing.T) {
	assert.Equal(t, "12.3", FormatMegabytes(12345678))
	assert.Equal(t, "0.0", FormatMegabytes(0))
}

func TestEnsureDirectory(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "nested", "out")
	require.NoError(t, EnsureDirectory(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	file := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.True(t, IsInputError(EnsureDirectory(file)))
}

func TestCleanCache(t *testing.T) {
	cache := filepath.Join(t.TempDir(), CacheDir)
	require.NoError(t, CleanCache(cache), "missing cache is not an error")

	require.NoError(t, os.MkdirAll(cache, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cache, "yt-dlp"), []byte("bin"), 0755))
	require.NoError(t, CleanCache(cache))
	_, err := os.Stat(cache)
	assert.True(t, os.IsNotExist(err))
}
