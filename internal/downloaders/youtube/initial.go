package youtube

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytbulk/internal/utils"
)

type YouTubeDownloader struct {
	ytdlpPath  string
	ffmpegPath string
	jobTimeout time.Duration
	runner     CommandRunner
}

type Option func(*YouTubeDownloader)

// WithRunner replaces the process runner, mostly for tests.
func WithRunner(r CommandRunner) Option {
	return func(d *YouTubeDownloader) { d.runner = r }
}

// WithJobTimeout bounds every job; zero disables the bound.
func WithJobTimeout(timeout time.Duration) Option {
	return func(d *YouTubeDownloader) { d.jobTimeout = timeout }
}

// WithFFmpeg points audio extraction at a specific ffmpeg. Without it yt-dlp
// searches PATH itself.
func WithFFmpeg(path string) Option {
	return func(d *YouTubeDownloader) { d.ffmpegPath = path }
}

func NewYouTubeDownloader(ytdlpPath string, opts ...Option) *YouTubeDownloader {
	d := &YouTubeDownloader{
		ytdlpPath: ytdlpPath,
		runner:    ExecRunner{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ProbeTemplate is passed to -O so yt-dlp prints one probe field per line.
func ProbeTemplate() string {
	return strings.Join(utils.ProbeFields, ",")
}

// BuildArgs returns the yt-dlp arguments for one job. The target always comes
// last, after "--", so it can never be read as an option.
func BuildArgs(job utils.JobSpec) ([]string, error) {
	args := []string{"-O", ProbeTemplate(), "--no-simulate"}
	switch job.Mode {
	case utils.ModeVideo:
		if job.Quality == nil {
			return nil, &utils.InputError{Field: "quality", Reason: "video downloads need a quality tier"}
		}
		args = append(args, "-f", job.Quality.FormatExpression())
	case utils.ModeAudio:
		format := job.AudioFormat
		if format == "" {
			format = utils.DefaultAudioFormat
		}
		args = append(args, "-x", "--audio-format", format)
	default:
		return nil, &utils.InputError{Field: "type", Reason: "unknown download type"}
	}
	return append(args, "--", job.Target), nil
}

// args adds --ffmpeg-location to audio jobs, ahead of the "--" separator.
func (d *YouTubeDownloader) args(job utils.JobSpec) ([]string, error) {
	args, err := BuildArgs(job)
	if err != nil || job.Mode != utils.ModeAudio || d.ffmpegPath == "" {
		return args, err
	}
	tail := args[len(args)-2:]
	out := append([]string{}, args[:len(args)-2]...)
	out = append(out, "--ffmpeg-location", d.ffmpegPath)
	return append(out, tail...), nil
}

// EnsureYtdlp resolves the executable: an explicit path is used as is, a bare
// name is looked up on PATH, next to this binary, then in the cache dir, and
// finally fetched from the yt-dlp releases.
func EnsureYtdlp(configured, cacheDir string) (string, error) {
	if configured == "" {
		configured = "yt-dlp"
	}
	if strings.ContainsRune(configured, os.PathSeparator) {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("yt-dlp not found at %s: %w", configured, err)
		}
		return configured, nil
	}
	path, err := exec.LookPath(configured)
	if err == nil {
		return path, nil
	}
	name := configured
	if runtime.GOOS == "windows" && !strings.HasSuffix(name, ".exe") {
		name += ".exe"
	}
	execPath, err := os.Executable()
	if err == nil {
		local := filepath.Join(filepath.Dir(execPath), name)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}
	if cacheDir != "" {
		cached := filepath.Join(cacheDir, name)
		if _, err := os.Stat(cached); err == nil {
			log.Debug().Str("op", "youtube/initial").Str("path", cached).Msg("Using cached yt-dlp")
			return cached, nil
		}
	}
	log.Info().Str("op", "youtube/initial").Msg("yt-dlp not found, downloading latest release")
	return downloadYtdlp(cacheDir)
}

// EnsureFFmpeg finds the ffmpeg used for audio extraction: an explicit path,
// then PATH, then next to this binary. It is never downloaded.
func EnsureFFmpeg(configured string) (string, error) {
	if configured == "" {
		configured = "ffmpeg"
	}
	if strings.ContainsRune(configured, os.PathSeparator) {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("ffmpeg not found at %s: %w", configured, err)
		}
		return configured, nil
	}
	path, err := exec.LookPath(configured)
	if err == nil {
		return path, nil
	}
	execPath, err := os.Executable()
	if err == nil {
		local := filepath.Join(filepath.Dir(execPath), configured)
		if runtime.GOOS == "windows" && !strings.HasSuffix(local, ".exe") {
			local += ".exe"
		}
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}
	return "", fmt.Errorf("ffmpeg not found in PATH, please install manually")
}
