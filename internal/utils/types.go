package utils

import (
	"context"
	"strings"
	"time"
)

type Downloader interface {
	Download(ctx context.Context, job JobSpec) JobOutcome
}

type DownloadMode int

const (
	ModeAudio DownloadMode = iota
	ModeVideo
)

func (m DownloadMode) String() string {
	switch m {
	case ModeAudio:
		return "audio"
	case ModeVideo:
		return "video"
	}
	return "unknown"
}

// ParseMode accepts the names shown in prompts and flags ("audio", "Video", ...).
func ParseMode(s string) (DownloadMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audio", "a", "mp3":
		return ModeAudio, nil
	case "video", "v":
		return ModeVideo, nil
	}
	return 0, &InputError{Field: "type", Reason: "unknown download type " + quote(s)}
}

// Quality is an upper bound on vertical resolution, in pixels.
type Quality int

func (q Quality) String() string {
	return itoa(int(q)) + "p"
}

// FormatExpression is the yt-dlp format selector capping height at the tier.
func (q Quality) FormatExpression() string {
	return "best[height<=" + itoa(int(q)) + "]"
}

// JobSpec describes one target of a batch. Build it with BuildJobs; it is not
// mutated afterwards.
type JobSpec struct {
	ID          string
	Index       int
	Target      string
	Mode        DownloadMode
	Quality     *Quality
	Destination string
	AudioFormat string
}

// JobOutcome is the captured result of running one JobSpec.
type JobOutcome struct {
	JobID     string
	Index     int
	Target    string
	Succeeded bool
	Stdout    string
	Stderr    string
	Err       error
	Elapsed   time.Duration
}

// Payload is the text worth reporting: probe output on success, diagnostics
// otherwise.
func (o JobOutcome) Payload() string {
	if o.Succeeded {
		return strings.TrimSpace(o.Stdout)
	}
	return o.Diagnostic()
}

func (o JobOutcome) Diagnostic() string {
	if d := strings.TrimSpace(o.Stderr); d != "" {
		return d
	}
	if o.Err != nil {
		return o.Err.Error()
	}
	return ""
}

// BatchRequest is the already-collected user input for one batch.
// Targets is a delimited list typed by the user; TargetList, when set, is used
// as is and never split.
type BatchRequest struct {
	Targets     string
	TargetList  []string
	Mode        DownloadMode
	Quality     *Quality
	Destination string
	AudioFormat string
}
