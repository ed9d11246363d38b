package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// ParseTargets splits a delimited target list, trimming whitespace and
// dropping empty and repeated entries.
func ParseTargets(raw string) ([]string, error) {
	targets := normalizeTargets(strings.Split(raw, TargetSeparator))
	if len(targets) == 0 {
		return nil, &NoTargetsError{Raw: raw}
	}
	return targets, nil
}

// CleanTargets applies the same trimming and de-duplication to targets that
// are already separate, without splitting them.
func CleanTargets(list []string) ([]string, error) {
	targets := normalizeTargets(list)
	if len(targets) == 0 {
		return nil, &NoTargetsError{Raw: strings.Join(list, " ")}
	}
	return targets, nil
}

func normalizeTargets(list []string) []string {
	seen := make(map[string]bool)
	var targets []string
	for _, part := range list {
		target := strings.TrimSpace(part)
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		targets = append(targets, target)
	}
	return targets
}

// ParseQuality accepts "720p" or "720" for a known tier.
func ParseQuality(s string) (Quality, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "p")
	for _, tier := range QualityTiers {
		if itoa(int(tier)) == v {
			return tier, nil
		}
	}
	return 0, &InputError{Field: "quality", Reason: "unknown quality tier " + quote(s)}
}

func QualityNames() []string {
	names := make([]string, 0, len(QualityTiers))
	for _, tier := range QualityTiers {
		names = append(names, tier.String())
	}
	return names
}

// BuildJobs expands a batch request into one JobSpec per target. It performs
// no I/O.
func BuildJobs(req BatchRequest) ([]JobSpec, error) {
	if req.Mode != ModeAudio && req.Mode != ModeVideo {
		return nil, &InputError{Field: "type", Reason: "unknown download type"}
	}
	if req.Mode == ModeVideo && req.Quality == nil {
		return nil, &InputError{Field: "quality", Reason: "video downloads need a quality tier"}
	}
	if req.Mode == ModeAudio && req.Quality != nil {
		return nil, &InputError{Field: "quality", Reason: "audio downloads take no quality tier"}
	}
	if strings.TrimSpace(req.Destination) == "" {
		return nil, &InputError{Field: "destination", Reason: "empty path"}
	}
	var targets []string
	var err error
	if req.TargetList != nil {
		targets, err = CleanTargets(req.TargetList)
	} else {
		targets, err = ParseTargets(req.Targets)
	}
	if err != nil {
		return nil, err
	}
	audioFormat := req.AudioFormat
	if audioFormat == "" {
		audioFormat = DefaultAudioFormat
	}
	jobs := make([]JobSpec, 0, len(targets))
	for i, target := range targets {
		job := JobSpec{
			ID:          uuid.NewString(),
			Index:       i,
			Target:      target,
			Mode:        req.Mode,
			Destination: req.Destination,
			AudioFormat: audioFormat,
		}
		if req.Quality != nil {
			q := *req.Quality
			job.Quality = &q
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// FormatMegabytes renders a size in decimal megabytes with one decimal, the
// way yt-dlp sizes are usually quoted.
func FormatMegabytes(bytes float64) string {
	return fmt.Sprintf("%.1f", bytes/1000000.0)
}

// EnsureDirectory creates dir (and parents) when it does not exist yet.
func EnsureDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return &InputError{Field: "destination", Reason: quote(dir) + " is not a directory"}
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// CleanCache removes the yt-dlp cache directory.
func CleanCache(cacheDir string) error {
	_, err := os.Stat(cacheDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.RemoveAll(cacheDir)
}
