package youtube

import (
	"strconv"
	"strings"

	"github.com/tanq16/ytbulk/internal/utils"
)

// yt-dlp prints NA for fields it could not resolve.
const missingField = "NA"

type ProbeInfo struct {
	ID             string
	Title          string
	FileSize       float64
	FileSizeApprox float64
	Duration       string
}

// Size prefers the exact size and falls back to the estimate, then zero.
func (p ProbeInfo) Size() float64 {
	if p.FileSize > 0 {
		return p.FileSize
	}
	if p.FileSizeApprox > 0 {
		return p.FileSizeApprox
	}
	return 0
}

// ParseProbe reads the probe fields positionally. When fewer lines than
// expected are present the fields that did arrive are still returned, along
// with a MalformedOutputError.
func ParseProbe(stdout string) (ProbeInfo, error) {
	var info ProbeInfo
	text := strings.TrimRight(strings.ReplaceAll(stdout, "\r\n", "\n"), "\n")
	var lines []string
	if strings.TrimSpace(text) != "" {
		lines = strings.Split(text, "\n")
	}
	field := func(i int) string {
		if i >= len(lines) {
			return ""
		}
		v := strings.TrimSpace(lines[i])
		if v == missingField {
			return ""
		}
		return v
	}
	info.ID = field(0)
	info.Title = field(1)
	info.FileSize = parseSize(field(2))
	info.FileSizeApprox = parseSize(field(3))
	info.Duration = field(4)

	if expected := len(utils.ProbeFields); len(lines) < expected {
		return info, &utils.MalformedOutputError{Expected: expected, Got: len(lines)}
	}
	return info, nil
}

func parseSize(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
