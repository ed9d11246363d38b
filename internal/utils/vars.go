package utils

import "strconv"

const (
	TargetSeparator    = ","
	DefaultAudioFormat = "mp3"
	CacheDir           = ".ytbulk-cache"
)

// ProbeFields is the yt-dlp print template; fields come back one per line in
// this order.
var ProbeFields = []string{"id", "title", "filesize", "filesize_approx", "duration_string"}

// QualityTiers lists the selectable tiers in prompt order. The first entry is
// the default.
var QualityTiers = []Quality{360, 480, 720, 1080}

func quote(s string) string {
	return strconv.Quote(s)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
