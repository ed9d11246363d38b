package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytbulk/internal/downloaders/youtube"
	"github.com/tanq16/ytbulk/internal/utils"
)

const indent = 2

// Reporter renders job outcomes for humans. It only writes to w.
type Reporter struct {
	w     io.Writer
	width int
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w, width: getTerminalWidth()}
}

// NewReporterWidth fixes the wrap width instead of asking the terminal.
func NewReporterWidth(w io.Writer, width int) *Reporter {
	return &Reporter{w: w, width: width}
}

// probeTitle is the display name for a successful outcome. Short probe output
// falls back to whatever yt-dlp printed.
func probeTitle(o utils.JobOutcome) string {
	info, err := youtube.ParseProbe(o.Stdout)
	if err != nil {
		log.Warn().Str("op", "output/report").Str("job", o.JobID).Err(err).Msg("Unexpected probe output")
	}
	if info.Title != "" {
		return info.Title
	}
	if payload := o.Payload(); payload != "" {
		return strings.SplitN(payload, "\n", 2)[0]
	}
	return o.Target
}

// Outcome writes one line for a bulk outcome, plus wrapped diagnostics on
// failure.
func (r *Reporter) Outcome(o utils.JobOutcome) {
	pad := strings.Repeat(" ", indent)
	if o.Succeeded {
		fmt.Fprintf(r.w, "%s%s %s: '%s'\n", pad,
			successStyle.Render(StyleSymbols["pass"]),
			success2Style.Render("Downloaded successfully"),
			probeTitle(o))
		return
	}
	fmt.Fprintf(r.w, "%s%s %s: '%s'\n", pad,
		errorStyle.Render(StyleSymbols["fail"]),
		failStyle.Render("Failed to download"),
		o.Target)
	diag := o.Diagnostic()
	if diag == "" {
		return
	}
	pad = strings.Repeat(" ", indent+4)
	for _, line := range wrapText(diag, r.width-indent-6) {
		fmt.Fprintf(r.w, "%s%s\n", pad, streamStyle.Render(line))
	}
}

// Batch writes every outcome in the order given, then the summary.
func (r *Reporter) Batch(outcomes []utils.JobOutcome) {
	for _, o := range outcomes {
		r.Outcome(o)
	}
	r.Summary(outcomes)
}

func (r *Reporter) Summary(outcomes []utils.JobOutcome) {
	var success, failures int
	for _, o := range outcomes {
		if o.Succeeded {
			success++
		} else {
			failures++
		}
	}
	pad := strings.Repeat(" ", indent)
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, pad+success2Style.Render(fmt.Sprintf("Completed %d of %d", success, len(outcomes))))
	if failures > 0 {
		fmt.Fprintln(r.w, pad+errorStyle.Render(fmt.Sprintf("Failed %d of %d", failures, len(outcomes))))
	}
}

// Single writes the detailed block for a one-off download.
func (r *Reporter) Single(o utils.JobOutcome, location string, quality *utils.Quality) {
	if !o.Succeeded {
		fmt.Fprintf(r.w, "\n %s\n", failStyle.Render("Failed to download"))
		for _, line := range wrapText(o.Diagnostic(), r.width-2) {
			fmt.Fprintln(r.w, line)
		}
		return
	}
	info, err := youtube.ParseProbe(o.Stdout)
	if err != nil {
		log.Warn().Str("op", "output/single").Err(err).Msg("Unexpected probe output, some fields are missing")
	}
	elapsed := fmt.Sprintf("%s %.2fs", StyleSymbols["rocket"], o.Elapsed.Round(10*time.Millisecond).Seconds())
	fmt.Fprintf(r.w, "\n%s (%s)\n\n", success2Style.Render("Downloaded successfully"), elapsed)
	fmt.Fprintln(r.w, FHeader("Information"))
	fmt.Fprintf(r.w, "Youtube ID: %s\n", orUnknown(info.ID))
	fmt.Fprintf(r.w, "Name: '%s'\n", orUnknown(info.Title))
	fmt.Fprintf(r.w, "File size: %sMB\n", utils.FormatMegabytes(info.Size()))
	fmt.Fprintf(r.w, "Location: %s\n", location)
	if quality != nil {
		fmt.Fprintf(r.w, "Definition: %s\n", quality)
	}
	fmt.Fprintf(r.w, "Length: %s\n\n", orUnknown(info.Duration))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
