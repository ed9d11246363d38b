package output

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // Default fallback width
	}
	return width
}

// wrapText splits text into lines no wider than maxWidth runes, keeping the
// original line breaks.
func wrapText(text string, maxWidth int) []string {
	if maxWidth <= 10 {
		maxWidth = 80
	}
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if utf8.RuneCountInString(raw) <= maxWidth {
			lines = append(lines, raw)
			continue
		}
		currentLine := ""
		currentWidth := 0
		for _, r := range raw {
			if currentWidth+1 > maxWidth {
				lines = append(lines, currentLine)
				currentLine = string(r)
				currentWidth = 1
			} else {
				currentLine += string(r)
				currentWidth++
			}
		}
		if currentLine != "" {
			lines = append(lines, currentLine)
		}
	}
	return lines
}
