package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("37")) // dark green
	success2Style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	failStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	streamStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
)

var StyleSymbols = map[string]string{
	"pass":   "✓",
	"fail":   "✗",
	"rocket": "🚀",
}

func PrintSuccess(text string) {
	fmt.Println(successStyle.Render(text))
}
func PrintError(text string) {
	fmt.Println(errorStyle.Render(text))
}
func PrintWarning(text string) {
	fmt.Println(warningStyle.Render(text))
}
func FHeader(text string) string {
	return headerStyle.Render(text)
}
