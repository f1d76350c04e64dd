package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/opugacodez/tokei/internal/notify"
)

type AppData struct {
	Clock        string
	DateLine     string
	Body         string
	StatusLine   string
	StatusError  bool
	Notification string
	Footer       string
}

var (
	clockStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	CompletedTask = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	OverdueTask   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	DueSoonTask   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	SelectedTask  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

func RenderApp(data AppData) string {
	header := clockStyle.Render(data.Clock) + "  " + dateStyle.Render(data.DateLine)

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		header,
		panelStyle.Render(data.Body),
	}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.StatusLine != "" {
		lines = append(lines, status)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderBanner styles a local notification banner by severity.
func RenderBanner(severity notify.Severity, text string) string {
	switch severity {
	case notify.SeverityError:
		return errorStyle.Render(text)
	case notify.SeveritySuccess:
		return successStyle.Render(text)
	default:
		return infoStyle.Render(text)
	}
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
