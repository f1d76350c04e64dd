package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/opugacodez/tokei/internal/model"
	"github.com/opugacodez/tokei/internal/views"
)

const dueSoonWindow = 30 * time.Minute

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	data := views.AppData{
		Clock:       m.clock.FormatTime(m.now),
		DateLine:    m.clock.FormatDate(m.now),
		Body:        m.renderBody(),
		StatusLine:  m.Status.Text,
		StatusError: m.Status.IsError,
		Footer:      m.renderFooter(),
	}
	if m.banner.Text != "" {
		data.Notification = views.RenderBanner(m.banner.Severity, m.banner.Text)
	}
	return views.RenderApp(data)
}

func (m Model) renderBody() string {
	if m.helpVisible {
		return views.RenderMarkdown(helpText)
	}
	if m.dialog != nil {
		return m.dialog.Message + "\n\n[y] confirm  [n] cancel"
	}
	if m.form.Active {
		return m.renderForm()
	}
	if m.palette.Active {
		return "> " + m.palette.input.View()
	}
	return m.renderTaskList()
}

func (m Model) renderForm() string {
	title := "New task"
	if m.form.editID != "" {
		title = "Edit task"
	}
	var b strings.Builder
	b.WriteString(title + "\n\n")
	for i := range m.form.inputs {
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\nenter save  tab next field  esc cancel")
	return b.String()
}

func (m Model) renderTaskList() string {
	if len(m.tasks) == 0 {
		return "No tasks yet. Press 'a' to add one."
	}

	var b strings.Builder
	for i, task := range m.tasks {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		box := "[ ]"
		if task.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s • %s", box, task.Title, task.Date, task.Time)
		line = m.styleTaskLine(task, line)
		if i == m.cursor {
			line = views.SelectedTask.Render(line)
		}
		b.WriteString(marker + line)
		if i < len(m.tasks)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) styleTaskLine(task model.Task, line string) string {
	if task.Completed {
		return views.CompletedTask.Render(line)
	}
	due, err := task.DueAt(m.now.Location())
	if err != nil {
		return line
	}
	switch {
	case due.Before(m.now):
		return views.OverdueTask.Render(line)
	case due.Sub(m.now) <= dueSoonWindow:
		return views.DueSoonTask.Render(line)
	}
	return line
}

func (m Model) renderFooter() string {
	return "a add  e edit  d delete  space toggle  x export  / command  t clock  ? help  q quit"
}
