package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opugacodez/tokei/internal/commands"
	"github.com/opugacodez/tokei/internal/manager"
	"github.com/opugacodez/tokei/internal/model"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil

	case clockTickMsg:
		m.now = time.Time(typed)
		return m, tickClock()

	case localBannerMsg:
		m.banner = banner{Text: typed.Text, Severity: typed.Severity}
		clear := tea.Tick(typed.Duration, func(time.Time) tea.Msg { return clearBannerMsg{} })
		return m, tea.Batch(clear, waitLocal(m.local))

	case clearBannerMsg:
		m.banner = banner{}
		return m, nil

	case storeUpdatedMsg:
		return m, tea.Batch(m.refreshCmd(), waitUpdate(m.updates))

	case confirmRequestMsg:
		req := ConfirmRequest(typed)
		m.dialog = &req
		return m, nil

	case tasksReloadedMsg:
		m.tasks = typed.tasks
		m.clampCursor()
		return m, nil

	case opResultMsg:
		if typed.err != nil {
			m.Status = StatusBar{Text: typed.err.Error(), IsError: true}
		} else if typed.info != "" {
			m.Status = StatusBar{Text: typed.info, IsError: false}
		}
		m.tasks = m.manager.Tasks()
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.dialog != nil {
		return m.handleDialogKey(key)
	}
	if m.form.Active {
		return m.handleFormKey(key)
	}
	if m.palette.Active {
		return m.handlePaletteKey(key)
	}
	return m.handleGlobalKey(key)
}

func (m Model) handleDialogKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "enter":
		m.dialog.Reply <- manager.DecisionConfirm
	case "n", "esc":
		m.dialog.Reply <- manager.DecisionCancel
	default:
		return m, nil
	}
	m.dialog = nil
	return m, waitConfirm(m.confirms)
}

func (m Model) handleFormKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.form.close()
		return m, nil
	case "tab", "down":
		m.form.nextField()
		return m, nil
	case "shift+tab", "up":
		m.form.prevField()
		return m, nil
	case "enter":
		draft := m.form.draft()
		editID := m.form.editID
		m.form.close()
		return m, m.submitFormCmd(editID, draft)
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focused], cmd = m.form.inputs[m.form.focused].Update(key)
	return m, cmd
}

func (m Model) submitFormCmd(editID string, draft model.Draft) tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		ctx := context.Background()
		if editID == "" {
			if _, err := mgr.AddTask(ctx, draft); err != nil {
				return opResultMsg{err: err}
			}
			return opResultMsg{info: "task added"}
		}
		if _, err := mgr.UpdateTask(ctx, editID, draft); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{info: "task updated"}
	}
}

func (m Model) handlePaletteKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.palette.Active = false
		m.palette.input.Blur()
		m.palette.input.SetValue("")
		return m, nil
	case "enter":
		input := m.palette.input.Value()
		m.palette.Active = false
		m.palette.input.Blur()
		m.palette.input.SetValue("")
		return m, m.paletteCmd(input)
	}

	var cmd tea.Cmd
	m.palette.input, cmd = m.palette.input.Update(key)
	return m, cmd
}

func (m Model) handleGlobalKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case m.Keys.Quit:
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil
	case m.Keys.Add:
		m.form.openNew(m.now)
		return m, nil
	case m.Keys.Edit:
		if task, ok := m.selectedTask(); ok {
			m.form.openEdit(task)
		}
		return m, nil
	case m.Keys.Delete:
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		mgr := m.manager
		return m, func() tea.Msg {
			if _, err := mgr.DeleteTask(context.Background(), task.ID); err != nil {
				return opResultMsg{err: err}
			}
			return opResultMsg{}
		}
	case m.Keys.Toggle:
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		mgr := m.manager
		return m, func() tea.Msg {
			if _, err := mgr.ToggleCompletion(context.Background(), task.ID); err != nil {
				return opResultMsg{err: err}
			}
			return opResultMsg{}
		}
	case m.Keys.Export:
		mgr := m.manager
		dir := m.exportDir
		return m, func() tea.Msg {
			path, err := mgr.ExportFile(context.Background(), dir)
			if err != nil {
				return opResultMsg{err: err}
			}
			return opResultMsg{info: "exported to " + path}
		}
	case m.Keys.Palette:
		m.palette.Active = true
		m.palette.input.Focus()
		return m, nil
	case m.Keys.Clock:
		format := m.clock.Toggle(context.Background())
		m.Status = StatusBar{Text: fmt.Sprintf("clock set to %s-hour display", format)}
		return m, nil
	case m.Keys.Help:
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	return m, nil
}

func (m Model) paletteCmd(input string) tea.Cmd {
	mgr := m.manager
	ck := m.clock
	dir := m.exportDir
	tasks := model.Clone(m.tasks)

	return func() tea.Msg {
		cmd, err := commands.Parse(input)
		if err != nil {
			return opResultMsg{err: err}
		}

		handlers := commands.Handlers{
			Add: func(args commands.AddArgs) (commands.Result, error) {
				draft := model.Draft{Title: args.Title, Date: args.Date, Time: args.Time}
				if _, err := mgr.AddTask(context.Background(), draft); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "task added"}, nil
			},
			Done: func(args commands.DoneArgs) (commands.Result, error) {
				id, err := resolveTarget(tasks, args.Target)
				if err != nil {
					return commands.Result{}, err
				}
				task, err := mgr.ToggleCompletion(context.Background(), id)
				if err != nil {
					return commands.Result{}, err
				}
				if task.Completed {
					return commands.Result{Message: "task completed"}, nil
				}
				return commands.Result{Message: "task re-opened"}, nil
			},
			Delete: func(args commands.DeleteArgs) (commands.Result, error) {
				id, err := resolveTarget(tasks, args.Target)
				if err != nil {
					return commands.Result{}, err
				}
				deleted, err := mgr.DeleteTask(context.Background(), id)
				if err != nil {
					return commands.Result{}, err
				}
				if !deleted {
					return commands.Result{Message: "delete cancelled"}, nil
				}
				return commands.Result{Message: "task deleted"}, nil
			},
			Export: func() (commands.Result, error) {
				path, err := mgr.ExportFile(context.Background(), dir)
				if err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "exported to " + path}, nil
			},
			Import: func(args commands.ImportArgs) (commands.Result, error) {
				if err := mgr.ImportFile(context.Background(), args.Path); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "tasks imported"}, nil
			},
			Clock: func() (commands.Result, error) {
				format := ck.Toggle(context.Background())
				return commands.Result{Message: fmt.Sprintf("clock set to %s-hour display", format)}, nil
			},
		}

		res, err := commands.Execute(cmd, handlers)
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{info: res.Message}
	}
}

// resolveTarget matches a palette target against task ids, accepting a
// unique prefix as shorthand for the full id.
func resolveTarget(tasks []model.Task, target string) (string, error) {
	var matches []string
	for _, task := range tasks {
		if task.ID == target {
			return task.ID, nil
		}
		if strings.HasPrefix(task.ID, target) {
			matches = append(matches, task.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task matches %q", target)
	default:
		return "", fmt.Errorf("%q matches %d tasks, be more specific", target, len(matches))
	}
}
