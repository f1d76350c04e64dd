package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opugacodez/tokei/internal/broadcast"
	"github.com/opugacodez/tokei/internal/clock"
	"github.com/opugacodez/tokei/internal/manager"
	"github.com/opugacodez/tokei/internal/model"
	"github.com/opugacodez/tokei/internal/notify"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add     string
	Edit    string
	Delete  string
	Toggle  string
	Export  string
	Palette string
	Clock   string
	Help    string
	Quit    string
}

type banner struct {
	Text     string
	Severity notify.Severity
}

type paletteState struct {
	Active bool
	input  textinput.Model
}

// Model is the UI binding layer over the injected task manager. All state
// transitions go through explicit manager operations; the model itself only
// holds presentation state.
type Model struct {
	manager   *manager.Manager
	clock     *clock.Clock
	exportDir string

	local    <-chan notify.LocalMessage
	updates  <-chan broadcast.Message
	confirms <-chan ConfirmRequest

	tasks  []model.Task
	cursor int
	now    time.Time

	form        formState
	palette     paletteState
	dialog      *ConfirmRequest
	helpVisible bool
	banner      banner

	Status   StatusBar
	Keys     GlobalKeyMap
	width    int
	quitting bool
}

type Config struct {
	Manager   *manager.Manager
	Clock     *clock.Clock
	ExportDir string
	Local     <-chan notify.LocalMessage
	Updates   <-chan broadcast.Message
	Confirms  <-chan ConfirmRequest
}

func NewModel(cfg Config) Model {
	palette := textinput.New()
	palette.Placeholder = "add <title> <date> <time> | done <id> | delete <id> | export | import <path> | clock"
	palette.CharLimit = 200

	return Model{
		manager:   cfg.Manager,
		clock:     cfg.Clock,
		exportDir: cfg.ExportDir,
		local:     cfg.Local,
		updates:   cfg.Updates,
		confirms:  cfg.Confirms,
		now:       time.Now(),
		form:      newFormState(),
		palette:   paletteState{input: palette},
		Keys: GlobalKeyMap{
			Add:     "a",
			Edit:    "e",
			Delete:  "d",
			Toggle:  " ",
			Export:  "x",
			Palette: "/",
			Clock:   "t",
			Help:    "?",
			Quit:    "q",
		},
	}
}

type (
	clockTickMsg      time.Time
	localBannerMsg    notify.LocalMessage
	storeUpdatedMsg   struct{}
	confirmRequestMsg ConfirmRequest
	clearBannerMsg    struct{}

	tasksReloadedMsg struct {
		tasks []model.Task
	}

	opResultMsg struct {
		info string
		err  error
	}
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickClock(), m.refreshCmd()}
	if m.local != nil {
		cmds = append(cmds, waitLocal(m.local))
	}
	if m.updates != nil {
		cmds = append(cmds, waitUpdate(m.updates))
	}
	if m.confirms != nil {
		cmds = append(cmds, waitConfirm(m.confirms))
	}
	return tea.Batch(cmds...)
}

func tickClock() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

func waitLocal(ch <-chan notify.LocalMessage) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return localBannerMsg(msg)
	}
}

func waitUpdate(ch <-chan broadcast.Message) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeUpdatedMsg{}
	}
}

func waitConfirm(ch <-chan ConfirmRequest) tea.Cmd {
	return func() tea.Msg {
		req, ok := <-ch
		if !ok {
			return nil
		}
		return confirmRequestMsg(req)
	}
}

// refreshCmd re-pulls the snapshot from the store and re-arms the
// scheduler; it runs at startup and on every broadcast receipt.
func (m Model) refreshCmd() tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		_ = mgr.Refresh(context.Background())
		return tasksReloadedMsg{tasks: mgr.Tasks()}
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
