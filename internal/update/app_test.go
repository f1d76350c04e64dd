package update

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opugacodez/tokei/internal/clock"
	"github.com/opugacodez/tokei/internal/manager"
	"github.com/opugacodez/tokei/internal/model"
	"github.com/opugacodez/tokei/internal/storage"
)

func newBareModel(t *testing.T) Model {
	t.Helper()
	return NewModel(Config{Clock: clock.New(context.Background(), nil)})
}

func newBackedModel(t *testing.T) (Model, *manager.Manager) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "tokei.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	mgr, err := manager.New(manager.Config{Store: store, Confirmer: manager.ConfirmAll{}})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	t.Cleanup(mgr.Close)

	m := NewModel(Config{
		Manager: mgr,
		Clock:   clock.New(context.Background(), store),
	})
	return m, mgr
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelDefaults(t *testing.T) {
	m := newBareModel(t)
	if m.Keys.Quit != "q" || m.Keys.Add != "a" || m.Keys.Palette != "/" {
		t.Fatalf("unexpected key map: %+v", m.Keys)
	}
	if m.form.Active || m.palette.Active || m.dialog != nil {
		t.Fatal("expected idle overlays on a fresh model")
	}
}

func TestQuitKey(t *testing.T) {
	m := newBareModel(t)
	updated, cmd := m.Update(keyRunes("q"))
	next := updated.(Model)
	if !next.quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestCursorNavigation(t *testing.T) {
	m := newBareModel(t)
	updated, _ := m.Update(tasksReloadedMsg{tasks: []model.Task{
		{ID: "a", Title: "first", Date: "2026-09-02", Time: "09:00"},
		{ID: "b", Title: "second", Date: "2026-09-02", Time: "10:00"},
	}})
	next := updated.(Model)

	updated, _ = next.Update(keyRunes("j"))
	next = updated.(Model)
	if next.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", next.cursor)
	}

	updated, _ = next.Update(keyRunes("j"))
	next = updated.(Model)
	if next.cursor != 1 {
		t.Fatalf("expected cursor pinned at last task, got %d", next.cursor)
	}

	updated, _ = next.Update(keyRunes("k"))
	next = updated.(Model)
	if next.cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", next.cursor)
	}
}

func TestCursorClampsWhenTasksShrink(t *testing.T) {
	m := newBareModel(t)
	updated, _ := m.Update(tasksReloadedMsg{tasks: []model.Task{
		{ID: "a", Title: "one", Date: "2026-09-02", Time: "09:00"},
		{ID: "b", Title: "two", Date: "2026-09-02", Time: "10:00"},
	}})
	next := updated.(Model)
	updated, _ = next.Update(keyRunes("j"))
	next = updated.(Model)

	updated, _ = next.Update(tasksReloadedMsg{tasks: []model.Task{
		{ID: "a", Title: "one", Date: "2026-09-02", Time: "09:00"},
	}})
	next = updated.(Model)
	if next.cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", next.cursor)
	}
}

func TestAddKeyOpensPrefilledForm(t *testing.T) {
	m := newBareModel(t)
	m.now = time.Date(2026, 9, 1, 15, 4, 0, 0, time.UTC)

	updated, _ := m.Update(keyRunes("a"))
	next := updated.(Model)
	if !next.form.Active {
		t.Fatal("expected form active")
	}
	if got := next.form.inputs[fieldDate].Value(); got != "2026-09-01" {
		t.Fatalf("expected date prefill 2026-09-01, got %q", got)
	}
	if got := next.form.inputs[fieldTime].Value(); got != "15:04" {
		t.Fatalf("expected time prefill 15:04, got %q", got)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEsc})
	next = updated.(Model)
	if next.form.Active {
		t.Fatal("expected form closed after esc")
	}
}

func TestEditKeyOpensFormWithTaskValues(t *testing.T) {
	m := newBareModel(t)
	updated, _ := m.Update(tasksReloadedMsg{tasks: []model.Task{
		{ID: "t-1", Title: "dentist", Description: "bring card", Date: "2026-09-03", Time: "08:30"},
	}})
	next := updated.(Model)

	updated, _ = next.Update(keyRunes("e"))
	next = updated.(Model)
	if !next.form.Active || next.form.editID != "t-1" {
		t.Fatalf("expected edit form for t-1, got active=%v editID=%q", next.form.Active, next.form.editID)
	}
	if got := next.form.inputs[fieldTitle].Value(); got != "dentist" {
		t.Fatalf("expected title prefill, got %q", got)
	}
}

func TestDialogConfirmAndCancel(t *testing.T) {
	m := newBareModel(t)
	req := ConfirmRequest{Message: "Delete this task?", Reply: make(chan manager.Decision, 1)}
	updated, _ := m.Update(confirmRequestMsg(req))
	next := updated.(Model)
	if next.dialog == nil {
		t.Fatal("expected open dialog")
	}

	updated, _ = next.Update(keyRunes("y"))
	next = updated.(Model)
	if next.dialog != nil {
		t.Fatal("expected dialog closed after answer")
	}
	if got := <-req.Reply; got != manager.DecisionConfirm {
		t.Fatalf("expected confirm decision, got %q", got)
	}

	req2 := ConfirmRequest{Message: "Replace all tasks?", Reply: make(chan manager.Decision, 1)}
	updated, _ = next.Update(confirmRequestMsg(req2))
	next = updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEsc})
	next = updated.(Model)
	if next.dialog != nil {
		t.Fatal("expected dialog closed after esc")
	}
	if got := <-req2.Reply; got != manager.DecisionCancel {
		t.Fatalf("expected cancel decision, got %q", got)
	}
}

func TestPaletteOpenAndDismiss(t *testing.T) {
	m := newBareModel(t)
	updated, _ := m.Update(keyRunes("/"))
	next := updated.(Model)
	if !next.palette.Active {
		t.Fatal("expected palette active")
	}

	updated, _ = next.Update(keyRunes("c"))
	next = updated.(Model)
	if got := next.palette.input.Value(); got != "c" {
		t.Fatalf("expected palette input c, got %q", got)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEsc})
	next = updated.(Model)
	if next.palette.Active {
		t.Fatal("expected palette dismissed")
	}
	if next.palette.input.Value() != "" {
		t.Fatal("expected palette input cleared")
	}
}

func TestPaletteClockCommand(t *testing.T) {
	m, _ := newBackedModel(t)
	updated, _ := m.Update(keyRunes("/"))
	next := updated.(Model)
	for _, r := range "clock" {
		updated, _ = next.Update(keyRunes(string(r)))
		next = updated.(Model)
	}
	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.palette.Active {
		t.Fatal("expected palette closed after enter")
	}
	if cmd == nil {
		t.Fatal("expected palette command")
	}

	msg := cmd()
	res, ok := msg.(opResultMsg)
	if !ok {
		t.Fatalf("expected opResultMsg, got %T", msg)
	}
	if res.err != nil {
		t.Fatalf("unexpected palette error: %v", res.err)
	}
	if !strings.Contains(res.info, "12-hour") {
		t.Fatalf("expected 12-hour toggle message, got %q", res.info)
	}
}

func TestPaletteUnknownCommandReportsError(t *testing.T) {
	m, _ := newBackedModel(t)
	cmd := m.paletteCmd("frobnicate")
	msg := cmd()
	res, ok := msg.(opResultMsg)
	if !ok {
		t.Fatalf("expected opResultMsg, got %T", msg)
	}
	if res.err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestDeleteKeyRemovesSelectedTask(t *testing.T) {
	m, mgr := newBackedModel(t)
	if _, err := mgr.AddTask(context.Background(), model.Draft{Title: "old", Date: "2026-09-02", Time: "09:00"}); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	updated, _ := m.Update(tasksReloadedMsg{tasks: mgr.Tasks()})
	next := updated.(Model)
	updated, cmd := next.Update(keyRunes("d"))
	next = updated.(Model)
	if cmd == nil {
		t.Fatal("expected delete command")
	}

	msg := cmd()
	if res, ok := msg.(opResultMsg); !ok || res.err != nil {
		t.Fatalf("unexpected delete result: %#v", msg)
	}
	if got := len(mgr.Tasks()); got != 0 {
		t.Fatalf("expected no tasks after delete, got %d", got)
	}
}

func TestSubmitFormAddsTask(t *testing.T) {
	m, mgr := newBackedModel(t)
	cmd := m.submitFormCmd("", model.Draft{Title: "write report", Date: "2026-09-02", Time: "14:00"})
	msg := cmd()
	res, ok := msg.(opResultMsg)
	if !ok || res.err != nil {
		t.Fatalf("unexpected submit result: %#v", msg)
	}

	tasks := mgr.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "write report" {
		t.Fatalf("unexpected tasks after submit: %#v", tasks)
	}
}

func TestLocalBannerLifecycle(t *testing.T) {
	m := newBareModel(t)
	updated, cmd := m.Update(localBannerMsg{Text: "Task added successfully!", Duration: time.Second})
	next := updated.(Model)
	if next.banner.Text != "Task added successfully!" {
		t.Fatalf("expected banner text, got %q", next.banner.Text)
	}
	if cmd == nil {
		t.Fatal("expected banner clear timer command")
	}

	updated, _ = next.Update(clearBannerMsg{})
	next = updated.(Model)
	if next.banner.Text != "" {
		t.Fatal("expected banner cleared")
	}
}

func TestResolveTarget(t *testing.T) {
	tasks := []model.Task{
		{ID: "abc-123"},
		{ID: "abd-456"},
		{ID: "xyz-789"},
	}

	if id, err := resolveTarget(tasks, "abc-123"); err != nil || id != "abc-123" {
		t.Fatalf("exact match failed: id=%q err=%v", id, err)
	}
	if id, err := resolveTarget(tasks, "xyz"); err != nil || id != "xyz-789" {
		t.Fatalf("unique prefix failed: id=%q err=%v", id, err)
	}
	if _, err := resolveTarget(tasks, "ab"); err == nil {
		t.Fatal("expected ambiguous prefix error")
	}
	if _, err := resolveTarget(tasks, "zzz"); err == nil {
		t.Fatal("expected no-match error")
	}
}

func TestViewShowsTasksAndFooter(t *testing.T) {
	m := newBareModel(t)
	m.now = time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	updated, _ := m.Update(tasksReloadedMsg{tasks: []model.Task{
		{ID: "a", Title: "water plants", Date: "2026-09-02", Time: "09:00"},
	}})
	next := updated.(Model)

	out := next.View()
	if !strings.Contains(out, "water plants") {
		t.Fatalf("expected task title in view: %q", out)
	}
	if !strings.Contains(out, "15:00:00") {
		t.Fatalf("expected clock in view: %q", out)
	}
	if !strings.Contains(out, "q quit") {
		t.Fatalf("expected footer hints in view: %q", out)
	}
}

func TestViewShowsDialogOverKeys(t *testing.T) {
	m := newBareModel(t)
	req := ConfirmRequest{Message: "Delete this task?", Reply: make(chan manager.Decision, 1)}
	updated, _ := m.Update(confirmRequestMsg(req))
	next := updated.(Model)

	out := next.View()
	if !strings.Contains(out, "Delete this task?") {
		t.Fatalf("expected dialog message in view: %q", out)
	}
	if !strings.Contains(out, "[y] confirm") {
		t.Fatalf("expected dialog key hints in view: %q", out)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newBareModel(t)
	updated, _ := m.Update(keyRunes("?"))
	next := updated.(Model)
	if !next.helpVisible {
		t.Fatal("expected help visible")
	}
	if out := next.View(); !strings.Contains(out, "Tokei") {
		t.Fatalf("expected help content in view: %q", out)
	}

	updated, _ = next.Update(keyRunes("?"))
	next = updated.(Model)
	if next.helpVisible {
		t.Fatal("expected help hidden after second toggle")
	}
}
