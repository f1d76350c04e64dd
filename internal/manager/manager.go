package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opugacodez/tokei/internal/broadcast"
	"github.com/opugacodez/tokei/internal/model"
	"github.com/opugacodez/tokei/internal/notify"
	"github.com/opugacodez/tokei/internal/scheduler"
	"github.com/opugacodez/tokei/internal/storage"
	"github.com/opugacodez/tokei/internal/transfer"
)

type Decision string

const (
	DecisionConfirm Decision = "confirm"
	DecisionCancel  Decision = "cancel"
)

// Confirmer asks the user to approve a destructive operation before it runs.
type Confirmer interface {
	Confirm(message string) (Decision, error)
}

// ConfirmAll approves everything; used in tests and non-interactive paths.
type ConfirmAll struct{}

func (ConfirmAll) Confirm(string) (Decision, error) { return DecisionConfirm, nil }

type Config struct {
	Store     *storage.Store
	Gateway   notify.Gateway
	Confirmer Confirmer
	Bus       *broadcast.Bus
	Now       func() time.Time
	Location  *time.Location
	NewID     func() string
}

// Manager owns every mutation of the task collection. Each operation
// validates its input, rewrites the store snapshot, re-arms the scheduler
// and broadcasts an update so other running instances reload. The persisted
// store is the single source of truth: operations re-read it before
// mutating rather than trusting the cached view, and last writer wins on
// concurrent saves.
type Manager struct {
	mu        sync.Mutex
	store     *storage.Store
	sched     *scheduler.Scheduler
	gateway   notify.Gateway
	confirmer Confirmer
	bus       *broadcast.Bus
	tasks     []model.Task
	now       func() time.Time
	loc       *time.Location
	newID     func() string
}

func New(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("manager: nil store")
	}
	m := &Manager{
		store:     cfg.Store,
		gateway:   cfg.Gateway,
		confirmer: cfg.Confirmer,
		bus:       cfg.Bus,
		now:       cfg.Now,
		loc:       cfg.Location,
		newID:     cfg.NewID,
	}
	if m.gateway == nil {
		m.gateway = notify.Noop{}
	}
	if m.confirmer == nil {
		m.confirmer = ConfirmAll{}
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	m.sched = scheduler.New(scheduler.Config{
		Dispatch: m.dispatch,
		Persist:  m.persistNotified,
		Now:      m.now,
		Location: m.loc,
	})
	return m, nil
}

// Close cancels the armed timer. Nothing about pending timers is persisted;
// the schedule is rebuilt from task state on next start.
func (m *Manager) Close() {
	m.sched.Stop()
}

// Refresh reloads the store snapshot and re-arms the scheduler. It runs at
// startup (the overdue sweep for tasks that came due while the app was
// closed) and on every broadcast receipt.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks, err := m.loadLocked(ctx)
	if err != nil {
		return err
	}
	m.finishLocked(tasks, false)
	return nil
}

// Tasks returns the cached view sorted for display: incomplete tasks first,
// then by due moment.
func (m *Manager) Tasks() []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := model.Clone(m.tasks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		di, erri := out[i].DueAt(m.loc)
		dj, errj := out[j].DueAt(m.loc)
		if erri != nil || errj != nil {
			return erri == nil
		}
		return di.Before(dj)
	})
	return out
}

// Armed reports which task the scheduler's timer currently targets.
func (m *Manager) Armed() (string, bool) {
	return m.sched.Armed()
}

// AddTask validates the draft, rejects an exact (title, date, time)
// duplicate and inserts a fresh task.
func (m *Manager) AddTask(ctx context.Context, draft model.Draft) (model.Task, error) {
	if err := draft.Validate(); err != nil {
		return model.Task{}, m.fail(&ValidationError{Message: err.Error()})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tasks, err := m.loadLocked(ctx)
	if err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		ID:          m.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Date:        draft.Date,
		Time:        draft.Time,
		CreatedAt:   m.now().Format(time.RFC3339),
		UpdatedAt:   m.now().Format(time.RFC3339),
	}
	for _, existing := range tasks {
		if existing.SameSlot(task) {
			return model.Task{}, m.fail(&ValidationError{Message: "a task with this title and due moment already exists"})
		}
	}

	tasks = append(tasks, task)
	if err := m.saveLocked(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	m.finishLocked(tasks, true)
	m.gateway.ShowLocal("Task added successfully!", notify.SeveritySuccess, 0)
	return task, nil
}

// UpdateTask replaces the editable fields of an existing task. Completion
// state is preserved, and the notified flag resets only when the due moment
// actually moved, re-opening the task for a fresh notification.
func (m *Manager) UpdateTask(ctx context.Context, id string, draft model.Draft) (model.Task, error) {
	if err := draft.Validate(); err != nil {
		return model.Task{}, m.fail(&ValidationError{Message: err.Error()})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tasks, err := m.loadLocked(ctx)
	if err != nil {
		return model.Task{}, err
	}

	idx := indexByID(tasks, id)
	if idx < 0 {
		return model.Task{}, m.fail(&NotFoundError{ID: id})
	}

	prev := tasks[idx]
	next := prev
	next.Title = draft.Title
	next.Description = draft.Description
	next.Date = draft.Date
	next.Time = draft.Time
	next.UpdatedAt = m.now().Format(time.RFC3339)
	if prev.Date != next.Date || prev.Time != next.Time {
		next.Notified = false
	}
	tasks[idx] = next

	if err := m.saveLocked(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	m.finishLocked(tasks, true)
	m.gateway.ShowLocal("Task updated successfully!", notify.SeveritySuccess, 0)
	return next, nil
}

// DeleteTask removes a task after user confirmation. A declined dialog is a
// no-op, not an error. The lock is released while the dialog is open: the
// question can stay pending indefinitely, and reads must keep serving so the
// dialog itself can be rendered and answered.
func (m *Manager) DeleteTask(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	tasks, err := m.loadLocked(ctx)
	if err != nil {
		m.mu.Unlock()
		return false, err
	}
	idx := indexByID(tasks, id)
	if idx < 0 {
		m.mu.Unlock()
		return false, m.fail(&NotFoundError{ID: id})
	}
	title := tasks[idx].Title
	m.mu.Unlock()

	decision, err := m.confirmer.Confirm(fmt.Sprintf("Delete the task %q?", title))
	if err != nil {
		return false, err
	}
	if decision != DecisionConfirm {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tasks, err = m.loadLocked(ctx)
	if err != nil {
		return false, err
	}
	idx = indexByID(tasks, id)
	if idx < 0 {
		// Already gone while the dialog was open.
		return false, nil
	}

	tasks = append(tasks[:idx], tasks[idx+1:]...)
	if err := m.saveLocked(ctx, tasks); err != nil {
		return false, err
	}
	m.finishLocked(tasks, true)
	m.gateway.ShowLocal("Task removed successfully!", notify.SeveritySuccess, 0)
	return true, nil
}

// ToggleCompletion flips the completed flag. A completed task leaves
// scheduling consideration on the next re-arm; re-opening one does not
// touch the notified flag, so a past occurrence is not re-announced.
func (m *Manager) ToggleCompletion(ctx context.Context, id string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks, err := m.loadLocked(ctx)
	if err != nil {
		return model.Task{}, err
	}

	idx := indexByID(tasks, id)
	if idx < 0 {
		return model.Task{}, m.fail(&NotFoundError{ID: id})
	}

	tasks[idx].Completed = !tasks[idx].Completed
	tasks[idx].UpdatedAt = m.now().Format(time.RFC3339)

	if err := m.saveLocked(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	m.finishLocked(tasks, true)
	return tasks[idx], nil
}

// ReplaceAll swaps the whole collection for the imported one after user
// confirmation. Input records must be well-formed tasks. As with DeleteTask,
// the lock is not held while the dialog is open.
func (m *Manager) ReplaceAll(ctx context.Context, incoming []model.Task) error {
	for i, task := range incoming {
		if err := task.Validate(); err != nil {
			return m.fail(&ValidationError{Message: fmt.Sprintf("record %d: %v", i, err)})
		}
	}

	m.mu.Lock()
	current, err := m.loadLocked(ctx)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	decision, err := m.confirmer.Confirm(fmt.Sprintf(
		"This will replace your %d current tasks with %d imported tasks. Continue?",
		len(current), len(incoming)))
	if err != nil {
		return err
	}
	if decision != DecisionConfirm {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := model.Clone(incoming)
	if err := m.saveLocked(ctx, tasks); err != nil {
		return err
	}
	m.finishLocked(tasks, true)
	m.gateway.ShowLocal(fmt.Sprintf("%d tasks imported successfully!", len(tasks)), notify.SeveritySuccess, 0)
	return nil
}

// ImportFile reads an exported JSON file and funnels it through ReplaceAll.
func (m *Manager) ImportFile(ctx context.Context, path string) error {
	tasks, err := transfer.ReadFile(path)
	if err != nil {
		if errors.Is(err, transfer.ErrInvalidShape) {
			return m.fail(&ValidationError{Message: err.Error()})
		}
		return m.fail(err)
	}
	return m.ReplaceAll(ctx, tasks)
}

// ExportFile writes the current collection into dir and returns the path.
func (m *Manager) ExportFile(ctx context.Context, dir string) (string, error) {
	m.mu.Lock()
	tasks, err := m.loadLocked(ctx)
	m.mu.Unlock()
	if err != nil {
		return "", err
	}

	path, err := transfer.WriteFile(dir, m.now(), tasks)
	if err != nil {
		return "", m.fail(err)
	}
	m.gateway.ShowLocal("Tasks exported successfully!", notify.SeveritySuccess, 0)
	return path, nil
}

// loadLocked pulls a fresh snapshot from the store. Persistence failures
// are reported but leave the previous in-memory collection untouched.
func (m *Manager) loadLocked(ctx context.Context) ([]model.Task, error) {
	tasks, err := m.store.LoadTasks(ctx)
	if err != nil {
		m.gateway.ShowLocal("Could not load saved tasks.", notify.SeverityError, 0)
		return nil, err
	}
	return tasks, nil
}

func (m *Manager) saveLocked(ctx context.Context, tasks []model.Task) error {
	if err := m.store.SaveTasks(ctx, tasks); err != nil {
		m.gateway.ShowLocal("Could not save tasks; your changes are kept in memory.", notify.SeverityError, 0)
		return err
	}
	return nil
}

// finishLocked installs the new snapshot, re-arms the scheduler and, for
// mutations, broadcasts the update to other instances.
func (m *Manager) finishLocked(tasks []model.Task, mutated bool) {
	m.tasks = model.Clone(tasks)
	m.sched.Rearm(model.Clone(tasks))
	if mutated && m.bus != nil {
		m.bus.Publish(broadcast.Message{Type: broadcast.TypeUpdate})
	}
}

func (m *Manager) fail(err error) error {
	m.gateway.ShowLocal(err.Error(), notify.SeverityError, 0)
	return err
}

// dispatch delivers the single system notification for a task that came
// due, degrading to the local banner when the system channel is denied.
func (m *Manager) dispatch(task model.Task) {
	m.gateway.ShowLocal(fmt.Sprintf("Task due: %s at %s", task.Title, task.Time), notify.SeverityInfo, 0)
	opts := notify.SystemOptions{
		Body: fmt.Sprintf("%s is scheduled for %s", task.Title, task.Time),
		Tag:  task.ID,
	}
	_ = m.gateway.ShowSystem("Task reminder", opts)
}

// persistNotified writes back the collection after the scheduler flips a
// notified flag, and lets other instances know.
func (m *Manager) persistNotified(tasks []model.Task) {
	if err := m.store.SaveTasks(context.Background(), tasks); err != nil {
		m.gateway.ShowLocal("Could not record a delivered notification.", notify.SeverityError, 0)
		return
	}
	if m.bus != nil {
		m.bus.Publish(broadcast.Message{Type: broadcast.TypeUpdate})
	}
}

func indexByID(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
