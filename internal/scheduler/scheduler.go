package scheduler

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/opugacodez/tokei/internal/model"
)

// MaxTimerDelay is the longest single-shot delay the scheduler will arm,
// the classic 32-bit-millisecond ceiling (~24.8 days). Tasks due further out
// are not armed now; they are picked up by a later Rearm triggered by the
// next mutation or refresh. Known limitation: there is no long-horizon
// resync beyond those incidental Rearm calls.
const MaxTimerDelay = time.Duration(math.MaxInt32) * time.Millisecond

// Dispatch delivers exactly one notification for a task that has come due.
type Dispatch func(task model.Task)

// Persist writes the collection back after the scheduler flips a notified
// flag. Failures are the callback's to report; the in-memory state stands.
type Persist func(tasks []model.Task)

type Config struct {
	Dispatch Dispatch
	Persist  Persist
	Now      func() time.Time
	Location *time.Location
}

// Scheduler owns a transient view of the task collection and at most one
// armed timer, pointed at the next non-completed, non-notified task. Every
// Rearm cancels the previous timer first, so duplicate or overlapping
// notifications cannot occur.
type Scheduler struct {
	mu      sync.Mutex
	tasks   []model.Task
	timer   *time.Timer
	armedID string
	gen     uint64
	stopped bool

	dispatch Dispatch
	persist  Persist
	now      func() time.Time
	loc      *time.Location
}

func New(cfg Config) *Scheduler {
	s := &Scheduler{
		dispatch: cfg.Dispatch,
		persist:  cfg.Persist,
		now:      cfg.Now,
		loc:      cfg.Location,
	}
	if s.dispatch == nil {
		s.dispatch = func(model.Task) {}
	}
	if s.persist == nil {
		s.persist = func([]model.Task) {}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// Rearm replaces the scheduler's snapshot with tasks, sweeps candidates that
// are already overdue (dispatching once each and marking them notified) and
// arms a single timer for the earliest future candidate, if any.
func (s *Scheduler) Rearm(tasks []model.Task) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.tasks = model.Clone(tasks)
	fired := s.rearmLocked()
	s.mu.Unlock()

	for _, task := range fired {
		s.dispatch(task)
	}
}

// Stop cancels any armed timer. Pending timers carry no durable state; the
// schedule is fully derivable from the task collection on next load.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.cancelLocked()
}

// Armed reports the id of the task the current timer targets, if one is
// armed.
func (s *Scheduler) Armed() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armedID, s.armedID != ""
}

// rearmLocked performs the sweep-then-arm pass and returns the tasks whose
// notifications must be dispatched once the lock is released.
func (s *Scheduler) rearmLocked() []model.Task {
	s.cancelLocked()
	now := s.now()

	var fired []model.Task
	for i := range s.tasks {
		task := s.tasks[i]
		if task.Completed || task.Notified {
			continue
		}
		due, err := task.DueAt(s.loc)
		if err != nil {
			continue
		}
		if !due.After(now) {
			s.tasks[i].Notified = true
			fired = append(fired, s.tasks[i])
		}
	}
	if len(fired) > 0 {
		s.persist(model.Clone(s.tasks))
	}

	next, due, ok := s.nextCandidateLocked(now)
	if !ok {
		return fired
	}
	delay := due.Sub(now)
	if delay > MaxTimerDelay {
		return fired
	}

	s.gen++
	gen := s.gen
	id := next.ID
	s.armedID = id
	s.timer = time.AfterFunc(delay, func() { s.onFire(gen, id) })
	return fired
}

// nextCandidateLocked selects the future candidate with the minimum due
// moment, breaking ties by ascending id for determinism.
func (s *Scheduler) nextCandidateLocked(now time.Time) (model.Task, time.Time, bool) {
	type entry struct {
		task model.Task
		due  time.Time
	}
	candidates := make([]entry, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.Completed || task.Notified {
			continue
		}
		due, err := task.DueAt(s.loc)
		if err != nil || !due.After(now) {
			continue
		}
		candidates = append(candidates, entry{task: task, due: due})
	}
	if len(candidates) == 0 {
		return model.Task{}, time.Time{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].due.Equal(candidates[j].due) {
			return candidates[i].due.Before(candidates[j].due)
		}
		return candidates[i].task.ID < candidates[j].task.ID
	})
	return candidates[0].task, candidates[0].due, true
}

// onFire runs when the armed timer elapses. It re-reads the task from the
// current snapshot rather than a captured copy: a task edited, deleted or
// completed while the timer was pending is discarded silently and the
// scheduler simply re-arms for the next candidate.
func (s *Scheduler) onFire(gen uint64, id string) {
	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.armedID = ""

	var fired []model.Task
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if s.tasks[i].Completed || s.tasks[i].Notified {
			break
		}
		s.tasks[i].Notified = true
		fired = append(fired, s.tasks[i])
		s.persist(model.Clone(s.tasks))
		break
	}

	fired = append(fired, s.rearmLocked()...)
	s.mu.Unlock()

	for _, task := range fired {
		s.dispatch(task)
	}
}

func (s *Scheduler) cancelLocked() {
	s.gen++
	s.armedID = ""
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
