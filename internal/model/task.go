package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyTitle = errors.New("model: task title is required")
	ErrBadDate    = errors.New("model: invalid task date")
	ErrBadTime    = errors.New("model: invalid task time")
)

const (
	// DateLayout is the calendar-date field format (ISO date).
	DateLayout = "2006-01-02"
	// TimeLayout is the time-of-day field format.
	TimeLayout = "15:04"

	dueLayout = DateLayout + "T" + TimeLayout
)

// Task is the sole persisted entity. Date and Time stay as the strings the
// user entered; the due moment is derived on read, never stored.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Completed   bool   `json:"completed"`
	Notified    bool   `json:"notified"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// DueAt combines Date and Time into a single point in time in loc.
func (t Task) DueAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	due, err := time.ParseInLocation(dueLayout, t.Date+"T"+t.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("model: task %s due moment: %w", t.ID, err)
	}
	return due, nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	return Draft{Title: t.Title, Date: t.Date, Time: t.Time}.Validate()
}

// SameSlot reports whether two tasks occupy the same (title, date, time)
// slot. Duplicate detection is advisory; the store itself does not enforce it.
func (t Task) SameSlot(other Task) bool {
	return t.Title == other.Title && t.Date == other.Date && t.Time == other.Time
}

// Draft is the user-entered portion of a task, before an id is assigned.
type Draft struct {
	Title       string
	Description string
	Date        string
	Time        string
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrBadDate, d.Date)
	}
	if _, err := time.Parse(TimeLayout, d.Time); err != nil {
		return fmt.Errorf("%w: %q", ErrBadTime, d.Time)
	}
	return nil
}

// Clone returns a copy of the collection; mutations on the copy do not leak
// into snapshots handed out to other components.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
