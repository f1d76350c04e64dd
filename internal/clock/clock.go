package clock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Format string

const (
	Format24 Format = "24"
	Format12 Format = "12"
)

// PreferenceStore persists the display-format choice across sessions.
// *storage.Store satisfies it.
type PreferenceStore interface {
	ClockFormat(ctx context.Context) (string, error)
	SetClockFormat(ctx context.Context, format string) error
}

// Clock formats the header time and date display. Pure presentation, no
// decision logic.
type Clock struct {
	mu     sync.Mutex
	format Format
	prefs  PreferenceStore
}

// New builds a clock with the persisted format preference, defaulting to
// 24-hour when prefs is nil or unreadable.
func New(ctx context.Context, prefs PreferenceStore) *Clock {
	c := &Clock{format: Format24, prefs: prefs}
	if prefs != nil {
		if stored, err := prefs.ClockFormat(ctx); err == nil && Format(stored) == Format12 {
			c.format = Format12
		}
	}
	return c
}

func (c *Clock) Format() Format {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

// Toggle flips between 24-hour and 12-hour display and persists the choice.
func (c *Clock) Toggle(ctx context.Context) Format {
	c.mu.Lock()
	if c.format == Format24 {
		c.format = Format12
	} else {
		c.format = Format24
	}
	format := c.format
	prefs := c.prefs
	c.mu.Unlock()

	if prefs != nil {
		_ = prefs.SetClockFormat(ctx, string(format))
	}
	return format
}

// FormatTime renders now in the active format: zero-padded 24-hour, or
// unpadded 12-hour with an AM/PM suffix.
func (c *Clock) FormatTime(now time.Time) string {
	c.mu.Lock()
	format := c.format
	c.mu.Unlock()

	if format == Format24 {
		return fmt.Sprintf("%02d:%02d:%02d", now.Hour(), now.Minute(), now.Second())
	}
	hours := now.Hour() % 12
	if hours == 0 {
		hours = 12
	}
	suffix := "AM"
	if now.Hour() >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d:%02d %s", hours, now.Minute(), now.Second(), suffix)
}

// FormatDate renders the long date line shown under the clock.
func (c *Clock) FormatDate(now time.Time) string {
	return now.Format("Monday, January 2, 2006")
}
