package notify

import (
	"errors"
	"time"
)

var ErrPermissionDenied = errors.New("notify: system notification channel unavailable")

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// DefaultLocalDuration is how long a local banner stays visible unless the
// caller asks otherwise.
const DefaultLocalDuration = 4 * time.Second

type SystemOptions struct {
	Body string
	Tag  string
}

// Gateway is the notification capability the core depends on. ShowSystem is
// best-effort: implementations degrade to the local path when the system
// channel is unavailable, and no failure here is ever fatal.
type Gateway interface {
	RequestPermission() Permission
	ShowLocal(message string, severity Severity, duration time.Duration)
	ShowSystem(title string, opts SystemOptions) error
}

// LocalMessage is a banner for the in-app notification area.
type LocalMessage struct {
	Text     string
	Severity Severity
	Duration time.Duration
}

// Noop discards everything; used where notifications are switched off.
type Noop struct{}

func (Noop) RequestPermission() Permission             { return PermissionDenied }
func (Noop) ShowLocal(string, Severity, time.Duration) {}
func (Noop) ShowSystem(string, SystemOptions) error    { return nil }
