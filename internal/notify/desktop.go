package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// Desktop delivers system notifications through the host's notifier binary
// (notify-send on Linux, osascript on macOS) and local banners through a
// buffered channel the UI drains. Local sends never block; a slow or absent
// consumer only bumps the dropped counter.
type Desktop struct {
	local   chan LocalMessage
	dropped uint64

	goos     string
	run      func(name string, args ...string) error
	lookPath func(name string) (string, error)
}

func NewDesktop(bufferSize int) *Desktop {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Desktop{
		local:    make(chan LocalMessage, bufferSize),
		goos:     runtime.GOOS,
		run:      func(name string, args ...string) error { return exec.Command(name, args...).Run() },
		lookPath: exec.LookPath,
	}
}

// Local exposes the banner stream for the UI to consume.
func (d *Desktop) Local() <-chan LocalMessage {
	return d.local
}

func (d *Desktop) Dropped() uint64 {
	return atomic.LoadUint64(&d.dropped)
}

// RequestPermission probes for a usable notifier binary. There is no prompt
// to show in a terminal; presence on PATH is the grant.
func (d *Desktop) RequestPermission() Permission {
	bin := d.notifierBinary()
	if bin == "" {
		return PermissionDenied
	}
	if _, err := d.lookPath(bin); err != nil {
		return PermissionDenied
	}
	return PermissionGranted
}

func (d *Desktop) ShowLocal(message string, severity Severity, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultLocalDuration
	}
	msg := LocalMessage{Text: message, Severity: severity, Duration: duration}
	select {
	case d.local <- msg:
	default:
		atomic.AddUint64(&d.dropped, 1)
	}
}

// ShowSystem sends one system notification. When the system channel is
// unavailable it degrades to a local banner and reports ErrPermissionDenied,
// which callers treat as non-fatal.
func (d *Desktop) ShowSystem(title string, opts SystemOptions) error {
	if d.RequestPermission() != PermissionGranted {
		d.degrade(title, opts)
		return ErrPermissionDenied
	}

	var err error
	switch d.goos {
	case "linux":
		err = d.run("notify-send", title, opts.Body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(opts.Body), escapeAppleScript(title))
		err = d.run("osascript", "-e", script)
	default:
		d.degrade(title, opts)
		return ErrPermissionDenied
	}
	if err != nil {
		d.degrade(title, opts)
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return nil
}

func (d *Desktop) degrade(title string, opts SystemOptions) {
	text := title
	if opts.Body != "" {
		text = title + ": " + opts.Body
	}
	d.ShowLocal(text, SeverityInfo, DefaultLocalDuration)
}

func (d *Desktop) notifierBinary() string {
	switch d.goos {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
