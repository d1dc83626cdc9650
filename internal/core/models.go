package core

import (
	"fmt"
	"time"
)

// EventKind identifies what changed the mirror or the machine
type EventKind string

const (
	EventMirror  EventKind = "mirror"
	EventClean   EventKind = "clean"
	EventInstall EventKind = "install"
	EventLink    EventKind = "link"
)

// EventKinds returns every known kind, in display order
func EventKinds() []EventKind {
	return []EventKind{EventMirror, EventClean, EventInstall, EventLink}
}

// ParseEventKind validates a kind read from the journal or the command line
func ParseEventKind(s string) (EventKind, error) {
	for _, k := range EventKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown event kind %q", s)
}

// Event is one journal entry
type Event struct {
	ID        int64     `json:"id"`
	Kind      EventKind `json:"kind"`
	Summary   string    `json:"summary"`
	Packages  []string  `json:"packages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneral       = 1
	ExitInvalidArgs   = 2
	ExitInstallFailed = 3
	ExitInterrupted   = 130
)
