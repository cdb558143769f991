// Package forms runs the submit lifecycle of each account form:
// Idle -> Submitting -> Success|Failed -> Idle.
package forms

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/wastezero/wastezero/internal/notification"
	"github.com/wastezero/wastezero/internal/profile"
	"github.com/wastezero/wastezero/internal/validation"
)

// State of a form instance.
type State int

const (
	Idle State = iota
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON bodies.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Navigation targets returned on success.
const (
	RedirectHome  = "/"
	RedirectLogin = "/login"
)

const msgUnexpected = "Something went wrong, please try again"

// ErrSubmitInProgress is returned when a form is submitted again before the
// previous submission resolved.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Result is what the user sees after a submit.
type Result struct {
	State    State                  `json:"state"`
	Notice   string                 `json:"notice,omitempty"`
	Redirect string                 `json:"redirect,omitempty"`
	Errors   validation.FieldErrors `json:"errors,omitempty"`
}

// Deps are shared by every form controller.
type Deps struct {
	Store    *profile.Store
	Notifier notification.Notifier
	Logger   *slog.Logger
	// Sleep stands in for the network round trip; nil means time.Sleep.
	Sleep func(time.Duration)
}

type outcome struct {
	notice   string
	redirect string
}

type machine struct {
	kind    string
	latency time.Duration
	deps    Deps

	mu    sync.Mutex
	state State
	last  State
}

func newMachine(kind string, latency time.Duration, deps Deps) *machine {
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	return &machine{kind: kind, latency: latency, deps: deps, last: Idle}
}

// State reports whether a submission is in flight.
func (m *machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastOutcome is the terminal state of the most recent submission, or Idle
// if none has resolved yet.
func (m *machine) LastOutcome() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// submit gates on validErr, then runs resolve after the simulated latency.
// The wait is not cancellable: once Submitting, the submission resolves.
func (m *machine) submit(ctx context.Context, validErr error, resolve func(context.Context) (outcome, error)) (Result, error) {
	if validErr != nil {
		var fe validation.FieldErrors
		if errors.As(validErr, &fe) {
			return Result{State: Idle, Errors: fe}, validErr
		}
		return Result{State: Idle}, validErr
	}

	if !m.begin() {
		return Result{State: Submitting}, ErrSubmitInProgress
	}

	if m.latency > 0 {
		m.deps.Sleep(m.latency)
	}

	out, err := resolve(ctx)
	if err != nil {
		notice := msgUnexpected
		var re *validation.RuleError
		if errors.As(err, &re) {
			notice = re.Message
		} else if m.deps.Logger != nil {
			m.deps.Logger.ErrorContext(ctx, "form submission failed", slog.String("form", m.kind), slog.Any("error", err))
		}
		m.notify(ctx, notification.LevelError, notice)
		m.finish(Failed)
		return Result{State: Failed, Notice: notice}, err
	}

	m.notify(ctx, notification.LevelSuccess, out.notice)
	m.finish(Success)
	return Result{State: Success, Notice: out.notice, Redirect: out.redirect}, nil
}

func (m *machine) begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return false
	}
	m.state = Submitting
	return true
}

// finish records the terminal state and re-enables the form.
func (m *machine) finish(terminal State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = terminal
	m.state = Idle
}

func (m *machine) notify(ctx context.Context, level, body string) {
	if m.deps.Notifier == nil {
		return
	}
	if err := m.deps.Notifier.Send(ctx, notification.Message{Kind: m.kind, Level: level, Body: body}); err != nil && m.deps.Logger != nil {
		m.deps.Logger.WarnContext(ctx, "notification failed", slog.String("form", m.kind), slog.Any("error", err))
	}
}
