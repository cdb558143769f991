package notification

import (
	"context"
	"log/slog"
	"sync"
)

// Kinds of notification, one per form.
const (
	KindLogin          = "login"
	KindRegister       = "register"
	KindProfileUpdate  = "profile_update"
	KindPasswordChange = "password_change"
)

// Levels mirror the success and error toasts of the web client.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Message describes a notification payload.
type Message struct {
	Kind  string
	Level string
	Body  string
}

// Notifier delivers notifications to the user-facing channel.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	level := slog.LevelInfo
	if message.Level == LevelError {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "notification", "kind", message.Kind, "severity", message.Level, "body", message.Body)
	return nil
}

// Recorder keeps every message it is sent. Useful in tests.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Send records message.
func (r *Recorder) Send(_ context.Context, message Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}
