package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Event is one append-only row of the usage log. No foreign-key
// integrity is expected from the sink.
type Event struct {
	Timestamp time.Time
	UserID    int64
	Username  string
	Action    string
	Mode      string
	Details   string
	Source    string
	SessionID string
}

// Sink is an append-only event destination. Append failures are
// non-fatal to callers of Logger.
type Sink interface {
	Append(ctx context.Context, ev Event) error
	Probe(ctx context.Context) error
}

const defaultSource = "telegram_bot"

// appendTimeout bounds how long one append may hold up a handler.
const appendTimeout = 5 * time.Second

// Logger records events to a sink when one is configured and degrades to
// local log lines otherwise. Append errors never propagate: an
// unreachable sink must not break bot responsiveness.
type Logger struct {
	sink Sink
	log  *zap.Logger
	now  func() time.Time
}

func New(sink Sink, log *zap.Logger) *Logger {
	return &Logger{sink: sink, log: log, now: time.Now}
}

// Log appends one event. The call is awaited inline but bounded by
// appendTimeout; on timeout or failure the event goes to the local log
// instead. There is no retry queue.
func (l *Logger) Log(userID int64, username, action, mode, details string) {
	now := l.now()
	ev := Event{
		Timestamp: now,
		UserID:    userID,
		Username:  username,
		Action:    action,
		Mode:      mode,
		Details:   details,
		Source:    defaultSource,
		SessionID: fmt.Sprintf("%s_%d", now.Format("20060102"), userID),
	}

	if l.sink == nil {
		l.logLocal(ev)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	if err := l.sink.Append(ctx, ev); err != nil {
		l.log.Warn("analytics append failed, logging locally", zap.Error(err))
		l.logLocal(ev)
	}
}

func (l *Logger) logLocal(ev Event) {
	l.log.Info("analytics event",
		zap.Int64("user_id", ev.UserID),
		zap.String("username", ev.Username),
		zap.String("action", ev.Action),
		zap.String("mode", ev.Mode),
		zap.String("details", ev.Details),
		zap.String("session_id", ev.SessionID),
	)
}
