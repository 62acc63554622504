package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"usertable/internal/domain/notification"
	"usertable/pkg/logger"
)

// Stack keeps toasts until the page renders them. Overlapping toasts simply
// pile up; there is no dedup.
type Stack struct {
	mu    sync.Mutex
	items []notification.Notification
}

// NewStack creates an empty Stack.
func NewStack() *Stack {
	return &Stack{}
}

// Notify pushes n on the stack.
func (s *Stack) Notify(_ context.Context, n notification.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
}

// Drain returns the pending toasts oldest first and empties the stack.
func (s *Stack) Drain() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.items
	s.items = nil
	return out
}

// Len reports how many toasts are pending.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// LogSink writes every toast to the log.
type LogSink struct {
	log *zap.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

// Notify logs n; errors at warn level.
func (s *LogSink) Notify(ctx context.Context, n notification.Notification) {
	l := logger.WithContext(ctx, s.log)
	fields := []zap.Field{
		zap.String("kind", string(n.Kind)),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
	}
	if n.Kind == notification.KindError {
		l.Warn("notification", fields...)
		return
	}
	l.Info("notification", fields...)
}

// Sink is anything that can show a toast.
type Sink interface {
	Notify(ctx context.Context, n notification.Notification)
}

// Fanout delivers each toast to every sink in order.
type Fanout []Sink

// Notify implements Sink.
func (f Fanout) Notify(ctx context.Context, n notification.Notification) {
	for _, s := range f {
		if s != nil {
			s.Notify(ctx, n)
		}
	}
}
