package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Listener dispatches change notifications for individual keys. Handlers run
// on the listen goroutine and must not block.
type Listener struct {
	db *pgxpool.Pool

	mu       sync.RWMutex
	handlers map[string][]func()
}

func NewListener(db *pgxpool.Pool) *Listener {
	return &Listener{
		db:       db,
		handlers: make(map[string][]func()),
	}
}

// OnChange registers fn to run whenever key is written from any context.
func (l *Listener) OnChange(key string, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[key] = append(l.handlers[key], fn)
}

// Run listens for change notifications until ctx is cancelled, re-acquiring
// a connection after transient failures.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("storage listener disconnected, retrying")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	// LISTEN needs a dedicated connection held for the whole loop.
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.dispatch(notification.Payload)
	}
}

func (l *Listener) dispatch(key string) {
	l.mu.RLock()
	fns := l.handlers[key]
	l.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
