// Package session owns the single authenticated Garmin handle for the
// process. Creation and reset are serialized so concurrent requests never
// trigger duplicate logins.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Upstream is the handle the manager authenticates. *garmin.Client satisfies it.
type Upstream interface {
	Login(ctx context.Context) error
}

// Manager guards the login lifecycle of one Upstream. The zero value is not
// usable; construct with NewManager.
type Manager struct {
	upstream Upstream
	logger   *zap.Logger

	mu            sync.Mutex
	authenticated bool
	lastAuth      time.Time
}

// NewManager builds a Manager around an unauthenticated upstream handle.
func NewManager(upstream Upstream, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{upstream: upstream, logger: logger}
}

// Ensure logs in lazily. It returns immediately when a session is already
// established; otherwise exactly one caller performs the login while the rest
// wait for its outcome. Login failures propagate unchanged and are not
// retried here.
func (m *Manager) Ensure(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.authenticated {
		return nil
	}
	if err := m.upstream.Login(ctx); err != nil {
		m.logger.Warn("session login failed", zap.Error(err))
		return err
	}
	m.authenticated = true
	m.lastAuth = time.Now()
	m.logger.Info("session established")
	return nil
}

// Reset discards the current session. The next Ensure reauthenticates.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = false
	m.logger.Info("session reset")
}

// Authenticated reports whether a session is currently established.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// LastAuthenticated returns the time of the most recent successful login, or
// the zero time when none has happened yet.
func (m *Manager) LastAuthenticated() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAuth
}
