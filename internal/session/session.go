package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/logging"
)

// Passwords used while nothing has been stored for a gate.
const (
	DefaultFrontendPassword = "123456"
	DefaultAdminPassword    = "admin123"
)

// Gate selects which stored password a check runs against.
type Gate string

const (
	GateFrontend Gate = "frontend"
	GateAdmin    Gate = "admin"
)

// Key returns the store key holding the gate's password.
func (g Gate) Key() string {
	if g == GateAdmin {
		return kvstore.KeyAdminPassword
	}
	return kvstore.KeyFrontendPassword
}

// DefaultPassword returns the password accepted while none is stored.
func (g Gate) DefaultPassword() string {
	if g == GateAdmin {
		return DefaultAdminPassword
	}
	return DefaultFrontendPassword
}

// ParseGate maps "frontend" or "admin" to a Gate.
func ParseGate(s string) (Gate, error) {
	switch Gate(s) {
	case GateFrontend, GateAdmin:
		return Gate(s), nil
	default:
		return "", fmt.Errorf("unknown gate %q", s)
	}
}

// Manager owns the process-wide session flags. The flags are mirrored to the
// auth key on every change and restored from it verbatim at construction;
// nothing re-verifies a restored session.
type Manager struct {
	store       kvstore.Store
	mu          sync.RWMutex
	state       gallery.SessionState
	unsubscribe func()
}

// New restores the persisted session and starts following changes made to
// the auth key by other components.
func New(ctx context.Context, store kvstore.Store) (*Manager, error) {
	m := &Manager{store: store}

	st, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	m.state = st

	m.unsubscribe = store.Subscribe(m.onStoreChange)

	logging.Debug("Session restored: authenticated=%v admin=%v", st.IsAuthenticated, st.IsAdmin)
	return m, nil
}

// Close stops following store changes.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// State returns a copy of the current flags.
func (m *Manager) State() gallery.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Refresh re-reads the auth key so writes made by another process sharing the
// store, such as gallerypw reset, take effect without a restart. On error the
// cached flags are returned unchanged.
func (m *Manager) Refresh(ctx context.Context) (gallery.SessionState, error) {
	st, err := m.load(ctx)
	if err != nil {
		return m.State(), err
	}
	m.mu.Lock()
	m.state = st
	m.mu.Unlock()
	return st, nil
}

// Login compares password with the stored password for the chosen gate using
// plain string equality. On a match both flags are set and persisted.
func (m *Manager) Login(ctx context.Context, password string, asAdmin bool) (bool, error) {
	gate := GateFrontend
	if asAdmin {
		gate = GateAdmin
	}

	stored, err := m.Password(ctx, gate)
	if err != nil {
		return false, err
	}
	if password != stored {
		return false, nil
	}

	if err := m.persist(ctx, gallery.SessionState{IsAuthenticated: true, IsAdmin: asAdmin}); err != nil {
		return false, err
	}
	return true, nil
}

// Logout clears both flags.
func (m *Manager) Logout(ctx context.Context) error {
	return m.persist(ctx, gallery.SessionState{})
}

// ChangePassword replaces the front-end password when current matches it.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) (bool, error) {
	return m.changeGatePassword(ctx, GateFrontend, current, next)
}

// ChangeAdminPassword replaces the admin password when current matches it.
func (m *Manager) ChangeAdminPassword(ctx context.Context, current, next string) (bool, error) {
	return m.changeGatePassword(ctx, GateAdmin, current, next)
}

func (m *Manager) changeGatePassword(ctx context.Context, gate Gate, current, next string) (bool, error) {
	stored, err := m.Password(ctx, gate)
	if err != nil {
		return false, err
	}
	if current != stored {
		return false, nil
	}
	if err := SetPassword(ctx, m.store, gate, next); err != nil {
		return false, err
	}
	return true, nil
}

// Password returns the stored password for gate, or its default.
func (m *Manager) Password(ctx context.Context, gate Gate) (string, error) {
	pw, _, err := StoredPassword(ctx, m.store, gate)
	return pw, err
}

// StoredPassword reads a gate's password straight from the store. The
// boolean reports whether a value was stored rather than defaulted.
func StoredPassword(ctx context.Context, store kvstore.Store, gate Gate) (string, bool, error) {
	var pw string
	ok, err := kvstore.GetJSON(ctx, store, gate.Key(), &pw)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return gate.DefaultPassword(), false, nil
	}
	return pw, true, nil
}

// SetPassword overwrites a gate's password without checking the old one.
func SetPassword(ctx context.Context, store kvstore.Store, gate Gate, password string) error {
	return kvstore.SetJSON(ctx, store, gate.Key(), password)
}

func (m *Manager) load(ctx context.Context) (gallery.SessionState, error) {
	var st gallery.SessionState
	if _, err := kvstore.GetJSON(ctx, m.store, kvstore.KeyAuth, &st); err != nil {
		return gallery.SessionState{}, fmt.Errorf("restore session: %w", err)
	}
	return st, nil
}

func (m *Manager) persist(ctx context.Context, st gallery.SessionState) error {
	if err := kvstore.SetJSON(ctx, m.store, kvstore.KeyAuth, st); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.mu.Lock()
	m.state = st
	m.mu.Unlock()
	return nil
}

// onStoreChange reloads the flags whenever the auth key is written or removed
// by anyone, including this manager.
func (m *Manager) onStoreChange(key string) {
	if key != kvstore.KeyAuth {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := m.load(ctx)
	if err != nil {
		logging.Warn("Failed to reload session after store change: %v", err)
		return
	}

	m.mu.Lock()
	m.state = st
	m.mu.Unlock()
}
