package admin

import (
	"context"
	"fmt"

	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/session"
)

// MinPasswordLength applies to every password set from the admin panel.
const MinPasswordLength = 6

// PasswordChange is the settings form.
type PasswordChange struct {
	Current string `json:"currentPassword"`
	New     string `json:"newPassword"`
	Confirm string `json:"confirmPassword"`
}

// Validate checks the form before the current password is compared.
func (p PasswordChange) Validate() error {
	if p.Current == "" || p.New == "" || p.Confirm == "" {
		return ErrPasswordFieldsRequired
	}
	if p.New != p.Confirm {
		return ErrPasswordMismatch
	}
	if len(p.New) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Settings changes passwords and clears cached state.
type Settings struct {
	sessions *session.Manager
	store    kvstore.Store
}

// NewSettings creates the settings panel backend.
func NewSettings(sessions *session.Manager, store kvstore.Store) *Settings {
	return &Settings{sessions: sessions, store: store}
}

// ChangePassword replaces the front-end password.
func (s *Settings) ChangePassword(ctx context.Context, p PasswordChange) error {
	return s.change(ctx, session.GateFrontend, p, s.sessions.ChangePassword)
}

// ChangeAdminPassword replaces the admin password.
func (s *Settings) ChangeAdminPassword(ctx context.Context, p PasswordChange) error {
	return s.change(ctx, session.GateAdmin, p, s.sessions.ChangeAdminPassword)
}

func (s *Settings) change(ctx context.Context, gate session.Gate, p PasswordChange,
	fn func(ctx context.Context, current, next string) (bool, error)) (err error) {
	status := "success"
	defer func() {
		metrics.PasswordChangesTotal.WithLabelValues(string(gate), status).Inc()
	}()

	if err := p.Validate(); err != nil {
		status = "invalid"
		return err
	}
	ok, err := fn(ctx, p.Current, p.New)
	if err != nil {
		status = "error"
		return err
	}
	if !ok {
		status = "wrong_password"
		return ErrWrongPassword
	}
	logging.Info("The %s password was changed", gate)
	return nil
}

// ClearCache deletes every key except the catalog and the admin list. The
// session flags and both passwords go with it, so the caller is signed out
// and the default passwords apply again.
func (s *Settings) ClearCache(ctx context.Context) (removed []string, err error) {
	defer func() { recordAction("settings", "clear_cache", err) }()

	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	removed = []string{}
	for _, key := range keys {
		if key == kvstore.KeyMediaItems || key == kvstore.KeyAdmins {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("delete %s: %w", key, err)
		}
		removed = append(removed, key)
	}
	logging.Info("Cache cleared: removed %d key(s)", len(removed))
	return removed, nil
}
