package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
)

func newTestManager(t *testing.T, store kvstore.Store) *Manager {
	t.Helper()
	m, err := New(context.Background(), store)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestLoginDefaultPasswords(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		asAdmin   bool
		wantOK    bool
		wantState gallery.SessionState
	}{
		{"frontend default", "123456", false, true, gallery.SessionState{IsAuthenticated: true}},
		{"admin default", "admin123", true, true, gallery.SessionState{IsAuthenticated: true, IsAdmin: true}},
		{"admin password at frontend gate", "admin123", false, false, gallery.SessionState{}},
		{"frontend password at admin gate", "123456", true, false, gallery.SessionState{}},
		{"empty password", "", false, false, gallery.SessionState{}},
		{"near miss", "1234567", false, false, gallery.SessionState{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kvstore.NewMemory()
			m := newTestManager(t, store)

			ok, err := m.Login(context.Background(), tt.password, tt.asAdmin)
			if err != nil {
				t.Fatalf("Login error: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("Login(%q, %v) = %v, want %v", tt.password, tt.asAdmin, ok, tt.wantOK)
			}
			if got := m.State(); got != tt.wantState {
				t.Errorf("State() = %+v, want %+v", got, tt.wantState)
			}

			_, persisted, _ := store.Get(context.Background(), kvstore.KeyAuth)
			if persisted != tt.wantOK {
				t.Errorf("auth key persisted = %v, want %v", persisted, tt.wantOK)
			}
		})
	}
}

func TestLoginUsesStoredPassword(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	if err := SetPassword(ctx, store, GateFrontend, "letmein"); err != nil {
		t.Fatal(err)
	}
	m := newTestManager(t, store)

	if ok, _ := m.Login(ctx, "123456", false); ok {
		t.Error("default password must stop working once a password is stored")
	}
	if ok, _ := m.Login(ctx, "letmein", false); !ok {
		t.Error("stored password should be accepted")
	}
}

func TestFailedLoginLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, kvstore.NewMemory())

	if ok, _ := m.Login(ctx, "admin123", true); !ok {
		t.Fatal("admin login failed")
	}
	if ok, _ := m.Login(ctx, "wrong", false); ok {
		t.Fatal("wrong password accepted")
	}
	want := gallery.SessionState{IsAuthenticated: true, IsAdmin: true}
	if got := m.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	_, _ = m.Login(ctx, "admin123", true)
	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if got := m.State(); got != (gallery.SessionState{}) {
		t.Errorf("State() after logout = %+v", got)
	}

	raw, _, _ := store.Get(ctx, kvstore.KeyAuth)
	if raw != `{"isAuthenticated":false,"isAdmin":false}` {
		t.Errorf("persisted auth = %s", raw)
	}
}

func TestRestoreTrustsPersistedFlags(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	_ = store.Set(ctx, kvstore.KeyAuth, `{"isAuthenticated":true,"isAdmin":true}`)

	m := newTestManager(t, store)
	want := gallery.SessionState{IsAuthenticated: true, IsAdmin: true}
	if got := m.State(); got != want {
		t.Errorf("restored State() = %+v, want %+v", got, want)
	}
}

func TestRestoreMalformedAuthFails(t *testing.T) {
	store := kvstore.NewMemory()
	_ = store.Set(context.Background(), kvstore.KeyAuth, `{broken`)

	_, err := New(context.Background(), store)
	if !errors.Is(err, kvstore.ErrMalformed) {
		t.Errorf("New with malformed auth = %v, want ErrMalformed", err)
	}
}

func TestExternalAuthChangesAreFollowed(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	_, _ = m.Login(ctx, "123456", false)

	if err := store.Delete(ctx, kvstore.KeyAuth); err != nil {
		t.Fatal(err)
	}
	if got := m.State(); got.IsAuthenticated {
		t.Error("deleting the auth key should sign the session out")
	}

	_ = store.Set(ctx, kvstore.KeyAuth, `{"isAuthenticated":true,"isAdmin":false}`)
	if got := m.State(); !got.IsAuthenticated || got.IsAdmin {
		t.Errorf("State() = %+v after external write", got)
	}
}

func TestRefreshSeesWritesFromAnotherProcess(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "gallery.db")

	server, err := kvstore.OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = server.Close() })
	cli, err := kvstore.OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = cli.Close() })

	m := newTestManager(t, server)
	if ok, err := m.Login(ctx, "admin123", true); err != nil || !ok {
		t.Fatalf("Login = %v, %v", ok, err)
	}

	if err := kvstore.SetJSON(ctx, cli, kvstore.KeyAuth, gallery.SessionState{}); err != nil {
		t.Fatal(err)
	}
	if got := m.State(); !got.IsAdmin {
		t.Fatalf("cached State() = %+v changed without a refresh", got)
	}

	got, err := m.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got != (gallery.SessionState{}) || m.State() != (gallery.SessionState{}) {
		t.Errorf("after Refresh = %+v, State() = %+v", got, m.State())
	}
}

func TestRefreshKeepsCachedFlagsOnError(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	m := newTestManager(t, store)
	_, _ = m.Login(ctx, "123456", false)

	// Close drops the subscription so the broken write is only seen by Refresh.
	m.Close()
	_ = store.Set(ctx, kvstore.KeyAuth, `{broken`)

	got, err := m.Refresh(ctx)
	if !errors.Is(err, kvstore.ErrMalformed) {
		t.Errorf("Refresh error = %v, want ErrMalformed", err)
	}
	if !got.IsAuthenticated {
		t.Errorf("Refresh = %+v, want cached flags", got)
	}
}

func TestRawStoredPasswordIsMalformed(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	_ = store.Set(ctx, kvstore.KeyFrontendPassword, `letmein`)
	m := newTestManager(t, store)

	ok, err := m.Login(ctx, "letmein", false)
	if ok || !errors.Is(err, kvstore.ErrMalformed) {
		t.Errorf("Login with unquoted stored password = %v, %v; want ErrMalformed", ok, err)
	}

	_ = store.Set(ctx, kvstore.KeyFrontendPassword, `"letmein"`)
	if ok, err := m.Login(ctx, "letmein", false); !ok || err != nil {
		t.Errorf("Login with JSON string = %v, %v", ok, err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	m := newTestManager(t, store)

	ok, err := m.ChangePassword(ctx, "wrong", "abcdef")
	if err != nil || ok {
		t.Fatalf("ChangePassword with wrong current = %v, %v", ok, err)
	}
	if pw, _ := m.Password(ctx, GateFrontend); pw != DefaultFrontendPassword {
		t.Errorf("password changed despite mismatch: %q", pw)
	}

	ok, err = m.ChangePassword(ctx, "123456", "abcdef")
	if err != nil || !ok {
		t.Fatalf("ChangePassword = %v, %v", ok, err)
	}
	if ok, _ := m.Login(ctx, "abcdef", false); !ok {
		t.Error("new password rejected")
	}
	if ok, _ := m.Login(ctx, "123456", false); ok {
		t.Error("old password still accepted")
	}

	// The admin password is untouched.
	if pw, _ := m.Password(ctx, GateAdmin); pw != DefaultAdminPassword {
		t.Errorf("admin password = %q", pw)
	}
}

func TestChangeAdminPassword(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, kvstore.NewMemory())

	if ok, _ := m.ChangeAdminPassword(ctx, "123456", "newadmin"); ok {
		t.Error("frontend password must not authorize an admin password change")
	}
	if ok, _ := m.ChangeAdminPassword(ctx, "admin123", "newadmin"); !ok {
		t.Fatal("ChangeAdminPassword failed")
	}
	if ok, _ := m.Login(ctx, "newadmin", true); !ok {
		t.Error("new admin password rejected")
	}
}

func TestStoredPassword(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	pw, stored, err := StoredPassword(ctx, store, GateAdmin)
	if err != nil || stored || pw != DefaultAdminPassword {
		t.Errorf("StoredPassword(empty) = %q, %v, %v", pw, stored, err)
	}

	_ = SetPassword(ctx, store, GateAdmin, "s3cret!")
	pw, stored, err = StoredPassword(ctx, store, GateAdmin)
	if err != nil || !stored || pw != "s3cret!" {
		t.Errorf("StoredPassword = %q, %v, %v", pw, stored, err)
	}
}

func TestParseGate(t *testing.T) {
	for _, s := range []string{"frontend", "admin"} {
		if _, err := ParseGate(s); err != nil {
			t.Errorf("ParseGate(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseGate("root"); err == nil {
		t.Error("ParseGate(root) should fail")
	}
}
