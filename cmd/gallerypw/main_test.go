package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/session"
)

// scripted answers prompts from a fixed list.
func scripted(answers ...string) passwordReader {
	return func(string) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		a := answers[0]
		answers = answers[1:]
		return []byte(a), nil
	}
}

// =============================================================================
// Reset Tests
// =============================================================================

func TestResetPassword(t *testing.T) {
	tests := []struct {
		name     string
		gate     session.Gate
		answers  []string
		wantErr  error
		wantPass string
	}{
		{"front-end", session.GateFrontend, []string{"letmein", "letmein"}, nil, "letmein"},
		{"admin", session.GateAdmin, []string{"rootroot", "rootroot"}, nil, "rootroot"},
		{"minimum length", session.GateFrontend, []string{"123456", "123456"}, nil, "123456"},
		{"too short", session.GateFrontend, []string{"12345", "12345"}, errPasswordTooShort, ""},
		{"empty", session.GateAdmin, []string{"", ""}, errPasswordTooShort, ""},
		{"mismatch", session.GateFrontend, []string{"password1", "password2"}, errPasswordMismatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := kvstore.NewMemory()
			if err := kvstore.SetJSON(ctx, store, kvstore.KeyAuth, gallery.SessionState{IsAuthenticated: true, IsAdmin: true}); err != nil {
				t.Fatal(err)
			}

			var out bytes.Buffer
			err := resetPassword(ctx, store, tt.gate, scripted(tt.answers...), &out)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("resetPassword() error = %v, want %v", err, tt.wantErr)
			}

			pw, stored, err := session.StoredPassword(ctx, store, tt.gate)
			if err != nil {
				t.Fatal(err)
			}
			if tt.wantErr != nil {
				if stored {
					t.Errorf("password stored despite error: %q", pw)
				}
				return
			}
			if pw != tt.wantPass {
				t.Errorf("stored password = %q, want %q", pw, tt.wantPass)
			}

			var st gallery.SessionState
			if _, err := kvstore.GetJSON(ctx, store, kvstore.KeyAuth, &st); err != nil {
				t.Fatal(err)
			}
			if st.IsAuthenticated || st.IsAdmin {
				t.Errorf("session not signed out: %+v", st)
			}
			if !strings.Contains(out.String(), string(tt.gate)) {
				t.Errorf("output = %q", out.String())
			}
		})
	}
}

func TestResetPasswordReadError(t *testing.T) {
	err := resetPassword(context.Background(), kvstore.NewMemory(), session.GateAdmin, scripted("only-one"), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "reading password") {
		t.Errorf("error = %v", err)
	}
}

func TestResolveGate(t *testing.T) {
	tests := []struct {
		name    string
		gate    string
		admin   bool
		want    session.Gate
		wantErr bool
	}{
		{"default", "frontend", false, session.GateFrontend, false},
		{"admin gate", "admin", false, session.GateAdmin, false},
		{"admin alias", "frontend", true, session.GateAdmin, false},
		{"unknown gate", "editor", false, "", true},
		{"empty gate", "", false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveGate(tt.gate, tt.admin)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveGate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveGate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResetCommandRejectsUnknownGate(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DATA_DIR", t.TempDir())

	rootCmd.SetArgs([]string{"reset", "--gate", "editor"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		flagGate = string(session.GateFrontend)
		if store != nil {
			_ = store.Close()
		}
		store = nil
	})

	err := rootCmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unknown gate") {
		t.Errorf("error = %v", err)
	}
}

// =============================================================================
// Status Tests
// =============================================================================

func TestShowStatus(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	var out bytes.Buffer
	if err := showStatus(ctx, store, &out); err != nil {
		t.Fatalf("showStatus: %v", err)
	}
	if got := strings.Count(out.String(), "built-in default"); got != 2 {
		t.Errorf("fresh store output = %q", out.String())
	}

	if err := session.SetPassword(ctx, store, session.GateAdmin, "changed!"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := showStatus(ctx, store, &out); err != nil {
		t.Fatalf("showStatus: %v", err)
	}
	if !strings.Contains(out.String(), "admin     password is configured") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "authenticated=false") {
		t.Errorf("session line missing: %q", out.String())
	}
}

func TestShowStatusMalformed(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	if err := store.Set(ctx, kvstore.KeyFrontendPassword, "not json"); err != nil {
		t.Fatal(err)
	}
	if err := showStatus(ctx, store, &bytes.Buffer{}); !errors.Is(err, kvstore.ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

// =============================================================================
// Command Tests
// =============================================================================

func TestStatusCommandAgainstSQLite(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DATA_DIR", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"status"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		store = nil
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out.String(), "Session:") {
		t.Errorf("output = %q", out.String())
	}
}

func TestMemoryBackendRejected(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_BACKEND", "memory")

	rootCmd.SetArgs([]string{"status"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		store = nil
	})

	err := rootCmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "sqlite") {
		t.Errorf("error = %v", err)
	}
}
