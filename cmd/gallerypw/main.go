package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-gallery/internal/admin"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/session"
	"photo-gallery/internal/startup"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Default timeout for store operations
const defaultTimeout = 30 * time.Second

var (
	// store is opened before every subcommand and closed after it.
	store kvstore.Store
	// flagConfigPath overrides CONFIG_FILE and the XDG config location.
	flagConfigPath string
	// flagGate names the password to reset: frontend or admin.
	flagGate string
	// flagAdmin is the older spelling of --gate admin.
	flagAdmin bool

	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

// passwordReader prompts for a secret without echoing it.
type passwordReader func(prompt string) ([]byte, error)

func readTerminalPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	return pw, err
}

var rootCmd = &cobra.Command{
	Use:   "gallerypw",
	Short: "Photo Gallery password management",
	Long: `Photo Gallery password management.

Reads the same configuration as the server and edits the passwords held in
its SQLite store.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := startup.ReadConfig(flagConfigPath)
		if err != nil {
			return err
		}
		if cfg.StoreBackend != startup.BackendSQLite {
			return fmt.Errorf("store_backend is %q; only the sqlite store persists passwords", cfg.StoreBackend)
		}
		db, err := kvstore.OpenSQLite(cmd.Context(), cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open store at %s: %w", cfg.DatabasePath, err)
		}
		store = db
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set a new password and sign out the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gate, err := resolveGate(flagGate, flagAdmin)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), defaultTimeout)
		defer cancel()
		return resetPassword(ctx, store, gate, readTerminalPassword, cmd.OutOrStdout())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether each password is stored or still the default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), defaultTimeout)
		defer cancel()
		return showStatus(ctx, store, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "Path to config file")
	resetCmd.Flags().StringVarP(&flagGate, "gate", "g", string(session.GateFrontend), "Password to reset: frontend or admin")
	resetCmd.Flags().BoolVar(&flagAdmin, "admin", false, "Reset the admin password instead of the front-end password")
	_ = resetCmd.Flags().MarkDeprecated("admin", "use --gate admin")

	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errColor.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// resolveGate maps the reset flags to a gate. --admin overrides --gate.
func resolveGate(name string, admin bool) (session.Gate, error) {
	if admin {
		return session.GateAdmin, nil
	}
	return session.ParseGate(name)
}

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errPasswordTooShort = fmt.Errorf("password must be at least %d characters", admin.MinPasswordLength)
)

func resetPassword(ctx context.Context, store kvstore.Store, gate session.Gate, read passwordReader, out io.Writer) error {
	password, err := read("New Password: ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	confirm, err := read("Confirm Password: ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	if !bytes.Equal(password, confirm) {
		return errPasswordMismatch
	}
	if len(password) < admin.MinPasswordLength {
		return errPasswordTooShort
	}

	if err := session.SetPassword(ctx, store, gate, string(password)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := kvstore.SetJSON(ctx, store, kvstore.KeyAuth, gallery.SessionState{}); err != nil {
		return fmt.Errorf("failed to sign out the stored session: %w", err)
	}

	okColor.Fprintf(out, "The %s password was updated.\n", gate)
	fmt.Fprintln(out, "The stored session has been signed out. A running server applies this on its next request.")
	return nil
}

func showStatus(ctx context.Context, store kvstore.Store, out io.Writer) error {
	for _, gate := range []session.Gate{session.GateFrontend, session.GateAdmin} {
		_, stored, err := session.StoredPassword(ctx, store, gate)
		if err != nil {
			return fmt.Errorf("%s password: %w", gate, err)
		}
		if stored {
			okColor.Fprintf(out, "%-9s password is configured\n", gate)
		} else {
			warnColor.Fprintf(out, "%-9s password is the built-in default\n", gate)
		}
	}

	var st gallery.SessionState
	if _, err := kvstore.GetJSON(ctx, store, kvstore.KeyAuth, &st); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	fmt.Fprintf(out, "Session: authenticated=%v admin=%v\n", st.IsAuthenticated, st.IsAdmin)
	return nil
}
