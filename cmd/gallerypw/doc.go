// Command gallerypw manages the Photo Gallery passwords from the command
// line.
//
// It supports the following operations:
//   - reset: Set a new front-end (or, with --gate admin, admin) password
//   - status: Show whether each password is stored or still the default
//
// Usage:
//
//	gallerypw [--config path] <command>
//
// Commands:
//
//	reset [--gate frontend|admin]
//	                 Prompt twice for a new password of at least six
//	                 characters and store it. The persisted session is
//	                 signed out so the next visitor must log in again; a
//	                 running server re-reads it on its next gated request.
//	                 --admin is a deprecated alias for --gate admin.
//
//	status           Report, per gate, whether a password has been stored
//	                 or the built-in default still applies, and print the
//	                 persisted session flags.
//
// Configuration is read exactly as the server reads it (defaults, YAML file,
// environment), so DATA_DIR and CONFIG_FILE select the same SQLite store.
// The memory store backend is rejected since nothing it holds outlives the
// server process.
package main
