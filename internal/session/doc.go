// Package session implements the gallery's shared-password gate.
//
// There is one session per process, described by two flags: authenticated
// and admin. Passwords are stored as plain strings under the
// frontendPassword and adminPassword keys and compared by equality; while a
// key is absent its default applies ("123456" for the front end, "admin123"
// for the admin area).
//
// The flags are written to the auth key on every change and restored from it
// at startup without further checks. Anyone able to edit the store can
// therefore grant themselves a session; that is the intended trust model.
package session
