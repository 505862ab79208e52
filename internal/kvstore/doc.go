// Package kvstore holds the gallery's shared key-value namespace.
//
// Every piece of persistent state (catalog, ads, admin accounts, session
// flags, visit counters, passwords) lives under one key as one JSON
// document. Components receive a Store rather than reaching for a global,
// and use GetJSON/SetJSON to move typed values in and out.
//
// Two implementations are provided:
//
//   - SQLite: durable, one row per key in a WAL-mode database.
//   - Memory: a map, used by tests and by STORE_BACKEND=memory.
//
// Writes are atomic per key; there are no multi-key transactions and the
// last writer wins. Subscribe delivers the key name after each write so
// that components caching state (the session manager) can reload it.
//
// A value that fails to decode is reported as ErrMalformed and is never
// silently replaced by a default.
package kvstore
