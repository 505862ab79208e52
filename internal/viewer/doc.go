// Package viewer provides single-item navigation for the /view/{id} page:
// locating an item by id, stepping to neighbours by catalog index and
// resolving keyboard bindings.
package viewer
