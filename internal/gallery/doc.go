// Package gallery defines the records shared by the catalog, admin, session
// and viewer packages. JSON tags match the stored document layout.
package gallery
