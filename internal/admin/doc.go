// Package admin implements the administrator panels.
//
// Each manager follows the same cycle: load its array from the key-value
// store, change a copy, write the whole array back. There are no
// transactions across panels.
//
//   - [Ads] maintains adBanners. Ad images are inlined as data URLs.
//   - [Users] maintains admins and enforces its invariants: unique
//     usernames, at least one account, superadmins cannot be removed or
//     demoted.
//   - [Media] uploads files into a blobstore.Store, generates photo
//     thumbnails, and renames, favorites or deletes catalog entries.
//   - [Settings] changes the two passwords and clears cached keys.
//
// Validation failures are [ValidationError] values that match [ErrInvalid].
package admin
