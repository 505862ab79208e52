// Package blobstore holds uploaded media bytes.
//
// Blobs are content addressed: the key is the hex BLAKE2b-256 digest of the
// data, so duplicate uploads share one entry and keys are safe to use as file
// names. Two implementations exist. [Memory] is the default and forgets
// everything on restart, leaving catalog records whose URLs no longer
// resolve. [Disk] keeps blobs under a directory.
//
// The blob directory may sit on an NFS volume shared by several replicas.
// Disk reads that fail with a stale file handle (ESTALE) are retried with
// exponential backoff per [RetryConfig]; every other error is returned as is.
package blobstore
