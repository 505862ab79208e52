// Package middleware provides HTTP middleware for the gallery server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with identifier-free path labels
//   - gzip compression of JSON and page assets
package middleware
