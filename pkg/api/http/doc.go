// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes, under the configured API prefix:
//   - Health checks (liveness)
//   - Status and readiness reports backed by a database ping
//   - Interactive API documentation and the OpenAPI description
//
// Prometheus metrics are served at /metrics outside the prefix.
package http
