// Package http provides HTTP handlers and routing for the REST API.
//
// This package implements all HTTP endpoints using the Gin framework,
// including health checks, service execution, and desktop actions.
//
// Endpoints:
//   - Health: / and /health
//   - Services: /services, /services/execute
//   - Actions: /actions (open and reveal, fire-and-forget)
//   - Metrics: /metrics (Prometheus) and /metrics/json
//   - Stream: /stream (WebSocket transfer progress)
package http
