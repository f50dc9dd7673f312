// Package server wires configuration, providers, middleware, and routes
// into a runnable HTTP server.
package server
