// Package main is the entry point for the FileScope backend server.
//
// The server exposes file browsing, folder analysis, volume enumeration,
// transfer, clipboard, and navigation services over a REST API, with a
// WebSocket stream for transfer progress.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8090
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
