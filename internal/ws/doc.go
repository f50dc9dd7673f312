// Package ws streams transfer progress to connected clients over
// WebSocket. The hub fans events out to every subscriber; clients filter
// by transfer ID on their side.
package ws
