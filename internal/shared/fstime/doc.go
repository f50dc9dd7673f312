// Package fstime exposes platform-specific file timestamps.
package fstime
