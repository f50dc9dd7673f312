// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Example Usage:
//
//	log := logging.NewDefault()
//	defer log.Sync()
//
//	log.Info("Scan complete",
//		zap.String("path", path),
//		zap.Int("entries", count),
//	)
package logging
