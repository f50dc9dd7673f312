// Package providers implements the file management service providers.
//
// Each provider exposes a set of tools through a standardized
// interface and registers with the service registry, which routes
// dotted tool IDs like "fs.list" to the owning provider.
//
// Available Providers:
//   - Scanner: Directory listings with sorting, filtering, and batching
//   - Analyzer: Recursive folder size and composition analysis
//   - Volumes: Mounted volume enumeration with device metadata
//   - Transfer: Copy, move, delete, rename, and archive operations
//   - Clipboard: File staging for copy/cut and paste
//   - Navigation: Path validation and known folder resolution
//   - Settings: Persisted user preferences
//
// Provider Interface:
//   - Definition(): Returns service metadata and tool definitions
//   - Execute(): Executes a tool with parameters and context
package providers
