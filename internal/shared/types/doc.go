// Package types provides shared data structures for the filescope backend.
//
// This package defines the core types used across all backend components:
//
//   - Service: Service provider definition
//   - Tool: Service tool specification
//   - Context: Execution context for operations
//   - Result: Standard operation result
//
// Request Types:
//   - ExecuteRequest: Service tool execution
//   - ActionRequest: Fire-and-forget shell actions
//   - WSMessage, ProgressEvent: WebSocket communication
package types
