package transfer

import "context"

// Method records which code path moved the bytes.
type Method string

const (
	MethodExternal Method = "external"
	MethodDirect   Method = "direct"
	MethodRename   Method = "rename"
)

// ItemResult is the outcome for one source item. A batch never aborts on
// a failing item; callers get one result per input.
type ItemResult struct {
	Path         string `json:"path"`
	Destination  string `json:"destination,omitempty"`
	Success      bool   `json:"success"`
	Bytes        int64  `json:"bytes"`
	Files        int    `json:"files"`
	Method       Method `json:"method"`
	FallbackUsed bool   `json:"fallback_used"`
	Error        string `json:"error,omitempty"`
}

// Progress is a point-in-time snapshot emitted while a backend works.
type Progress struct {
	CurrentFile      string
	BytesTransferred int64
	FilesTransferred int
	BytesPerSecond   float64
	ETASeconds       float64
}

// ProgressFunc receives progress snapshots. Implementations must be fast;
// backends call it from their transfer loop.
type ProgressFunc func(Progress)

// Backend moves one source to one destination. Copy and Move operate on
// files and directories alike.
type Backend interface {
	Name() string
	Available() bool
	Copy(ctx context.Context, src, dst string, notify ProgressFunc) (int64, int, error)
	Move(ctx context.Context, src, dst string, notify ProgressFunc) (int64, int, error)
}
