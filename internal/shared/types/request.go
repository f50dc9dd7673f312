package types

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID     string                 `json:"tool_id" binding:"required"`
	Params     map[string]interface{} `json:"params"`
	TabID      *string                `json:"tab_id,omitempty"`
	TransferID *string                `json:"transfer_id,omitempty"`
}

// ActionRequest represents a fire-and-forget action request.
// Actions are best-effort: the caller gets an immediate ack and any
// failure is logged, never returned.
type ActionRequest struct {
	Action string `json:"action" binding:"required"`
	Path   string `json:"path" binding:"required"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type       string `json:"type"`
	TransferID string `json:"transfer_id,omitempty"`
}

// ProgressEvent is pushed over the WebSocket stream while a transfer runs.
type ProgressEvent struct {
	Type             string  `json:"type"`
	TransferID       string  `json:"transfer_id"`
	CurrentFile      string  `json:"current_file,omitempty"`
	BytesTransferred int64   `json:"bytes_transferred"`
	FilesTransferred int     `json:"files_transferred"`
	BytesPerSecond   float64 `json:"bytes_per_second,omitempty"`
	ETASeconds       float64 `json:"eta_seconds,omitempty"`
	Done             bool    `json:"done"`
}
