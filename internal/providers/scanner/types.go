package scanner

import "time"

// SortField selects the listing sort key.
type SortField string

const (
	SortByName     SortField = "name"
	SortBySize     SortField = "size"
	SortByModified SortField = "modified"
)

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Permissions holds the effective owner permission bits of an entry.
type Permissions struct {
	Read    bool `json:"read"`
	Write   bool `json:"write"`
	Execute bool `json:"execute"`
}

// Entry describes a single directory entry. Entries are built fresh per
// scan and never mutated after construction.
type Entry struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	IsDir       bool        `json:"is_dir"`
	Size        int64       `json:"size"`
	Modified    time.Time   `json:"modified"`
	Created     time.Time   `json:"created"`
	Extension   string      `json:"extension,omitempty"`
	Hidden      bool        `json:"hidden"`
	System      bool        `json:"system"`
	Permissions Permissions `json:"permissions"`
}

// Listing is the result of scanning one directory. TotalCount reflects
// the raw enumeration count even when MaxItems truncated the entries.
// ParentPath is empty when Path is a filesystem root.
type Listing struct {
	Entries    []Entry `json:"entries"`
	TotalCount int     `json:"total_count"`
	Path       string  `json:"path"`
	ParentPath string  `json:"parent_path,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// ListOptions controls filtering, ordering and truncation of a listing.
type ListOptions struct {
	IncludeHidden bool
	SortBy        SortField
	SortDirection SortDirection
	MaxItems      int
}
