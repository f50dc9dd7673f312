package navigation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/filescope/filescope/internal/providers/settings"
)

// Known-folder aliases and their default subdirectory under home. The
// empty value means home itself.
var knownFolders = map[string]string{
	"home":      "",
	"desktop":   "Desktop",
	"documents": "Documents",
	"downloads": "Downloads",
	"pictures":  "Pictures",
	"music":     "Music",
	"videos":    "Videos",
}

// Validation is the verdict on a candidate navigation target.
type Validation struct {
	Path   string `json:"path"`
	Valid  bool   `json:"valid"`
	Exists bool   `json:"exists"`
	IsDir  bool   `json:"is_dir"`
	Reason string `json:"reason,omitempty"`
}

// Guard vets navigation targets before the UI jumps to them and resolves
// known-folder aliases, honoring user overrides from the settings store.
type Guard struct {
	store *settings.Store

	// Injectable for tests.
	homeDir func() (string, error)
}

// NewGuard creates a guard. store may be nil when no overrides exist.
func NewGuard(store *settings.Store) *Guard {
	return &Guard{store: store, homeDir: os.UserHomeDir}
}

// Validate checks that path is absolute and names an existing directory.
// A file path comes back with Valid false but Exists true so callers can
// offer to open the file instead.
func (g *Guard) Validate(path string) Validation {
	if strings.TrimSpace(path) == "" {
		return Validation{Path: path, Reason: "empty path"}
	}
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return Validation{Path: clean, Reason: "path must be absolute"}
	}

	info, err := os.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return Validation{Path: clean, Reason: "path does not exist"}
		}
		return Validation{Path: clean, Reason: err.Error()}
	}
	if !info.IsDir() {
		return Validation{Path: clean, Exists: true, Reason: "path is not a directory"}
	}
	return Validation{Path: clean, Valid: true, Exists: true, IsDir: true}
}

// Resolve maps a known-folder alias to its absolute path. User overrides
// win; otherwise the alias lands under the home directory. Unknown
// aliases error rather than guessing.
func (g *Guard) Resolve(alias string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(alias))
	sub, ok := knownFolders[name]
	if !ok {
		return "", fmt.Errorf("unknown folder alias: %q", alias)
	}

	if g.store != nil {
		if override, ok := g.store.KnownFolder(name); ok {
			return filepath.Clean(override), nil
		}
	}

	home, err := g.homeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	if sub == "" {
		return home, nil
	}
	return filepath.Join(home, sub), nil
}

// Aliases lists every supported alias with its current resolution.
func (g *Guard) Aliases() map[string]string {
	out := make(map[string]string, len(knownFolders))
	for name := range knownFolders {
		if path, err := g.Resolve(name); err == nil {
			out[name] = path
		}
	}
	return out
}
