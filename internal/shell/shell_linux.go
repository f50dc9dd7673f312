//go:build linux

package shell

import "path/filepath"

func openCommand(path string) (string, []string) {
	return "xdg-open", []string{path}
}

// Most Linux file managers lack a select flag, so reveal opens the
// containing directory.
func revealCommand(path string) (string, []string) {
	return "xdg-open", []string{filepath.Dir(path)}
}
