//go:build windows

package shell

func openCommand(path string) (string, []string) {
	return "explorer", []string{path}
}

func revealCommand(path string) (string, []string) {
	return "explorer", []string{"/select,", path}
}
