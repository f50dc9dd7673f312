//go:build darwin

package shell

func openCommand(path string) (string, []string) {
	return "open", []string{path}
}

func revealCommand(path string) (string, []string) {
	return "open", []string{"-R", path}
}
