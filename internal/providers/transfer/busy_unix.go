//go:build !windows

package transfer

import (
	"errors"
	"syscall"
)

// isBusy reports whether err means the file is transiently locked by
// another process and the operation is worth retrying.
func isBusy(err error) bool {
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY)
}

// isCrossDevice reports whether err is a cross-filesystem rename failure.
func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
