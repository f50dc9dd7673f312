//go:build !windows

package volumes

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

func isElevated() bool {
	return os.Geteuid() == 0
}

// relabelVolume shells out to the platform labeling tool. Root is already
// verified by the caller.
func relabelVolume(ctx context.Context, device, filesystem, label string) error {
	var cmd *exec.Cmd
	switch {
	case runtime.GOOS == "darwin":
		cmd = exec.CommandContext(ctx, "diskutil", "rename", device, label)
	case filesystem == "ext2" || filesystem == "ext3" || filesystem == "ext4":
		cmd = exec.CommandContext(ctx, "e2label", device, label)
	case filesystem == "vfat" || filesystem == "exfat":
		cmd = exec.CommandContext(ctx, "fatlabel", device, label)
	case filesystem == "ntfs":
		cmd = exec.CommandContext(ctx, "ntfslabel", device, label)
	default:
		return fmt.Errorf("no labeling tool for filesystem %q", filesystem)
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %s", err, string(out))
	}
	return nil
}
