package volumes

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// ErrNeedsElevation signals that the operation requires administrator
// privileges the current process does not hold.
var ErrNeedsElevation = errors.New("operation requires elevation")

// Pseudo and overlay filesystems that are never user-facing volumes.
var skipFstypes = map[string]bool{
	"squashfs": true,
	"tmpfs":    true,
	"devtmpfs": true,
	"devfs":    true,
	"overlay":  true,
	"proc":     true,
	"sysfs":    true,
	"cgroup2":  true,
	"autofs":   true,
}

// capacityQuery reads the mount table and stats each mountpoint.
func capacityQuery(ctx context.Context) ([]Info, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(parts))
	for _, p := range parts {
		if p.Mountpoint == "" || skipFstypes[p.Fstype] {
			continue
		}
		if strings.HasPrefix(p.Mountpoint, "/snap/") || strings.HasPrefix(p.Mountpoint, "/boot/efi") {
			continue
		}

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}

		infos = append(infos, Info{
			Label:          defaultLabel(p.Mountpoint, p.Fstype),
			MountPath:      p.Mountpoint,
			Device:         p.Device,
			Filesystem:     p.Fstype,
			CapacityBytes:  usage.Total,
			UsedBytes:      usage.Used,
			AvailableBytes: usage.Free,
			UsedPercent:    usage.UsedPercent,
			Flags: Flags{
				ReadOnly: hasOpt(p.Opts, "ro"),
				System:   isSystemMount(p.Mountpoint),
				Virtual:  strings.HasPrefix(p.Device, "/dev/loop") || p.Fstype == "9p",
			},
		})
	}
	return infos, nil
}

// defaultLabel derives a display name when the device carries no label.
func defaultLabel(mountpoint, fstype string) string {
	if mountpoint == "/" || mountpoint == `C:\` || mountpoint == "C:" {
		return "System"
	}
	base := filepath.Base(mountpoint)
	if base == "" || base == string(filepath.Separator) {
		return strings.ToUpper(fstype) + " Volume"
	}
	return base
}

func hasOpt(opts []string, want string) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}

func isSystemMount(mountpoint string) bool {
	switch mountpoint {
	case "/", "/boot", "/home", "/var", `C:\`, "C:":
		return true
	}
	return false
}
