//go:build linux

package volumes

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// deviceQuery walks /sys/block for bus topology and asks udev for labels.
// Fields that cannot be read stay zero; the merge treats them as optional.
func deviceQuery(ctx context.Context) ([]DeviceMeta, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	metas := make([]DeviceMeta, 0, len(parts))
	for _, p := range parts {
		if !strings.HasPrefix(p.Device, "/dev/") {
			continue
		}
		name := strings.TrimPrefix(p.Device, "/dev/")
		parent := parentDisk(name)

		meta := DeviceMeta{MountPath: p.Mountpoint}
		if label, err := disk.LabelWithContext(ctx, name); err == nil {
			meta.Label = label
		}
		meta.Removable = readSysFlag(parent, "removable")
		meta.LogicalBlockSize = readSysInt(parent, "queue/logical_block_size")
		meta.Description = readSysString(parent, "device/model")

		meta.BusType = busType(parent)
		switch meta.BusType {
		case "usb":
			meta.USB = true
		case "scsi", "sata":
			meta.SCSI = true
		case "mmc":
			meta.Card = true
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// parentDisk strips the partition suffix: sda1 -> sda, nvme0n1p2 -> nvme0n1,
// mmcblk0p1 -> mmcblk0.
func parentDisk(name string) string {
	if strings.HasPrefix(name, "nvme") || strings.HasPrefix(name, "mmcblk") {
		if i := strings.LastIndex(name, "p"); i > 0 {
			if _, err := strconv.Atoi(name[i+1:]); err == nil {
				return name[:i]
			}
		}
		return name
	}
	return strings.TrimRight(name, "0123456789")
}

// busType inspects the resolved /sys/block symlink, which encodes the bus
// the disk hangs off.
func busType(disk string) string {
	target, err := filepath.EvalSymlinks(filepath.Join("/sys/block", disk))
	if err != nil {
		return ""
	}
	switch {
	case strings.Contains(target, "/usb"):
		return "usb"
	case strings.Contains(target, "/nvme"):
		return "nvme"
	case strings.Contains(target, "/mmc"):
		return "mmc"
	case strings.Contains(target, "/ata"):
		return "sata"
	case strings.Contains(target, "/scsi"):
		return "scsi"
	case strings.Contains(target, "/virtio"):
		return "virtio"
	}
	return ""
}

func readSysFlag(disk, rel string) bool {
	return readSysString(disk, rel) == "1"
}

func readSysInt(disk, rel string) int {
	n, err := strconv.Atoi(readSysString(disk, rel))
	if err != nil {
		return 0
	}
	return n
}

func readSysString(disk, rel string) string {
	data, err := os.ReadFile(filepath.Join("/sys/block", disk, rel))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
