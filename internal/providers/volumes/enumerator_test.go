package volumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnumerator(t *testing.T) *Enumerator {
	t.Helper()
	e := NewEnumerator(Options{TTL: time.Minute, QueryTimeout: 100 * time.Millisecond})
	e.capacityQuery = func(ctx context.Context) ([]Info, error) {
		return []Info{
			{Label: "data", MountPath: "/mnt/data", Device: "/dev/sdb1", Filesystem: "ext4", CapacityBytes: 500, UsedBytes: 100, AvailableBytes: 400},
			{Label: "System", MountPath: "/", Device: "/dev/sda1", Filesystem: "ext4", CapacityBytes: 1000, UsedBytes: 600, AvailableBytes: 400},
		}, nil
	}
	e.deviceQuery = func(ctx context.Context) ([]DeviceMeta, error) {
		return []DeviceMeta{
			{MountPath: "/mnt/data", Label: "Backups", BusType: "usb", USB: true, Removable: true},
		}, nil
	}
	return e
}

func TestListMergesAndSorts(t *testing.T) {
	e := testEnumerator(t)

	vols := e.List(context.Background())
	require.Len(t, vols, 2)

	assert.Equal(t, "/", vols[0].MountPath)
	assert.Equal(t, "System", vols[0].Label)

	// Device label overrides the capacity-derived one.
	assert.Equal(t, "/mnt/data", vols[1].MountPath)
	assert.Equal(t, "Backups", vols[1].Label)
	assert.Equal(t, "usb", vols[1].BusType)
	assert.True(t, vols[1].Flags.USB)
	assert.True(t, vols[1].Flags.Removable)
}

func TestListFiltersUnusableMounts(t *testing.T) {
	e := testEnumerator(t)
	e.capacityQuery = func(ctx context.Context) ([]Info, error) {
		return []Info{
			{MountPath: "/good", CapacityBytes: 10},
			{MountPath: "/empty", CapacityBytes: 0},
			{MountPath: "", CapacityBytes: 10},
		}, nil
	}

	vols := e.List(context.Background())
	require.Len(t, vols, 1)
	assert.Equal(t, "/good", vols[0].MountPath)
}

func TestListServesCacheUntilRefresh(t *testing.T) {
	e := testEnumerator(t)
	calls := 0
	base := e.capacityQuery
	e.capacityQuery = func(ctx context.Context) ([]Info, error) {
		calls++
		return base(ctx)
	}

	e.List(context.Background())
	e.List(context.Background())
	assert.Equal(t, 1, calls)

	e.Refresh()
	e.List(context.Background())
	assert.Equal(t, 2, calls)
}

func TestListTimeoutServesStale(t *testing.T) {
	e := testEnumerator(t)

	// Prime the cache, then make both queries hang.
	first := e.List(context.Background())
	require.Len(t, first, 2)

	hang := func(ctx context.Context) ([]Info, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	e.capacityQuery = hang
	e.deviceQuery = func(ctx context.Context) ([]DeviceMeta, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	e.Refresh()

	stale := e.List(context.Background())
	assert.Equal(t, first, stale, "stale data should be served on timeout")
}

func TestListTimeoutWithoutHistoryReturnsEmpty(t *testing.T) {
	e := testEnumerator(t)
	e.capacityQuery = func(ctx context.Context) ([]Info, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	vols := e.List(context.Background())
	assert.Empty(t, vols)
	assert.NotNil(t, vols)
}

func TestListCapacityFailureServesStale(t *testing.T) {
	e := testEnumerator(t)

	first := e.List(context.Background())
	require.Len(t, first, 2)

	failures := 0
	e.capacityQuery = func(ctx context.Context) ([]Info, error) {
		failures++
		return nil, errors.New("statfs: input/output error")
	}
	e.Refresh()

	stale := e.List(context.Background())
	assert.Equal(t, first, stale, "a failing capacity query should not replace the last good result")

	// The failure must not be cached: the next List retries the query.
	e.List(context.Background())
	assert.Equal(t, 2, failures)
}

func TestListDeviceQueryFailureIsNonFatal(t *testing.T) {
	e := testEnumerator(t)
	e.deviceQuery = func(ctx context.Context) ([]DeviceMeta, error) {
		return nil, errors.New("udev unavailable")
	}

	vols := e.List(context.Background())
	require.Len(t, vols, 2)
	// Capacity-derived label survives when metadata is missing.
	assert.Equal(t, "data", vols[1].Label)
}

func TestRenameRequiresElevation(t *testing.T) {
	e := testEnumerator(t)
	e.elevated = func() bool { return false }

	err := e.Rename(context.Background(), "/mnt/data", "Archive")
	assert.ErrorIs(t, err, ErrNeedsElevation)
}

func TestRenameInvalidatesCache(t *testing.T) {
	e := testEnumerator(t)
	e.elevated = func() bool { return true }

	var gotDevice, gotLabel string
	e.relabel = func(ctx context.Context, device, filesystem, label string) error {
		gotDevice, gotLabel = device, label
		return nil
	}

	calls := 0
	base := e.capacityQuery
	e.capacityQuery = func(ctx context.Context) ([]Info, error) {
		calls++
		return base(ctx)
	}

	require.NoError(t, e.Rename(context.Background(), "/mnt/data", "Archive"))
	assert.Equal(t, "/dev/sdb1", gotDevice)
	assert.Equal(t, "Archive", gotLabel)

	e.List(context.Background())
	assert.Equal(t, 2, calls, "rename should drop the cached enumeration")
}

func TestRenameUnknownMount(t *testing.T) {
	e := testEnumerator(t)
	e.elevated = func() bool { return true }

	err := e.Rename(context.Background(), "/mnt/missing", "X")
	assert.Error(t, err)
}

func TestProviderRename(t *testing.T) {
	e := testEnumerator(t)
	e.elevated = func() bool { return false }
	p := NewProvider(e)

	res, err := p.Execute(context.Background(), "volumes.rename", map[string]interface{}{
		"mount_path": "/mnt/data",
		"label":      "Archive",
	}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, true, res.Data["needs_elevation"])
}

func TestProviderList(t *testing.T) {
	p := NewProvider(testEnumerator(t))

	res, err := p.Execute(context.Background(), "volumes.list", nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Data["count"])
}
