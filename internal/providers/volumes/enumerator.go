package volumes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/filescope/filescope/internal/cache"
	"github.com/filescope/filescope/internal/logging"
	"go.uber.org/zap"
)

const (
	// DefaultTTL is how long an enumeration stays fresh.
	DefaultTTL = 30 * time.Second

	// DefaultQueryTimeout bounds a full enumeration. Dead network mounts
	// can hang statfs for minutes; the UI would rather show stale data.
	DefaultQueryTimeout = 5 * time.Second

	cacheKey = "volumes"
)

// Enumerator discovers mounted volumes by racing two independent queries:
// a capacity query (mount table + usage) and a device metadata query
// (labels, bus type, removability). Both run under one hard timeout and
// their results merge on mount path.
type Enumerator struct {
	ttl     time.Duration
	timeout time.Duration
	cache   *cache.Cache[[]Info]
	log     *logging.Logger

	mu       sync.Mutex
	lastGood []Info

	// Injectable for tests.
	capacityQuery func(ctx context.Context) ([]Info, error)
	deviceQuery   func(ctx context.Context) ([]DeviceMeta, error)
	elevated      func() bool
	relabel       func(ctx context.Context, device, filesystem, label string) error
}

// Options configures an Enumerator. Zero values select defaults.
// Observer receives volume-cache hit/miss counts.
type Options struct {
	TTL          time.Duration
	QueryTimeout time.Duration
	Logger       *logging.Logger
	Observer     cache.Observer
}

// NewEnumerator creates an enumerator with the platform queries wired in.
func NewEnumerator(opts Options) *Enumerator {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Enumerator{
		ttl:           opts.TTL,
		timeout:       opts.QueryTimeout,
		cache:         cache.New[[]Info](opts.TTL, 1).Observe(cacheKey, opts.Observer),
		log:           opts.Logger,
		capacityQuery: capacityQuery,
		deviceQuery:   deviceQuery,
		elevated:      isElevated,
		relabel:       relabelVolume,
	}
}

// List returns the current volumes, served from cache when fresh. On a
// miss both queries race under the timeout; if they cannot finish in time
// the last good result is returned even when its TTL has lapsed.
func (e *Enumerator) List(ctx context.Context) []Info {
	if cached, ok := e.cache.Get(cacheKey); ok {
		return cached
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type capResult struct {
		infos []Info
		err   error
	}
	type devResult struct {
		metas []DeviceMeta
		err   error
	}
	capCh := make(chan capResult, 1)
	devCh := make(chan devResult, 1)

	go func() {
		infos, err := e.capacityQuery(ctx)
		capCh <- capResult{infos, err}
	}()
	go func() {
		metas, err := e.deviceQuery(ctx)
		devCh <- devResult{metas, err}
	}()

	var (
		infos  []Info
		metas  []DeviceMeta
		capErr error
	)
	for pending := 2; pending > 0; pending-- {
		select {
		case res := <-capCh:
			if res.err != nil {
				e.log.Warn("capacity query failed, serving stale data", zap.Error(res.err))
				capErr = res.err
			} else {
				infos = res.infos
			}
		case res := <-devCh:
			if res.err != nil {
				e.log.Debug("device metadata query failed", zap.Error(res.err))
			} else {
				metas = res.metas
			}
		case <-ctx.Done():
			e.log.Warn("volume enumeration timed out, serving stale data")
			return e.stale()
		}
	}

	// Without capacity data the merge would be empty; keep the last good
	// result and leave the cache alone so the next List retries.
	if capErr != nil {
		return e.stale()
	}

	volumes := merge(infos, metas)

	e.cache.Set(cacheKey, volumes)
	e.mu.Lock()
	e.lastGood = volumes
	e.mu.Unlock()
	return volumes
}

// Refresh drops the cached enumeration so the next List hits the system.
func (e *Enumerator) Refresh() {
	e.cache.Delete(cacheKey)
}

// Rename changes a volume label. Requires an elevated process; callers
// get a distinguishable error so the frontend can prompt for elevation.
func (e *Enumerator) Rename(ctx context.Context, mountPath, label string) error {
	if !e.elevated() {
		return ErrNeedsElevation
	}

	var target *Info
	for _, v := range e.List(ctx) {
		if v.MountPath == mountPath {
			vol := v
			target = &vol
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no volume mounted at %s", mountPath)
	}

	if err := e.relabel(ctx, target.Device, target.Filesystem, label); err != nil {
		return fmt.Errorf("relabel %s: %w", target.Device, err)
	}
	e.Refresh()
	return nil
}

func (e *Enumerator) stale() []Info {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastGood != nil {
		return e.lastGood
	}
	return []Info{}
}

// merge overlays device metadata onto capacity records by mount path,
// drops unusable mounts, and orders the result by mount path.
func merge(infos []Info, metas []DeviceMeta) []Info {
	byMount := make(map[string]DeviceMeta, len(metas))
	for _, m := range metas {
		byMount[m.MountPath] = m
	}

	out := make([]Info, 0, len(infos))
	for _, v := range infos {
		if v.MountPath == "" || v.CapacityBytes == 0 {
			continue
		}
		if m, ok := byMount[v.MountPath]; ok {
			if m.Label != "" {
				v.Label = m.Label
			}
			v.BusType = m.BusType
			v.DeviceDesc = m.Description
			v.Flags.Removable = v.Flags.Removable || m.Removable
			v.Flags.USB = m.USB
			v.Flags.SCSI = m.SCSI
			v.Flags.Card = m.Card
			if m.PartitionTable != "" {
				v.PartitionTable = m.PartitionTable
			}
			if m.LogicalBlockSize > 0 {
				v.LogicalBlockSize = m.LogicalBlockSize
			}
		}
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].MountPath < out[j].MountPath })
	return out
}
