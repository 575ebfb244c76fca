package useCases

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/larriantoniy/alexa_ctl/internal/domain"
	"github.com/larriantoniy/alexa_ctl/internal/ports"
)

// Registry лениво получает список устройств аккаунта и держит его
// до конца процесса. Сам по себе кеш не сбрасывается, только Invalidate.
type Registry struct {
	transport  ports.Transport
	snapshot   ports.DeviceCache // может быть nil
	devicesURL string
	log        *slog.Logger

	mu      sync.RWMutex
	devices []domain.Device
	loaded  bool
	group   singleflight.Group
}

type RegistryOption func(*Registry)

// WithSnapshotCache подключает внешний снимок устройств (Redis).
func WithSnapshotCache(c ports.DeviceCache) RegistryOption {
	return func(r *Registry) { r.snapshot = c }
}

func NewRegistry(transport ports.Transport, devicesURL string, log *slog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{transport: transport, devicesURL: devicesURL, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Devices returns the cached list, fetching it on first use.
// Concurrent first callers share a single fetch.
func (r *Registry) Devices(ctx context.Context) ([]domain.Device, error) {
	if devices, ok := r.cached(); ok {
		return devices, nil
	}

	v, err, _ := r.group.Do("devices", func() (any, error) {
		if devices, ok := r.cached(); ok {
			return devices, nil
		}
		devices, err := r.load(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.devices = devices
		r.loaded = true
		r.mu.Unlock()
		return devices, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]domain.Device)), nil
}

func (r *Registry) cached() ([]domain.Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, false
	}
	return slices.Clone(r.devices), true
}

// DeviceAt ищет устройство по позиции (с нуля).
func (r *Registry) DeviceAt(ctx context.Context, index int) (domain.Device, error) {
	devices, err := r.Devices(ctx)
	if err != nil {
		return domain.Device{}, err
	}
	if index < 0 || index >= len(devices) {
		return domain.Device{}, fmt.Errorf("%w: %d (have %d devices)", domain.ErrIndexOutOfRange, index, len(devices))
	}
	return devices[index], nil
}

func (r *Registry) Attribute(ctx context.Context, index int, name string) (any, error) {
	d, err := r.DeviceAt(ctx, index)
	if err != nil {
		return nil, err
	}
	v, ok := d.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on device %d", domain.ErrAttributeMissing, name, index)
	}
	return v, nil
}

// Invalidate сбрасывает кеш процесса и снимок, следующий Devices пойдёт в сеть.
func (r *Registry) Invalidate(ctx context.Context) {
	r.mu.Lock()
	r.devices = nil
	r.loaded = false
	r.mu.Unlock()

	if r.snapshot != nil {
		if err := r.snapshot.Drop(ctx); err != nil {
			r.log.Warn("drop device snapshot", "error", err)
		}
	}
}

func (r *Registry) load(ctx context.Context) ([]domain.Device, error) {
	if r.snapshot != nil {
		devices, ok, err := r.snapshot.Get(ctx)
		switch {
		case err != nil:
			r.log.Warn("device snapshot unavailable, fetching from alexa", "error", err)
		case ok:
			r.log.Debug("devices loaded from snapshot", "count", len(devices))
			return devices, nil
		}
	}

	devices, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if r.snapshot != nil {
		if err := r.snapshot.Put(ctx, devices); err != nil {
			r.log.Warn("store device snapshot", "error", err)
		}
	}
	return devices, nil
}

func (r *Registry) fetch(ctx context.Context) ([]domain.Device, error) {
	res, err := r.transport.Send(ctx, http.MethodGet, r.devicesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}
	if res.Kind != domain.ResultJSON {
		return nil, fmt.Errorf("%w: devices response is not JSON", domain.ErrUnexpectedResponse)
	}

	obj, ok := res.JSON.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: devices response is %T", domain.ErrUnexpectedResponse, res.JSON)
	}
	list, ok := obj["devices"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: no devices list", domain.ErrUnexpectedResponse)
	}

	devices := make([]domain.Device, 0, len(list))
	for i, item := range list {
		raw, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: device %d is %T", domain.ErrUnexpectedResponse, i, item)
		}
		devices = append(devices, domain.DeviceFromRaw(raw))
	}

	r.log.Debug("devices fetched", "count", len(devices))
	return devices, nil
}
