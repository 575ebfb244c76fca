package ports

import (
	"context"

	"github.com/larriantoniy/alexa_ctl/internal/domain"
)

// DeviceCache хранит снимок списка устройств между запусками.
type DeviceCache interface {
	// Get возвращает ok=false, если снимка нет или он истёк
	Get(ctx context.Context) (devices []domain.Device, ok bool, err error)
	Put(ctx context.Context, devices []domain.Device) error
	Drop(ctx context.Context) error
}
