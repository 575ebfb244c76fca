package ports

import (
	"context"

	"github.com/larriantoniy/alexa_ctl/internal/domain"
)

// Transport определяет интерфейс вызова Alexa API.
// body уже закодирован вызывающим и уходит как есть.
type Transport interface {
	Send(ctx context.Context, method, url string, body []byte) (*domain.Result, error)
}
