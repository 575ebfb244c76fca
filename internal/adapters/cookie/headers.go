package cookie

import (
	"log/slog"

	"github.com/larriantoniy/alexa_ctl/internal/domain"
	"github.com/larriantoniy/alexa_ctl/internal/ports"
)

// Заголовки как у обычного браузера, иначе alexa.amazon.com отвечает ошибкой.
var browserHeaders = map[string]string{
	"Accept-Encoding": "gzip, deflate, br",
	"Accept-Language": "en-US,en;q=0.9",
	"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/51.0.2704.103 Safari/537.36",
	"Referer":         "https://alexa.amazon.com/spa/index.html",
	"Content-Type":    "application/json; charset=UTF-8",
	"Connection":      "keep-alive",
}

const (
	HeaderCookie = "Cookie"
	HeaderCSRF   = "csrf"
)

// HeaderBuilder собирает заголовки заново на каждый запрос,
// чтобы обновлённый файл сессии подхватывался без перезапуска.
type HeaderBuilder struct {
	store  ports.SessionStore
	logger *slog.Logger
}

func NewHeaderBuilder(store ports.SessionStore, logger *slog.Logger) *HeaderBuilder {
	return &HeaderBuilder{store: store, logger: logger}
}

func (b *HeaderBuilder) Build(requireCSRF bool) (domain.Headers, error) {
	session, err := b.store.Load()
	if err != nil {
		return nil, err
	}

	h := make(domain.Headers, len(browserHeaders)+2)
	for k, v := range browserHeaders {
		h[k] = v
	}
	h[HeaderCookie] = session.CookieString()

	csrf, err := session.CSRF()
	switch {
	case err == nil:
		h[HeaderCSRF] = csrf
	case requireCSRF:
		return nil, err
	default:
		b.logger.Warn("csrf cookie missing, sending read-only request without it")
	}

	return h, nil
}

var _ ports.HeaderBuilder = (*HeaderBuilder)(nil)
