package ports

import "github.com/larriantoniy/alexa_ctl/internal/domain"

// SessionStore отдаёт захваченную сессию. Каждый вызов читает источник заново.
type SessionStore interface {
	Load() (*domain.Session, error)
}

// HeaderBuilder собирает заголовки запроса из актуальной сессии.
// requireCSRF выставляется для изменяющих (POST) запросов.
type HeaderBuilder interface {
	Build(requireCSRF bool) (domain.Headers, error)
}
