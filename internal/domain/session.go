package domain

import "strings"

// CSRFCookie имя записи сессии, в которой Amazon хранит csrf-токен.
const CSRFCookie = "csrf"

// Cookie одна запись из выгрузки браузерной сессии.
// Остальные поля экспорта (domain, path, expirationDate...) нам не нужны.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session описывает захваченную браузерную сессию alexa.amazon.com.
// Порядок записей сохраняется как в файле.
type Session struct {
	Cookies []Cookie
}

// Headers заголовки одного HTTP-запроса к Alexa.
type Headers map[string]string

// Get возвращает значение первой записи с именем name.
func (s *Session) Get(name string) (string, bool) {
	for _, c := range s.Cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// CSRF returns the csrf token or ErrCsrfMissing.
func (s *Session) CSRF() (string, error) {
	v, ok := s.Get(CSRFCookie)
	if !ok {
		return "", ErrCsrfMissing
	}
	return v, nil
}

// CookieString склеивает записи в "name=value; " без перестановок.
func (s *Session) CookieString() string {
	var b strings.Builder
	for _, c := range s.Cookies {
		b.WriteString(c.Name)
		b.WriteByte('=')
		b.WriteString(c.Value)
		b.WriteString("; ")
	}
	return b.String()
}
