package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound  = errors.New("session: cookie file not found")
	ErrSessionCorrupt   = errors.New("session: cookie file is not a JSON array of {name, value}")
	ErrCsrfMissing      = errors.New("session: csrf cookie missing")
	ErrTransport        = errors.New("alexa: transport error")
	ErrIndexOutOfRange  = errors.New("devices: index out of range")
	ErrAttributeMissing = errors.New("devices: attribute missing")
	ErrUnknownOperation = errors.New("unknown operation")

	ErrInvalidArgument    = errors.New("invalid argument")
	ErrMessageRequired    = errors.New("behavior: speak requires a message")
	ErrUnexpectedResponse = errors.New("alexa: unexpected response shape")
	ErrUnsupportedMethod  = errors.New("alexa: unsupported method")
)

// TransportError ошибка сети или ответ со статусом вне 2xx.
type TransportError struct {
	Method string
	URL    string
	Status int    // 0 если ответа не было
	Body   string // обрезанное тело ответа
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
