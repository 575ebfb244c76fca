package alexa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/larriantoniy/alexa_ctl/internal/config"
	"github.com/larriantoniy/alexa_ctl/internal/domain"
	"github.com/larriantoniy/alexa_ctl/internal/ports"
)

// сколько тела ответа сохраняем в TransportError
const errorBodyLimit = 2048

// Client ходит в alexa.amazon.com с заголовками из захваченной сессии.
type Client struct {
	client  *http.Client
	headers ports.HeaderBuilder
	logger  *slog.Logger
}

func NewClient(cfg *config.AppConfig, headers ports.HeaderBuilder, logger *slog.Logger) *Client {
	return &Client{
		// Timeout 0 значит ждать до конца, как и без конфига
		client:  &http.Client{Timeout: cfg.HTTP.Timeout},
		headers: headers,
		logger:  logger,
	}
}

// Send выполняет GET или POST. Тело POST уже закодировано вызывающим.
// Ответ, который не разбирается как JSON, возвращается текстом, это не ошибка.
func (c *Client) Send(ctx context.Context, method, url string, body []byte) (*domain.Result, error) {
	var reader io.Reader
	switch method {
	case http.MethodGet:
	case http.MethodPost:
		reader = bytes.NewReader(body)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMethod, method)
	}

	headers, err := c.headers.Build(method == http.MethodPost)
	if err != nil {
		return nil, fmt.Errorf("build headers: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("HTTP request to alexa failed", "method", method, "url", url, "error", err)
		if ctx.Err() == nil {
			checkReachability(ctx, c.logger, url)
		}
		return nil, &domain.TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Status code", slog.Int("status", resp.StatusCode), slog.String("url", url))

	data, err := readBody(resp)
	if err != nil {
		return nil, &domain.TransportError{Method: method, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := errorSnippet(data)
		c.logger.Error("Alexa API returned error", "status", resp.StatusCode, "body", text)
		return nil, &domain.TransportError{
			Method: method,
			URL:    url,
			Status: resp.StatusCode,
			Body:   text,
			Err:    fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	if v, ok := decodeJSON(data); ok {
		return &domain.Result{Kind: domain.ResultJSON, Status: resp.StatusCode, JSON: v}, nil
	}

	c.logger.Debug("Response either doesn't contain JSON or could not be parsed, returning raw content")
	return &domain.Result{Kind: domain.ResultText, Status: resp.StatusCode, Text: string(data)}, nil
}

// errorSnippet сводит тело ответа в одну строку и обрезает по границе символа.
func errorSnippet(data []byte) string {
	text := strings.Join(strings.Fields(string(data)), " ")
	if len(text) <= errorBodyLimit {
		return text
	}
	cut := errorBodyLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func decodeJSON(data []byte) (any, bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// мусор после первого значения - значит это не JSON
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

var _ ports.Transport = (*Client)(nil)
