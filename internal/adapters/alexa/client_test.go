package alexa

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larriantoniy/alexa_ctl/internal/config"
	"github.com/larriantoniy/alexa_ctl/internal/domain"
)

type staticHeaders struct {
	headers domain.Headers
	csrf    bool
}

func (s staticHeaders) Build(requireCSRF bool) (domain.Headers, error) {
	if requireCSRF && !s.csrf {
		return nil, domain.ErrCsrfMissing
	}
	out := domain.Headers{}
	for k, v := range s.headers {
		out[k] = v
	}
	if s.csrf {
		out["csrf"] = "tok-1"
	}
	return out, nil
}

func newTestClient(h staticHeaders) *Client {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(&config.AppConfig{}, h, log)
}

func defaultHeaders() staticHeaders {
	return staticHeaders{
		headers: domain.Headers{"Cookie": "a=1; csrf=tok-1; ", "Accept-Encoding": "gzip, deflate, br"},
		csrf:    true,
	}
}

func TestSend_GetDecodesJSONAndAttachesHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/devices-v2/device", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("cached"))
		assert.Equal(t, "a=1; csrf=tok-1; ", r.Header.Get("Cookie"))
		assert.Equal(t, "tok-1", r.Header.Get("csrf"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"devices":[{"serialNumber":"S1"}]}`)
	}))
	defer srv.Close()

	res, err := newTestClient(defaultHeaders()).Send(context.Background(), http.MethodGet, domain.NewEndpoints(srv.URL).Devices, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultJSON, res.Kind)
	assert.Equal(t, http.StatusOK, res.Status)

	obj, ok := res.JSON.(map[string]any)
	require.True(t, ok)
	assert.Len(t, obj["devices"], 1)
}

func TestSend_PostBodyVerbatim(t *testing.T) {
	payload := []byte(`{"behaviorId":"PREVIEW","sequenceJson":"{\"a\":1}","status":"ENABLED"}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, payload, body)
		assert.Equal(t, "tok-1", r.Header.Get("csrf"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := newTestClient(defaultHeaders()).Send(context.Background(), http.MethodPost, srv.URL, payload)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultText, res.Kind)
	assert.Equal(t, "", res.Text)
}

func TestSend_NonJSONIsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json")
	}))
	defer srv.Close()

	res, err := newTestClient(defaultHeaders()).Send(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultText, res.Kind)
	assert.Equal(t, "not json", res.Text)
}

func TestSend_Non2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "<html>sign in</html>")
	}))
	defer srv.Close()

	_, err := newTestClient(defaultHeaders()).Send(context.Background(), http.MethodGet, srv.URL, nil)
	require.ErrorIs(t, err, domain.ErrTransport)

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.Status)
	assert.Contains(t, te.Body, "sign in")
}

func TestSend_Non2xxBodyIsOneLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "<html>\r\n  <body>sign in</body>\n</html>\n")
	}))
	defer srv.Close()

	_, err := newTestClient(defaultHeaders()).Send(context.Background(), http.MethodGet, srv.URL, nil)

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "<html> <body>sign in</body> </html>", te.Body)
	assert.NotContains(t, err.Error(), "\n")
}

func TestSend_Non2xxBodyTruncatedOnRuneBoundary(t *testing.T) {
	// "я" два байта, нечётный сдвиг ставит лимит посреди символа
	body := "x" + strings.Repeat("я", errorBodyLimit)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	_, err := newTestClient(defaultHeaders()).Send(context.Background(), http.MethodGet, srv.URL, nil)

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, utf8.ValidString(te.Body))
	assert.LessOrEqual(t, len(te.Body), errorBodyLimit)
	assert.Equal(t, errorBodyLimit-1, len(te.Body))
	assert.True(t, strings.HasPrefix(body, te.Body))
}

func TestSend_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(defaultHeaders()).Send(context.Background(), http.MethodGet, url, nil)
	require.ErrorIs(t, err, domain.ErrTransport)

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.Status)
}

func TestSend_PostWithoutCSRFNeverHitsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	h := defaultHeaders()
	h.csrf = false
	_, err := newTestClient(h).Send(context.Background(), http.MethodPost, srv.URL, []byte("{}"))
	assert.ErrorIs(t, err, domain.ErrCsrfMissing)
	assert.Zero(t, hits.Load())
}

func TestSend_UnsupportedMethod(t *testing.T) {
	_, err := newTestClient(defaultHeaders()).Send(context.Background(), http.MethodDelete, "http://127.0.0.1:1", nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedMethod)
}

func TestSend_DecodesCompressedBodies(t *testing.T) {
	payload := []byte(`{"ok":true}`)

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write(payload)
	require.NoError(t, zw.Close())

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	_, _ = bw.Write(payload)
	require.NoError(t, bw.Close())

	var zl bytes.Buffer
	lw := zlib.NewWriter(&zl)
	_, _ = lw.Write(payload)
	require.NoError(t, lw.Close())

	var raw bytes.Buffer
	fw, err := flate.NewWriter(&raw, flate.DefaultCompression)
	require.NoError(t, err)
	_, _ = fw.Write(payload)
	require.NoError(t, fw.Close())

	cases := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{"gzip", "gzip", gz.Bytes()},
		{"br", "br", br.Bytes()},
		{"deflate zlib", "deflate", zl.Bytes()},
		{"deflate raw", "deflate", raw.Bytes()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", tc.encoding)
				_, _ = w.Write(tc.body)
			}))
			defer srv.Close()

			res, err := newTestClient(defaultHeaders()).Send(context.Background(), http.MethodGet, srv.URL, nil)
			require.NoError(t, err)
			require.Equal(t, domain.ResultJSON, res.Kind)
			assert.Equal(t, map[string]any{"ok": true}, res.JSON)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	_, ok := decodeJSON([]byte("   "))
	assert.False(t, ok)
	_, ok = decodeJSON([]byte(`{"a":1} trailing`))
	assert.False(t, ok)
	v, ok := decodeJSON([]byte(` [1, "x"] `))
	assert.True(t, ok)
	assert.Len(t, v, 2)
}
