package useCases

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/larriantoniy/alexa_ctl/internal/domain"
)

type sentRequest struct {
	method string
	url    string
	body   []byte
}

// fakeTransport отвечает списком устройств на GET и пустым текстом на POST.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentRequest
	devices  []map[string]any
	getErr   error
	postText string
}

func (f *fakeTransport) Send(_ context.Context, method, url string, body []byte) (*domain.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentRequest{method: method, url: url, body: body})

	if method == http.MethodGet {
		if f.getErr != nil {
			return nil, f.getErr
		}
		list := make([]any, 0, len(f.devices))
		for _, d := range f.devices {
			list = append(list, d)
		}
		return &domain.Result{Kind: domain.ResultJSON, Status: 200, JSON: map[string]any{"devices": list}}, nil
	}
	return &domain.Result{Kind: domain.ResultText, Status: 200, Text: f.postText}, nil
}

func (f *fakeTransport) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.sent {
		if r.method == method {
			n++
		}
	}
	return n
}

func (f *fakeTransport) lastPost() (sentRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].method == http.MethodPost {
			return f.sent[i], true
		}
	}
	return sentRequest{}, false
}

func twoDevices() []map[string]any {
	return []map[string]any{
		{"accountName": "Kitchen", "deviceType": "A3S5", "serialNumber": "ABC123", "deviceOwnerCustomerId": "CUST1", "online": true},
		{"accountName": "Bedroom", "deviceType": "A1RA", "serialNumber": "XYZ789", "deviceOwnerCustomerId": "CUST1"},
	}
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var endpoints = domain.NewEndpoints("https://alexa.test")

// memCache простая реализация ports.DeviceCache в памяти
type memCache struct {
	data  []byte
	gets  int
	puts  int
	drops int
}

func (m *memCache) Get(context.Context) ([]domain.Device, bool, error) {
	m.gets++
	if m.data == nil {
		return nil, false, nil
	}
	var out []domain.Device
	if err := json.Unmarshal(m.data, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (m *memCache) Put(_ context.Context, devices []domain.Device) error {
	m.puts++
	data, err := json.Marshal(devices)
	m.data = data
	return err
}

func (m *memCache) Drop(context.Context) error {
	m.drops++
	m.data = nil
	return nil
}
