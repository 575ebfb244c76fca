package alexa

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"time"
)

const dialTimeout = 3 * time.Second

// Reachability результат проверки TCP-доступности хоста Alexa.
type Reachability struct {
	Addr string
	IPv4 bool
	IPv6 bool
}

// checkReachability пробует подключиться к хосту из rawURL по IPv4 и IPv6.
// Вызывается после сетевой ошибки, чтобы в логе было видно, что именно сломалось.
func checkReachability(ctx context.Context, logger *slog.Logger, rawURL string) Reachability {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		logger.Warn("reachability check skipped, bad url", "url", rawURL, "error", err)
		return Reachability{}
	}

	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	addr := net.JoinHostPort(u.Hostname(), port)
	r := Reachability{Addr: addr}

	r.IPv4 = dial(ctx, logger, "tcp4", addr)
	r.IPv6 = dial(ctx, logger, "tcp6", addr)

	if !r.IPv4 && !r.IPv6 {
		logger.Error("alexa host unreachable on both IPv4 and IPv6", "addr", addr)
	}
	return r
}

func dial(ctx context.Context, logger *slog.Logger, network, addr string) bool {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		logger.Warn("alexa host not reachable", "network", network, "addr", addr, "error", err)
		return false
	}
	_ = conn.Close()
	logger.Info("alexa host reachable", "network", network, "addr", addr)
	return true
}
