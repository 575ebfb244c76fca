package devicecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/larriantoniy/alexa_ctl/internal/domain"
	"github.com/larriantoniy/alexa_ctl/internal/ports"
)

const (
	defaultPrefix  = "alexactl:devices:"
	defaultAccount = "default"
	defaultTTL     = 10 * time.Minute
)

// Store держит снимок списка устройств в Redis, чтобы соседние запуски
// не ходили за ним в Alexa каждый раз.
type Store struct {
	client  *backend.Client
	prefix  string
	account string
	ttl     time.Duration
}

type Option func(*Store)

// WithTTL sets how long a snapshot stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithAccount разделяет снимки разных аккаунтов Amazon.
func WithAccount(account string) Option {
	return func(s *Store) {
		if account != "" {
			s.account = account
		}
	}
}

func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client:  client,
		prefix:  defaultPrefix,
		account: defaultAccount,
		ttl:     defaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key() string {
	return s.prefix + s.account
}

func (s *Store) Get(ctx context.Context) ([]domain.Device, bool, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", s.key(), err)
	}

	var devices []domain.Device
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, false, fmt.Errorf("unmarshal snapshot %s: %w", s.key(), err)
	}
	return devices, true, nil
}

func (s *Store) Put(ctx context.Context, devices []domain.Device) error {
	data, err := json.Marshal(devices)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(), err)
	}
	return nil
}

func (s *Store) Drop(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key(), err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ ports.DeviceCache = (*Store)(nil)
