package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type AppConfig struct {
	Env    string       `yaml:"env" env:"ALEXA_ENV" env-default:"prod"`
	Log    LogConfig    `yaml:"log"`
	Cookie CookieConfig `yaml:"cookie"`
	Alexa  AlexaConfig  `yaml:"alexa"`
	HTTP   HTTPConfig   `yaml:"http"`
	Cache  CacheConfig  `yaml:"cache"`
}

type LogConfig struct {
	// Level перекрывает уровень, выведенный из Env
	Level string `yaml:"level" env:"LOGLEVEL"`
	// File дополнительный файл для логов, пусто = только stderr
	File string `yaml:"file" env:"ALEXA_LOG_FILE"`
}

type CookieConfig struct {
	Path         string `yaml:"path" env:"ALEXA_COOKIE_PATH" env-default:".cookie.json"`
	FallbackPath string `yaml:"fallback_path" env:"ALEXA_COOKIE_FALLBACK" env-default:"/tmp/.cookie.json"`
}

type AlexaConfig struct {
	BaseURL string `yaml:"base_url" env:"ALEXA_BASE_URL" env-default:"https://alexa.amazon.com"`
	Locale  string `yaml:"locale" env:"ALEXA_LOCALE" env-default:"en-US"`
}

type HTTPConfig struct {
	// 0 - без таймаута, ждём ответа сколько угодно
	Timeout time.Duration `yaml:"timeout" env:"ALEXA_HTTP_TIMEOUT" env-default:"0s"`
}

// CacheConfig снимок устройств в Redis. Пустой RedisAddr выключает кеш.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr" env:"ALEXA_REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"ALEXA_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"ALEXA_REDIS_DB" env-default:"0"`
	TTL           time.Duration `yaml:"ttl" env:"ALEXA_CACHE_TTL" env-default:"10m"`
	Prefix        string        `yaml:"prefix" env:"ALEXA_CACHE_PREFIX" env-default:"alexactl:devices:"`
	Account       string        `yaml:"account" env:"ALEXA_CACHE_ACCOUNT" env-default:"default"`
}

func (c CacheConfig) Enabled() bool { return strings.TrimSpace(c.RedisAddr) != "" }

// Load читает конфиг из YAML-файла (если задан) и переменных окружения.
// Переменные окружения перекрывают значения из файла.
func Load(flagPath string) (*AppConfig, error) {
	path := fetchConfigPath(flagPath)

	var cfg AppConfig
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("invalid env %q: want %s, %s or %s", c.Env, EnvLocal, EnvDev, EnvProd)
	}
	if c.Cookie.Path == "" && c.Cookie.FallbackPath == "" {
		return fmt.Errorf("cookie.path or cookie.fallback_path must be set")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("invalid http.timeout %s", c.HTTP.Timeout)
	}
	if c.Cache.Enabled() && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when redis cache is enabled")
	}
	return nil
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv("CONFIG_PATH")
}
