// config реализует конфигурацию виджета: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config - корневая конфигурация виджета.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTP       HTTPConfig       `yaml:"http"`
	API        APIConfig        `yaml:"api"`
	Page       PageConfig       `yaml:"page"`
	Session    SessionConfig    `yaml:"session"`
	Render     RenderConfig     `yaml:"render"`
	LiveUpdate LiveUpdateConfig `yaml:"live_update"`
	Timeouts   TimeoutConfig    `yaml:"timeouts"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// HTTPConfig - HTTP-сервер предпросмотра (отрисованный виджет, health, metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8088"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// APIConfig - бэкенд комментариев.
type APIConfig struct {
	// Базовый URL; эндпоинты живут под <base>/api/embed/.
	BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-required:"true"`
}

// PageConfig - страница, для которой отрисовывается дерево.
type PageConfig struct {
	Host string `yaml:"host" env:"PAGE_HOST" env-default:"localhost"`
	Path string `yaml:"path" env:"PAGE_PATH" env-default:"/"`
	// Авто-логин через неинтерактивный SSO, если домен это разрешает.
	AutoSSO bool `yaml:"auto_sso" env:"PAGE_AUTO_SSO" env-default:"false"`
}

// SessionConfig - хранилище сессионного токена.
type SessionConfig struct {
	// memory | redis.
	Store    string `yaml:"store"     env:"SESSION_STORE"     env-default:"memory"`
	RedisURL string `yaml:"redis_url" env:"SESSION_REDIS_URL"`
	Prefix   string `yaml:"prefix"    env:"SESSION_PREFIX"    env-default:"comentario:"`
}

// RenderConfig - параметры отрисовки дерева.
type RenderConfig struct {
	// Уровень вложенности, начиная с которого дети выводятся без отступа.
	MaxLevel int `yaml:"max_level" env:"RENDER_MAX_LEVEL" env-default:"10"`
}

// LiveUpdateConfig - периодическая перезагрузка дерева. Interval == 0 выключает опрос.
type LiveUpdateConfig struct {
	Interval time.Duration `yaml:"interval" env:"LIVE_UPDATE_INTERVAL" env-default:"0s"`
}

// TimeoutConfig - таймауты запросов и сценариев входа.
type TimeoutConfig struct {
	Request   time.Duration `yaml:"request"    env:"REQUEST_TIMEOUT"    env-default:"15s"`
	SSO       time.Duration `yaml:"sso"        env:"SSO_TIMEOUT"        env-default:"60s"`
	OAuthPoll time.Duration `yaml:"oauth_poll" env:"OAUTH_POLL"         env-default:"500ms"`
}

// RateLimitConfig - ограничение исходящих запросов к API. RPS == 0 (по умолчанию) выключает лимитер.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"   env:"RATE_LIMIT_RPS"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

// MustLoad - обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate - базовая валидация значений.
func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL")
	}

	if c.Page.Host == "" {
		return fmt.Errorf("page.host is required")
	}

	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Session.RedisURL == "" {
			return fmt.Errorf("session.redis_url is required for redis store")
		}
	default:
		return fmt.Errorf("session.store must be memory or redis")
	}

	if c.Render.MaxLevel <= 0 {
		return fmt.Errorf("render.max_level must be > 0")
	}

	if c.LiveUpdate.Interval < 0 {
		return fmt.Errorf("live_update.interval must be >= 0")
	}

	if c.Timeouts.Request <= 0 || c.Timeouts.SSO <= 0 || c.Timeouts.OAuthPoll <= 0 {
		return fmt.Errorf("timeouts must be > 0")
	}

	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must be >= 0")
	}

	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be > 0")
	}

	return nil
}
