package configs

import (
	"time"

	"github.com/sebastiensimon1/hiring-cafe/internal/circuitbreaker"
)

// структура конфига для клиента внешнего сервиса hiring.cafe
type UpstreamConfig struct {
	SiteURL        string        `yaml:"site_url"`        // базовый URL сайта (для Origin/Referer и ссылок на вакансии)
	BuildID        string        `yaml:"build_id"`        // идентификатор сборки Next.js для эндпоинта деталей вакансии
	SearchTimeout  time.Duration `yaml:"search_timeout"`  // таймаут http клиента для запроса поиска
	DetailsTimeout time.Duration `yaml:"details_timeout"` // таймаут http клиента для запроса деталей вакансии
	MaxAttempts    int           `yaml:"max_attempts"`    // общее количество попыток (включая первую)

	// параметры backoff между попытками
	Backoff403Base        time.Duration `yaml:"backoff_403_base"`        // база экспоненциального backoff при 403 (403 - мягкий сигнал rate limit)
	BackoffSearchTimeout  time.Duration `yaml:"backoff_search_timeout"`  // плоская пауза при таймауте поиска
	BackoffDetailsTimeout time.Duration `yaml:"backoff_details_timeout"` // плоская пауза при таймауте деталей

	UserAgents []string `yaml:"user_agents"` // пул User-Agent для ротации (меньше фингерпринтинга)

	CircuitBreaker circuitbreaker.CircuitBreakerConfig `yaml:"circuit_breaker"` // конфиг для circuit breaker

	// настройки транспорта http клиента
	MaxConcurrent         int           `yaml:"max_concurrent"` // ограничение конкурентных запросов к внешнему сервису
	MaxIdleConns          int           `yaml:"max_idle_conns"`
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout"`
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout"`
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout"`
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout"`
}

// DefaultUpstreamConfig возвращает конфигурацию по умолчанию
func DefaultUpstreamConfig() *UpstreamConfig {
	return &UpstreamConfig{
		SiteURL:               "https://hiring.cafe",
		BuildID:               "T5BbkPhTrZW7uSyfwsbxs",
		SearchTimeout:         30 * time.Second,
		DetailsTimeout:        15 * time.Second,
		MaxAttempts:           3,
		Backoff403Base:        10 * time.Second,
		BackoffSearchTimeout:  3 * time.Second,
		BackoffDetailsTimeout: 2 * time.Second,
		UserAgents: []string{
			"Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Mobile Safari/537.36",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
		},
		CircuitBreaker:        circuitbreaker.DefaultCircuitBreakerConfig(),
		MaxConcurrent:         5,
		MaxIdleConns:          5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
