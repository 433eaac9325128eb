package circuitbreaker

import "time"

// структура конфига для circuit breaker
type CircuitBreakerConfig struct {
	FailureThreshold    uint32        `yaml:"failure_threshold"`       // макс кол-во ошибок подряд до перехода в Open
	SuccessThreshold    uint32        `yaml:"success_threshold"`       // кол-во успешных запросов в Half-Open для перехода в Closed
	HalfOpenMaxRequests uint32        `yaml:"half_open_max_requests"`  // макс одновременных запросов в Half-Open состоянии
	ResetTimeout        time.Duration `yaml:"reset_timeout"`           // время ожидания в Open перед переходом в Half-Open
}

// функция, которая возвращает дэфолтный конфиг для circuit breaker.
// Порог ошибок должен быть выше бюджета ретраев клиента (3 попытки),
// чтобы breaker не срабатывал внутри одного цикла ретраев
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold:    8,
		SuccessThreshold:    2,
		HalfOpenMaxRequests: 1,
		ResetTimeout:        60 * time.Second,
	}
}
