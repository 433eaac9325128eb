package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sebastiensimon1/hiring-cafe/internal/interfaces"
)

// Состояния Circuit Breaker
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Структура Circuit Breaker.
// Защищает внешний сервис от шквала запросов, когда он уже отвечает ошибками:
// после серии ошибок переходит в Open и отклоняет запросы локально,
// через ResetTimeout пропускает пробные запросы (Half-Open)
type CircuitBreaker struct {
	mu sync.Mutex

	// Конфигурация
	failureThreshold    uint32
	successThreshold    uint32
	halfOpenMaxRequests uint32
	resetTimeout        time.Duration

	// Состояние
	state            State
	failures         uint32 // ошибки подряд в Closed
	successes        uint32 // успехи подряд в Half-Open
	halfOpenInFlight uint32 // запросы, выполняющиеся сейчас в Half-Open
	lastFailureTime  time.Time

	// Статистика
	totalRequests  uint32
	totalSuccesses uint32
	totalFailures  uint32
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// защищаемся от нулевых значений в конфиге
	def := DefaultCircuitBreakerConfig()
	if config.FailureThreshold == 0 {
		config.FailureThreshold = def.FailureThreshold
	}
	if config.SuccessThreshold == 0 {
		config.SuccessThreshold = def.SuccessThreshold
	}
	if config.HalfOpenMaxRequests == 0 {
		config.HalfOpenMaxRequests = def.HalfOpenMaxRequests
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = def.ResetTimeout
	}

	return &CircuitBreaker{
		failureThreshold:    config.FailureThreshold,
		successThreshold:    config.SuccessThreshold,
		halfOpenMaxRequests: config.HalfOpenMaxRequests,
		resetTimeout:        config.ResetTimeout,
		state:               StateClosed,
	}
}

// Execute выполняет операцию с защитой Circuit Breaker
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	// саму операцию выполняем вне мьютекса (она может долго ходить по сети)
	err := fn()

	cb.afterCall(err)
	return err
}

// beforeCall проверяет, можно ли сейчас выполнять запрос, и резервирует слот
func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	// состояние, когда CB - открыт (заблокирован)
	case StateOpen:
		// проверяем таймер: рано - отклоняем локально
		if time.Since(cb.lastFailureTime) < cb.resetTimeout {
			return ErrCircuitOpen
		}
		// Переходим в Half-Open, пробуем пропустить запрос
		cb.state = StateHalfOpen
		cb.successes = 0
		cb.halfOpenInFlight = 0
		fallthrough

	// состояние, когда CB - полуоткрыт (пробный режим)
	case StateHalfOpen:
		if cb.halfOpenInFlight >= cb.halfOpenMaxRequests {
			return ErrTooManyRequests
		}
		cb.halfOpenInFlight++
	}

	cb.totalRequests++
	return nil
}

// afterCall обновляет состояние по результату выполнения операции
func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen && cb.halfOpenInFlight > 0 {
		cb.halfOpenInFlight--
	}

	if err != nil {
		cb.totalFailures++
		cb.lastFailureTime = time.Now()

		switch cb.state {
		case StateClosed:
			cb.failures++
			if cb.failures >= cb.failureThreshold {
				cb.state = StateOpen
			}
		case StateHalfOpen:
			// пробный запрос провалился - снова блокируемся
			cb.state = StateOpen
		}
		return
	}

	cb.totalSuccesses++

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = StateClosed
			cb.failures = 0
		}
	}
}

// GetState возвращает текущее состояние breaker
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// GetStats возвращает статистику по всем запросам через breaker
func (cb *CircuitBreaker) GetStats() (totalRequests, totalSuccesses, totalFailures uint32) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.totalRequests, cb.totalSuccesses, cb.totalFailures
}

// Проверка на этапе компиляции, что тип реализует интерфейс
var _ interfaces.Breaker = (*CircuitBreaker)(nil)
