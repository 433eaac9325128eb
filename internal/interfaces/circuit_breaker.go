package interfaces

// интерфейс для circuit breaker
type Breaker interface {
	Execute(fn func() error) error
	GetStats() (totalRequests, totalSuccesses, totalFailures uint32)
}
