package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Таксономия ошибок внешнего сервиса. Все ошибки сетевого слоя ловятся
// на границе клиента и приводятся к этим типам - дальше по коду ходят
// только типизированные ошибки, которые хэндлер умеет превращать в статусы.
var (
	// ErrUpstreamRateLimited - hiring.cafe отвечает 403 (мягкий сигнал rate limit),
	// ретраи с backoff исчерпаны. Клиенту стоит повторить запрос позже
	ErrUpstreamRateLimited = errors.New("rate limited by hiring.cafe")

	// ErrUpstreamTimeout - внешний сервис не ответил за таймаут, ретраи исчерпаны
	ErrUpstreamTimeout = errors.New("hiring.cafe request timed out")

	// ErrUpstreamUnexpected - любая другая ошибка транспорта или парсинга ответа
	ErrUpstreamUnexpected = errors.New("unexpected hiring.cafe failure")

	// ErrNotFound - внешний сервис ответил успешно, но вакансии с таким ID нет
	ErrNotFound = errors.New("job not found")

	// внутренний маркер ответа 403: наружу он превращается
	// в ErrUpstreamRateLimited после исчерпания ретраев
	errSoft403 = errors.New("upstream responded 403")
)

// StatusError - не-403 HTTP ошибка внешнего сервиса. Не ретраится,
// возвращается сразу с кодом статуса
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hiring.cafe returned status %d: %s", e.StatusCode, e.Body)
}

// isTimeout определяет, является ли ошибка таймаутом: сетевым, по дедлайну
// контекста или уже типизированным (такие ошибки ретраим с плоской паузой)
func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrUpstreamTimeout)
}
