package interfaces

import "context"

// интерфейс ограничителя исходящих запросов на внешний сервис.
// Wait блокирует вызывающего до момента, когда исходящий запрос разрешён:
// выдерживает минимальный интервал с jitter и проверяет часовую квоту.
// При исчерпании квоты возвращает ошибку сразу, без ожидания.
type Throttle interface {
	Wait(ctx context.Context) error
}
