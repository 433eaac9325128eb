package throttle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sebastiensimon1/hiring-cafe/configs"
	"github.com/sebastiensimon1/hiring-cafe/internal/interfaces"
)

var ErrQuotaExceeded = errors.New("hourly upstream quota exceeded")

// RequestThrottle - ограничитель исходящих запросов на hiring.cafe.
// Следит за двумя вещами сразу:
// 1. скользящее окно запросов за последний час (квота, чтобы не забанили)
// 2. минимальный интервал между запросами + случайный jitter
// (чтобы запросы не шли с детектируемым фиксированным периодом)
//
// Экземпляр один на всё приложение: поиск и детали вакансий идут
// через общие часы и общее окно.
type RequestThrottle struct {
	mu       sync.Mutex
	cfg      *configs.ThrottleConfig
	lastCall time.Time   // время последнего разрешённого запроса
	window   []time.Time // скользящее окно запросов за последний час
	rng      *rand.Rand  // источник jitter, доступ только из-под мьютекса
}

// конструктор throttle, проверяет валидность конфига
func New(cfg *configs.ThrottleConfig) (*RequestThrottle, error) {
	if cfg == nil {
		cfg = configs.DefaultThrottleConfig()
	}

	if cfg.BaseInterval <= 0 {
		return nil, fmt.Errorf("throttle: base interval must be positive, got %v", cfg.BaseInterval)
	}
	if cfg.HourlyCap <= 0 {
		return nil, fmt.Errorf("throttle: hourly cap must be positive, got %d", cfg.HourlyCap)
	}
	if cfg.WindowSize <= 0 {
		return nil, fmt.Errorf("throttle: window size must be positive, got %v", cfg.WindowSize)
	}
	if cfg.JitterMin < 0 || cfg.JitterMax < cfg.JitterMin {
		return nil, fmt.Errorf("throttle: invalid jitter range [%v, %v)", cfg.JitterMin, cfg.JitterMax)
	}

	return &RequestThrottle{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Wait блокирует вызывающего до момента, когда исходящий запрос разрешён.
// Порядок важен: сначала проверяем квоту (если она исчерпана - возвращаем
// ошибку сразу, не дожидаясь интервала), потом выдерживаем интервал.
// Мьютекс держим на всё время ожидания: конкурентные вызовы сериализуются,
// и два вызова не могут пройти проверку интервала в один и тот же момент.
func (t *RequestThrottle) Wait(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.prune(now)

	// проверка часовой квоты, до задержки на интервал
	if len(t.window) >= t.cfg.HourlyCap {
		return fmt.Errorf("%w: %d calls in the last %v", ErrQuotaExceeded, len(t.window), t.cfg.WindowSize)
	}

	// требуемый интервал = база + jitter в [JitterMin, JitterMax)
	spacing := t.cfg.BaseInterval + t.jitter()

	// если с прошлого запроса прошло меньше интервала - досыпаем разницу
	if !t.lastCall.IsZero() {
		if remaining := spacing - now.Sub(t.lastCall); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()

			select {
			case <-ctx.Done():
				// отменили ожидание - запрос не состоится, время не записываем
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	// запрос разрешён: фиксируем время и в lastCall, и в окне квоты
	stamp := time.Now()
	t.lastCall = stamp
	t.window = append(t.window, stamp)

	return nil
}

// prune выкидывает из скользящего окна все запросы старше WindowSize.
// Вызывается только из-под мьютекса.
func (t *RequestThrottle) prune(now time.Time) {
	cutoff := now.Add(-t.cfg.WindowSize)

	// окно упорядочено по времени, ищем первый ещё живой запрос
	keep := 0
	for keep < len(t.window) && !t.window[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		t.window = append(t.window[:0], t.window[keep:]...)
	}
}

// jitter возвращает случайную добавку к интервалу в [JitterMin, JitterMax).
// Вызывается только из-под мьютекса (рандом - не потокобезопасен).
func (t *RequestThrottle) jitter() time.Duration {
	span := t.cfg.JitterMax - t.cfg.JitterMin
	if span <= 0 {
		return t.cfg.JitterMin
	}
	return t.cfg.JitterMin + time.Duration(t.rng.Int63n(int64(span)))
}

// WindowLen возвращает текущий размер скользящего окна (после очистки)
func (t *RequestThrottle) WindowLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune(time.Now())
	return len(t.window)
}

// Проверка на этапе компиляции, что тип реализует интерфейс
var _ interfaces.Throttle = (*RequestThrottle)(nil)
