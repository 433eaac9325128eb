package throttle

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiensimon1/hiring-cafe/configs"
	"github.com/sebastiensimon1/hiring-cafe/internal/interfaces"
)

// тестовый конфиг с маленькими интервалами, чтобы тесты не спали секундами
func testConfig() *configs.ThrottleConfig {
	return &configs.ThrottleConfig{
		BaseInterval: 50 * time.Millisecond,
		JitterMin:    5 * time.Millisecond,
		JitterMax:    10 * time.Millisecond,
		HourlyCap:    50,
		WindowSize:   time.Hour,
	}
}

// проверяем создание throttle
func TestNew(t *testing.T) {
	t.Run("creates with valid config", func(t *testing.T) {
		tr, err := New(testConfig())
		assert.NoError(t, err)
		assert.NotNil(t, tr)
	})

	t.Run("nil config falls back to defaults", func(t *testing.T) {
		tr, err := New(nil)
		assert.NoError(t, err)
		assert.NotNil(t, tr)
	})

	t.Run("rejects non-positive base interval", func(t *testing.T) {
		cfg := testConfig()
		cfg.BaseInterval = 0
		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive hourly cap", func(t *testing.T) {
		cfg := testConfig()
		cfg.HourlyCap = 0
		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects inverted jitter range", func(t *testing.T) {
		cfg := testConfig()
		cfg.JitterMin = 10 * time.Millisecond
		cfg.JitterMax = 5 * time.Millisecond
		_, err := New(cfg)
		assert.Error(t, err)
	})

	// проверяем, что экземпляр throttle соответствует интерфейсу interfaces.Throttle
	t.Run("implements Throttle interface", func(t *testing.T) {
		tr, err := New(testConfig())
		assert.NoError(t, err)
		var _ interfaces.Throttle = tr
	})
}

// проверяем корректность интервалов времени у метода Wait(ctx)
func TestRequestThrottle_Wait(t *testing.T) {
	// первый запрос должен проходить без ожидания
	t.Run("allows first request immediately", func(t *testing.T) {
		tr, err := New(testConfig())
		require.NoError(t, err)

		start := time.Now()
		err = tr.Wait(context.Background())
		elapsed := time.Since(start)

		assert.NoError(t, err)
		assert.Less(t, elapsed, 20*time.Millisecond)
		assert.Equal(t, 1, tr.WindowLen())
	})

	// два последовательных запроса должны быть разнесены минимум на базовый интервал
	t.Run("enforces minimum spacing between calls", func(t *testing.T) {
		cfg := testConfig()
		tr, err := New(cfg)
		require.NoError(t, err)

		ctx := context.Background()

		require.NoError(t, tr.Wait(ctx))
		start := time.Now()
		require.NoError(t, tr.Wait(ctx))
		elapsed := time.Since(start)

		// не меньше базы (jitter только добавляет)
		assert.GreaterOrEqual(t, elapsed, cfg.BaseInterval)
		// и не сильно больше базы + максимального jitter (допуск на планировщик)
		assert.Less(t, elapsed, cfg.BaseInterval+cfg.JitterMax+30*time.Millisecond)
	})

	// при исчерпании часовой квоты - отказ сразу, без ожидания интервала
	t.Run("denies immediately when hourly cap reached", func(t *testing.T) {
		cfg := testConfig()
		cfg.BaseInterval = time.Millisecond
		cfg.JitterMin = 0
		cfg.JitterMax = time.Millisecond
		cfg.HourlyCap = 3
		tr, err := New(cfg)
		require.NoError(t, err)

		ctx := context.Background()
		for i := 0; i < 3; i++ {
			require.NoError(t, tr.Wait(ctx))
		}

		start := time.Now()
		err = tr.Wait(ctx)
		elapsed := time.Since(start)

		assert.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Less(t, elapsed, 20*time.Millisecond) // отказ не ждёт интервал
		assert.Equal(t, 3, tr.WindowLen())           // отказ не попадает в окно
	})

	// записи старше окна должны вычищаться и освобождать квоту
	t.Run("prunes expired window entries", func(t *testing.T) {
		cfg := testConfig()
		cfg.BaseInterval = time.Millisecond
		cfg.JitterMin = 0
		cfg.JitterMax = time.Millisecond
		cfg.HourlyCap = 2
		cfg.WindowSize = 60 * time.Millisecond
		tr, err := New(cfg)
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, tr.Wait(ctx))
		require.NoError(t, tr.Wait(ctx))
		require.ErrorIs(t, tr.Wait(ctx), ErrQuotaExceeded)

		// ждём, пока окно уедет
		time.Sleep(80 * time.Millisecond)

		assert.NoError(t, tr.Wait(ctx))
	})

	// отмена контекста во время ожидания интервала
	t.Run("cancellation aborts the spacing wait", func(t *testing.T) {
		cfg := testConfig()
		cfg.BaseInterval = 300 * time.Millisecond
		tr, err := New(cfg)
		require.NoError(t, err)

		require.NoError(t, tr.Wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		err = tr.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		// отменённый вызов не должен фиксировать время запроса
		assert.Equal(t, 1, tr.WindowLen())
	})
}

// проверяем, что конкурентные вызовы сериализуются и интервал выдерживается между всеми
func TestRequestThrottle_Concurrent(t *testing.T) {
	cfg := testConfig()
	cfg.BaseInterval = 30 * time.Millisecond
	cfg.JitterMin = 0
	cfg.JitterMax = time.Millisecond
	tr, err := New(cfg)
	require.NoError(t, err)

	const numRequests = 4

	endTimes := make([]time.Time, numRequests)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := tr.Wait(context.Background())
			mu.Lock()
			endTimes[idx] = time.Now()
			mu.Unlock()
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// сортируем времена завершения (горутины могли завершиться в разном порядке)
	sort.Slice(endTimes, func(i, j int) bool { return endTimes[i].Before(endTimes[j]) })

	// между любыми двумя соседними разрешениями - не меньше базового интервала
	for i := 1; i < numRequests; i++ {
		interval := endTimes[i].Sub(endTimes[i-1])
		assert.GreaterOrEqual(t, interval, cfg.BaseInterval-5*time.Millisecond)
	}

	assert.Equal(t, numRequests, tr.WindowLen())
}
