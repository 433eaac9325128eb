package inmemory_cache

import "time"

// метод для вызова интервальной очистки кэша или его остановки
func (c *InmemoryTTLCache) cleanUp(interval time.Duration) {
	// создаём тикер, который будет через интервал времени посылать в свой канал ticker.C текущую дату
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// ждём одно из 2х событий:
	// 1. тик таймера --> запускаем очистку устаревших записей из кэша
	// 2. сигнал из stopChan --> кэш останавливают, выходим
	for {
		select {
		case <-ticker.C:
			c.cleanUpExpired()
		case <-c.stopChan:
			return
		}
	}
}

// метод для очистки кэша от устаревших данных
func (c *InmemoryTTLCache) cleanUpExpired() {
	// текущее время на момент вызова этой функции
	start := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range c.items {
		// если TTL элемента истёк - удаляем его
		if !start.Before(value.expTime) {
			delete(c.items, key)
		}
	}
}

// Stop останавливает горутину фоновой очистки. Повторный вызов безопасен
func (c *InmemoryTTLCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}
