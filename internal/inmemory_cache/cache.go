package inmemory_cache

import (
	"fmt"
	"time"

	"github.com/sebastiensimon1/hiring-cafe/configs"
	"github.com/sebastiensimon1/hiring-cafe/internal/interfaces"
)

// конструктор для создания кэша с ограничением по количеству элементов
// и интервалом фоновой очистки
func NewInmemoryTTLCache(cfg *configs.CacheConfig) (*InmemoryTTLCache, error) {
	if cfg == nil {
		cfg = configs.DefaultCacheConfig()
	}

	// Валидация входных параметров
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", cfg.Capacity)
	}
	if cfg.CleanUpInterval < 0 {
		return nil, fmt.Errorf("cleanup interval must be non-negative, got %v", cfg.CleanUpInterval)
	}

	// инициализируем базовую структуру кэша
	cache := &InmemoryTTLCache{
		items:    make(map[string]CashItem),
		capacity: cfg.Capacity,
		stopChan: make(chan bool),
	}

	// асинхронно запускаем очистку кэша через определённый интервал времени.
	// Запускаем только если интервал > 0, иначе работает только ленивая
	// очистка при чтении
	if cfg.CleanUpInterval > 0 {
		go cache.cleanUp(cfg.CleanUpInterval)
	}

	return cache, nil
}

// метод получения значения из кэша по заданному ключу.
// Устаревший элемент - это промах: он сразу удаляется из мапы (ленивая очистка),
// поэтому лочимся на запись, а не на чтение
func (c *InmemoryTTLCache) GetItem(key string) (interface{}, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	val, ok := c.items[key]
	if !ok {
		return nil, false
	}

	// проверяем, не истёк ли TTL у значения
	if !now.Before(val.expTime) {
		delete(c.items, key)
		return nil, false
	}

	return val.value, true
}

// метод, чтобы записать значение в кэш с заданным TTL.
// После вставки проверяем лимит: если кэш переполнен - вытесняем
// самый старый по времени вставки элемент
func (c *InmemoryTTLCache) AddItemWithTTL(key string, value interface{}, ttl time.Duration) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = CashItem{
		value:      value,
		expTime:    now.Add(ttl),
		insertedAt: now,
	}

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// evictOldest удаляет элемент с самым ранним временем вставки.
// Вызывается только из-под мьютекса, так что скан по мапе - консистентный
func (c *InmemoryTTLCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = item.insertedAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

// метод удаления элемента из кэша по ключу
func (c *InmemoryTTLCache) DeleteItem(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len возвращает текущее количество элементов в кэше
func (c *InmemoryTTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Проверка на этапе компиляции, что тип реализует интерфейс
var _ interfaces.Cache = (*InmemoryTTLCache)(nil)
