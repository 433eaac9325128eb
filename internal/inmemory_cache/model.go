package inmemory_cache

import (
	"sync"
	"time"
)

// основная структура inmemory cache для кэширования результатов.
// Кэш ограничен по количеству элементов: при переполнении вытесняется
// самый старый по времени вставки элемент (FIFO, не LRU - чтение не
// обновляет "свежесть" записи).
// Мапа одна, без шардирования: для вытеснения нужен консистентный
// глобальный поиск самой старой записи, а лимит в 100 элементов мал.
type InmemoryTTLCache struct {
	mu       sync.Mutex
	items    map[string]CashItem
	capacity int
	stopOnce sync.Once
	stopChan chan bool
}

// структура отдельного элемента inmemory cache
// ключем в мапе будет строка ----> детерминированный ключ запроса поиска
// или ключ деталей вакансии с префиксом
type CashItem struct {
	value      interface{}
	expTime    time.Time // момент, после которого элемент считается устаревшим
	insertedAt time.Time // момент вставки (по нему идёт вытеснение при переполнении)
}
