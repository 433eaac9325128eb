package interfaces

import "time"

// интерфейс инмемори кэша результатов с TTL
type Cache interface {
	GetItem(key string) (interface{}, bool)
	AddItemWithTTL(key string, value interface{}, ttl time.Duration)
	DeleteItem(key string)
	Len() int
}
