package configs

import "time"

// структура конфига для инмемори кэша результатов с TTL
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl"`              // время жизни элементов кэша
	Capacity        int           `yaml:"capacity"`         // максимальное количество элементов в кэше
	CleanUpInterval time.Duration `yaml:"cleanup_interval"` // интервал фоновой самоочистки кэша (0 - очистка только лениво при чтении)
}

// функция, которая возвращает указатель на дэфолтный конфиг кэша
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		TTL:             time.Hour,
		Capacity:        100,
		CleanUpInterval: 5 * time.Minute,
	}
}
