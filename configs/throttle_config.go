package configs

import "time"

// структура конфига для throttle (ограничителя исходящих запросов на внешний сервис)
// интервал + jitter нужны, чтобы не было детектируемой фиксированной периодичности запросов,
// квота в час - чтобы не попадать под анти-бот защиту внешнего сервиса
type ThrottleConfig struct {
	BaseInterval time.Duration `yaml:"base_interval"` // минимальный интервал между исходящими запросами
	JitterMin    time.Duration `yaml:"jitter_min"`    // нижняя граница случайной добавки к интервалу
	JitterMax    time.Duration `yaml:"jitter_max"`    // верхняя граница случайной добавки (не включается)
	HourlyCap    int           `yaml:"hourly_cap"`    // максимум исходящих запросов за скользящий час
	WindowSize   time.Duration `yaml:"window_size"`   // размер скользящего окна для подсчёта квоты
}

// функция, которая возвращает указатель на дэфолтный конфиг throttle
func DefaultThrottleConfig() *ThrottleConfig {
	return &ThrottleConfig{
		BaseInterval: 5 * time.Second,
		JitterMin:    500 * time.Millisecond,
		JitterMax:    2 * time.Second,
		HourlyCap:    50,
		WindowSize:   time.Hour,
	}
}
