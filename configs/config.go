package configs

import "os"

// общий конфиг приложения, объединяет конфиги всех компонентов
type AppConfig struct {
	Server   *ServerConfig   `yaml:"server"`
	Throttle *ThrottleConfig `yaml:"throttle"`
	Cache    *CacheConfig    `yaml:"cache"`
	Upstream *UpstreamConfig `yaml:"upstream"`
}

// функция, которая возвращает указатель на дэфолтный общий конфиг
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Server:   DefaultServerConfig(),
		Throttle: DefaultThrottleConfig(),
		Cache:    DefaultCacheConfig(),
		Upstream: DefaultUpstreamConfig(),
	}
}

// LoadAppConfig загружает общий конфиг из yml файла (путь из CONFIG_PATH),
// поверх накладывает переменные окружения
func LoadAppConfig() (*AppConfig, error) {
	cfg, err := LoadYAMLConfig(os.Getenv("CONFIG_PATH"), DefaultAppConfig)
	if err != nil {
		return nil, err
	}

	// переменная окружения PORT имеет приоритет над yml (так деплоят на Railway и т.п.)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	return cfg, nil
}
