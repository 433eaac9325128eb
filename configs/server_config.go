package configs

import "time"

// структура для конфига сервера
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // общий дедлайн на обработку одного входящего запроса
}

// функция для создания конфига сервера по - дефолту
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:        "0.0.0.0",
		Port:        "8080",
		ReadTimeout: 10 * time.Second,
		// WriteTimeout должен покрывать худший случай запроса на внешний сервис:
		// ретраи с backoff (10s + 20s) + 3 попытки по таймауту клиента
		WriteTimeout:   180 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
		RequestTimeout: 150 * time.Second,
	}
}

// метод конфига сервера для формирования адреса
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}
