package search_server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sebastiensimon1/hiring-cafe/configs"
	"github.com/sebastiensimon1/hiring-cafe/internal/search_server/handlers"
)

type JobSearchServer struct {
	httpServer *http.Server
	router     *gin.Engine
	config     *configs.ServerConfig
	handler    *handlers.SearchHandler
}

// Конструктор для сервера
func NewServer(config *configs.ServerConfig, handler *handlers.SearchHandler) (*JobSearchServer, error) {
	// создаём экземпляр роутера
	router := gin.Default()
	err := router.SetTrustedProxies(nil)
	if err != nil {
		return nil, err
	}

	router.Use(RequestIDMiddleware()) // сквозной request id для всех маршрутов
	router.Use(CORSMiddleware())      // используем для всех маршрутов работу с CORS

	// поисковый запрос может ждать гейт и ретраи клиента, поэтому
	// дедлайн запроса заметно больше обычного
	router.Use(RequestTimeoutMiddleware(config))

	return &JobSearchServer{
		router:  router,
		config:  config,
		handler: handler,
	}, nil
}

// Метод для маршрутизации сервера
func (s *JobSearchServer) SetUpRoutes() {
	s.router.GET("/", s.handler.Home)                                // информация об API
	s.router.GET("/health", s.handler.Health)                        // проверка живости
	s.router.POST("/search-jobs", s.handler.ProcessSearchRequest)    // эндпоинт поиска вакансий по названию должности
	s.router.GET("/job/:job_id", s.handler.ProcessJobDetailsRequest) // эндпоинт получения подробной инфы по конкретной вакансии
}

// Метод для запуска сервера
func (s *JobSearchServer) Run() error {
	s.SetUpRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.Addr(),
		Handler:        s.router,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	log.Printf("Server is running on %s", s.config.Addr())
	return s.httpServer.ListenAndServe()
}

// Метод для graceful shutdown
func (s *JobSearchServer) Shutdown(ctx context.Context) error {

	// Останавливаем HTTP сервер
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.Println("Server shutdown completed")
	return nil
}

// middleware для сквозного request id: берём из заголовка или генерируем
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Writer.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(c.Request.Context(), requestIDKey{}, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

type requestIDKey struct{}

// middleware дедлайна запроса: ретраи клиента с backoff могут занимать
// минуты, по истечении дедлайна клиент получает отказ, а не вечное ожидание
func RequestTimeoutMiddleware(config *configs.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.RequestTimeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// middleware для CORS политики
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Список разрешенных доменов
		allowedOrigins := []string{
			"http://localhost:8080",
		}

		origin := c.Request.Header.Get("Origin")

		// Если Origin не указан (например, запрос из curl или postman)
		if origin == "" {
			// Разрешаем любые источники (или задайте конкретные)
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			// Проверяем по списку разрешенных
			isAllowed := false
			for _, domain := range allowedOrigins {
				if domain == origin {
					isAllowed = true
					break
				}
			}

			if isAllowed {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			} else {
				c.AbortWithStatusJSON(403, gin.H{
					"error":  "Origin not allowed",
					"origin": origin,
				})
				return
			}
		}

		// Разрешенные методы
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")

		// Разрешенные заголовки
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")

		// Заголовки, которые можно читать клиенту
		c.Writer.Header().Set("Access-Control-Expose-Headers",
			"Content-Length, Content-Type, Authorization")

		// Разрешаем отправку кук/авторизации
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// Кеширование предзапроса (в секундах)
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
