// хэндлеры поискового сервера
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sebastiensimon1/hiring-cafe/internal/circuitbreaker"
	"github.com/sebastiensimon1/hiring-cafe/internal/search_server/converters"
	"github.com/sebastiensimon1/hiring-cafe/internal/search_server/dto"
	"github.com/sebastiensimon1/hiring-cafe/internal/search_server/service"
	"github.com/sebastiensimon1/hiring-cafe/internal/throttle"
	"github.com/sebastiensimon1/hiring-cafe/internal/upstream"
)

type SearchHandler struct {
	service service.SearchServiceInterface // интерфейс сервисного слоя для поиска
}

// конструктор для создания поискового хэндлера
func NewSearchHandler(service service.SearchServiceInterface) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// метод отдачи информации об API (корневой эндпоинт)
func (s *SearchHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Hiring.cafe Job Search API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"/search-jobs": gin.H{
				"method":      "POST",
				"description": "Search for jobs by title",
				"example": gin.H{
					"job_title":       "software engineer",
					"workplace_types": []string{"Remote"},
					"location_filter": "United States",
					"page":            0,
					"size":            20,
				},
			},
			"/job/:job_id": gin.H{
				"method":      "GET",
				"description": "Get detailed job information by ID",
				"example":     "/job/lever___avertium___135159ab-3e8f-4d1d-b811-f8ad0638ea96",
			},
		},
		"note": "This API is a proxy to hiring.cafe and respects their rate limits",
	})
}

// эндпоинт проверки живости
func (s *SearchHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// метод обработки запроса на поиск вакансий
func (s *SearchHandler) ProcessSearchRequest(c *gin.Context) {
	// Парсинг DTO запроса
	var req dto.SearchRequest

	// парсим данные запроса из JSON в необходимую структуру
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}

	// проводим валидацию и нормализацию входных данных
	if err := req.ValidateAndNormalize(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}

	// Конвертация DTO -> Domain
	query := converters.SearchRequestDTOToQueryDomain(req)

	// запускаем поиск (идём в сервисный слой)
	page, cached, err := s.service.SearchJobs(c.Request.Context(), query)
	if err != nil {
		s.writeError(c, err)
		return
	}

	// Конвертация Domain -> DTO и отдаём результат клиенту
	c.JSON(http.StatusOK, converters.SearchPageDomainToDTO(page, cached))
}

// метод обработки запроса деталей вакансии по ID
func (s *SearchHandler) ProcessJobDetailsRequest(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": "job_id is required"})
		return
	}

	details, cached, err := s.service.GetJobDetails(c.Request.Context(), jobID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, converters.JobDetailsDomainToDTO(details, cached))
}

// writeError маппит классифицированные ошибки ядра в HTTP статусы
func (s *SearchHandler) writeError(c *gin.Context, err error) {
	var statusErr *upstream.StatusError

	switch {
	case errors.Is(err, dto.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})

	case errors.Is(err, throttle.ErrQuotaExceeded):
		// локальная часовая квота, на внешний сервис даже не ходили
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "quota exceeded", "message": err.Error()})

	case errors.Is(err, upstream.ErrUpstreamRateLimited),
		errors.Is(err, circuitbreaker.ErrCircuitOpen),
		errors.Is(err, circuitbreaker.ErrTooManyRequests):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream unavailable", "message": err.Error()})

	case errors.Is(err, upstream.ErrUpstreamTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream timeout", "message": err.Error()})

	case errors.Is(err, context.DeadlineExceeded):
		// истёк общий дедлайн запроса (ожидание гейта или backoff между ретраями)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timeout", "message": err.Error()})

	case errors.As(err, &statusErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "upstream error",
			"message":         err.Error(),
			"upstream_status": statusErr.StatusCode,
		})

	case errors.Is(err, upstream.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "message": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "message": err.Error()})
	}
}
