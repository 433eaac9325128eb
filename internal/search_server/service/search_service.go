// сервисный слой: оркестрация кэша, гейта и клиента hiring.cafe
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sebastiensimon1/hiring-cafe/internal/domain/models"
	"github.com/sebastiensimon1/hiring-cafe/internal/interfaces"
	"github.com/sebastiensimon1/hiring-cafe/internal/normalizer"
	"github.com/sebastiensimon1/hiring-cafe/internal/upstream"
)

// префикс ключей кэша деталей, чтобы не пересекаться с ключами поиска
const detailKeyPrefix = "job_detail:"

// интерфейс сервисного слоя для хэндлеров
type SearchServiceInterface interface {
	SearchJobs(ctx context.Context, query models.SearchQuery) (models.SearchPage, bool, error)
	GetJobDetails(ctx context.Context, jobID string) (models.JobDetails, bool, error)
}

// структура поискового сервиса
type SearchService struct {
	client   interfaces.UpstreamClient
	cache    interfaces.Cache
	cacheTTL time.Duration
	siteURL  string
}

// конструктор поискового сервиса
func NewSearchService(client interfaces.UpstreamClient, cache interfaces.Cache, cacheTTL time.Duration, siteURL string) *SearchService {
	return &SearchService{
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
		siteURL:  siteURL,
	}
}

// SearchJobs ищет вакансии: сперва кэш, на промахе - внешний сервис через гейт.
// Второй результат - признак, что ответ отдан из кэша (внешний сервис не трогали)
func (s *SearchService) SearchJobs(ctx context.Context, query models.SearchQuery) (models.SearchPage, bool, error) {
	cacheKey := query.CacheKey()

	// пытаемся найти в кэше готовую страницу результатов
	if cached, ok := s.cache.GetItem(cacheKey); ok {
		page, ok := cached.(models.SearchPage)
		if !ok {
			// в кэше лежит что-то не то - считаем промахом и перезапишем
			log.Printf("⚠️ unexpected cached value type for key %q", cacheKey)
		} else {
			return page, true, nil
		}
	}

	// промах кэша: идём на внешний сервис (гейт и ретраи - внутри клиента)
	resp, err := s.client.Search(ctx, query)
	if err != nil {
		return models.SearchPage{}, false, err
	}

	// фильтруем по локации до нормализации, как и сам внешний сервис отдаёт
	filtered := normalizer.FilterByLocation(resp.Results, query.LocationFilter)

	jobs := make([]models.JobSummary, 0, len(filtered))
	for _, raw := range filtered {
		jobs = append(jobs, normalizer.FormatJob(raw, s.siteURL))
	}

	page := models.SearchPage{
		Total:    resp.NbHits,
		Filtered: len(jobs),
		Page:     query.Page,
		Jobs:     jobs,
	}

	s.cache.AddItemWithTTL(cacheKey, page, s.cacheTTL)

	return page, false, nil
}

// GetJobDetails получает детали вакансии по ID: кэш, затем внешний сервис
func (s *SearchService) GetJobDetails(ctx context.Context, jobID string) (models.JobDetails, bool, error) {
	cacheKey := detailKeyPrefix + jobID

	if cached, ok := s.cache.GetItem(cacheKey); ok {
		if details, ok := cached.(models.JobDetails); ok {
			return details, true, nil
		}
		log.Printf("⚠️ unexpected cached value type for key %q", cacheKey)
	}

	resp, err := s.client.FetchDetails(ctx, jobID)
	if err != nil {
		return models.JobDetails{}, false, err
	}

	// пустой pageProps.job - вакансии с таким ID нет
	job := resp.PageProps.Job
	if job == nil || job.ID == nil || *job.ID == "" {
		return models.JobDetails{}, false, fmt.Errorf("%w: no job with ID %q", upstream.ErrNotFound, jobID)
	}

	details := normalizer.FormatJobDetails(*job, s.siteURL)

	s.cache.AddItemWithTTL(cacheKey, details, s.cacheTTL)

	return details, false, nil
}

// проверка соответствия интерфейсу на этапе компиляции
var _ SearchServiceInterface = (*SearchService)(nil)
