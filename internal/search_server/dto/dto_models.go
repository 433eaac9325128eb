package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sebastiensimon1/hiring-cafe/internal/domain/models"
)

// ошибка валидации входных данных. Хэндлер маппит её в HTTP 400
var ErrValidation = errors.New("validation error")

const (
	defaultPageSize = 40
	maxPageSize     = 100
)

// SearchRequest - DTO для входящего запроса поиска вакансий
type SearchRequest struct {
	JobTitle       string   `json:"job_title"`
	WorkplaceTypes []string `json:"workplace_types"`
	LocationFilter string   `json:"location_filter"`
	Page           int      `json:"page"`
	Size           int      `json:"size"`
}

// ValidateAndNormalize проверяет и нормализует входные данные:
// название должности обязательно, типы рабочих мест - из допустимого списка
// (по умолчанию все три), размер страницы зажимается в [1,100] с дефолтом 40
func (r *SearchRequest) ValidateAndNormalize() error {
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	if r.JobTitle == "" {
		return fmt.Errorf("%w: job_title is required", ErrValidation)
	}

	if len(r.WorkplaceTypes) == 0 {
		r.WorkplaceTypes = append([]string{}, models.AllWorkplaceTypes...)
	} else {
		for _, wt := range r.WorkplaceTypes {
			if !models.IsValidWorkplaceType(wt) {
				return fmt.Errorf("%w: unknown workplace type %q (expected one of %v)",
					ErrValidation, wt, models.AllWorkplaceTypes)
			}
		}
	}

	if r.Page < 0 {
		return fmt.Errorf("%w: page must be non-negative", ErrValidation)
	}

	switch {
	case r.Size == 0:
		r.Size = defaultPageSize
	case r.Size < 1:
		r.Size = 1
	case r.Size > maxPageSize:
		r.Size = maxPageSize
	}

	r.LocationFilter = strings.TrimSpace(r.LocationFilter)

	return nil
}

// SearchJobsResponse - основной ответ API на поиск вакансий
type SearchJobsResponse struct {
	Success  bool                `json:"success"`
	Cached   bool                `json:"cached"`
	Total    int                 `json:"total"`
	Filtered int                 `json:"filtered"`
	Page     int                 `json:"page"`
	Jobs     []models.JobSummary `json:"jobs"`
}

// JobDetailsResponse - ответ API на запрос деталей вакансии
type JobDetailsResponse struct {
	Success bool              `json:"success"`
	Cached  bool              `json:"cached"`
	Job     models.JobDetails `json:"job"`
}
