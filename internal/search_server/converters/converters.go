package converters

import (
	"github.com/sebastiensimon1/hiring-cafe/internal/domain/models"
	"github.com/sebastiensimon1/hiring-cafe/internal/search_server/dto"
)

// Конвертация DTO -> Domain
func SearchRequestDTOToQueryDomain(req dto.SearchRequest) models.SearchQuery {
	return models.SearchQuery{
		Title:          req.JobTitle,
		WorkplaceTypes: req.WorkplaceTypes,
		LocationFilter: req.LocationFilter,
		Page:           req.Page,
		Size:           req.Size,
	}
}

// Конвертация Domain -> DTO для страницы результатов поиска
func SearchPageDomainToDTO(page models.SearchPage, cached bool) dto.SearchJobsResponse {
	jobs := page.Jobs
	if jobs == nil {
		jobs = []models.JobSummary{} // в JSON должен уйти пустой список, не null
	}

	return dto.SearchJobsResponse{
		Success:  true,
		Cached:   cached,
		Total:    page.Total,
		Filtered: page.Filtered,
		Page:     page.Page,
		Jobs:     jobs,
	}
}

// Конвертация Domain -> DTO для деталей вакансии
func JobDetailsDomainToDTO(details models.JobDetails, cached bool) dto.JobDetailsResponse {
	return dto.JobDetailsResponse{
		Success: true,
		Cached:  cached,
		Job:     details,
	}
}
