package normalizer

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/sebastiensimon1/hiring-cafe/internal/domain/models"
	"github.com/sebastiensimon1/hiring-cafe/internal/upstream/model"
)

// Пакет normalizer переводит сырые вакансии hiring.cafe в плоскую
// стабильную схему нашего API. Все функции чистые и nil-безопасные:
// любое поле внешнего сервиса может отсутствовать.

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanDescription превращает HTML описание в обычный текст:
// вырезает теги, разворачивает HTML-сущности, схлопывает пробелы.
// Для пустого входа возвращает пустую строку, не nil.
func CleanDescription(htmlText string) string {
	if htmlText == "" {
		return ""
	}
	text := htmlTagRe.ReplaceAllString(htmlText, " ")
	text = html.UnescapeString(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// FormatJob нормализует одну сырую вакансию.
// Название: предпочитаем обработанное, падаем на сырое из job_information.
// Компания: предпочитаем секцию компании, падаем на поле из данных вакансии.
func FormatJob(job model.RawJob, siteURL string) models.JobSummary {
	data := job.Data()
	info := job.Info()

	id := strOrEmpty(job.ID)

	viewURL := ""
	if id != "" {
		viewURL = fmt.Sprintf("%s/viewjob/%s", siteURL, id)
	}

	return models.JobSummary{
		ID:                  id,
		Title:               firstNonEmpty(data.CoreJobTitle, info.Title),
		Company:             firstNonEmpty(job.Company().Name, data.CompanyName),
		Location:            strOrEmpty(data.FormattedWorkplaceLocation),
		WorkplaceType:       strOrEmpty(data.WorkplaceType),
		Commitment:          sliceOrEmpty(data.Commitment),
		SeniorityLevel:      strOrEmpty(data.SeniorityLevel),
		RoleType:            strOrEmpty(data.RoleType),
		Salary:              buildSalaryBlock(data),
		ExperienceRequired:  data.MinIndustryAndRoleYoe,
		Education: models.Education{
			Bachelors: boolOrFalse(data.BachelorsDegreeRequirement),
			Masters:   boolOrFalse(data.MastersDegreeRequirement),
			Fields:    sliceOrEmpty(data.BachelorsDegreeFieldsOfStudy),
		},
		Certifications:      sliceOrEmpty(data.LicensesOrCertifications),
		TechnicalTools:      sliceOrEmpty(data.TechnicalTools),
		RequirementsSummary: strOrEmpty(data.RequirementsSummary),
		ApplyURL:            strOrEmpty(job.ApplyURL),
		ViewURL:             viewURL,
		PostedDate:          strOrEmpty(data.EstimatedPublishDate),
		Benefits: models.Benefits{
			VisaSponsorship:      boolOrFalse(data.VisaSponsorship),
			RelocationAssistance: boolOrFalse(data.RelocationAssistance),
			TuitionReimbursement: boolOrFalse(data.TuitionReimbursement),
			RetirementPlan:       boolOrFalse(data.RetirementPlan),
			ParentalLeave:        boolOrFalse(data.GenerousParentalLeave),
		},
	}
}

// FormatJobDetails нормализует вакансию для детального просмотра:
// сводка + очищенный текст описания + исходный HTML как прислал сервис
func FormatJobDetails(job model.RawJob, siteURL string) models.JobDetails {
	rawHTML := job.Info().Description

	return models.JobDetails{
		JobSummary:      FormatJob(job, siteURL),
		Description:     CleanDescription(strOrEmpty(rawHTML)),
		DescriptionHTML: rawHTML,
	}
}

// FilterByLocation отбирает вакансии, у которых фильтр встречается
// (регистронезависимо) в форматированной локации либо в любой из стран,
// штатов или городов. Пустой фильтр возвращает вход как есть.
func FilterByLocation(jobs []model.RawJob, locationFilter string) []model.RawJob {
	if locationFilter == "" {
		return jobs
	}

	needle := strings.ToLower(locationFilter)
	filtered := make([]model.RawJob, 0, len(jobs))

	for _, job := range jobs {
		data := job.Data()
		if strings.Contains(strings.ToLower(strOrEmpty(data.FormattedWorkplaceLocation)), needle) ||
			containsFold(data.WorkplaceCountries, needle) ||
			containsFold(data.WorkplaceStates, needle) ||
			containsFold(data.WorkplaceCities, needle) {
			filtered = append(filtered, job)
		}
	}

	return filtered
}

// блок зарплаты строится только если внешний сервис прислал
// хотя бы одну минимальную компенсацию (годовую или почасовую)
func buildSalaryBlock(data model.ProcessedJobData) *models.SalaryBlock {
	if data.YearlyMinCompensation == nil && data.HourlyMinCompensation == nil {
		return nil
	}

	return &models.SalaryBlock{
		YearlyMin: data.YearlyMinCompensation,
		YearlyMax: data.YearlyMaxCompensation,
		HourlyMin: data.HourlyMinCompensation,
		HourlyMax: data.HourlyMaxCompensation,
		Currency:  data.ListedCompensationCurrency,
		Frequency: data.ListedCompensationFrequency,
	}
}

func containsFold(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}

func boolOrFalse(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
