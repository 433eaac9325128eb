package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// допустимые типы рабочих мест на hiring.cafe
var AllWorkplaceTypes = []string{"Remote", "Hybrid", "On-site"}

// проверка, что тип рабочего места - из списка допустимых
func IsValidWorkplaceType(wt string) bool {
	for _, known := range AllWorkplaceTypes {
		if wt == known {
			return true
		}
	}
	return false
}

// общая структура запроса поиска вакансий (доменная область)
type SearchQuery struct {
	Title          string   // название должности (обязательное поле)
	WorkplaceTypes []string // типы рабочих мест (Remote/Hybrid/On-site)
	LocationFilter string   // фильтр по локации (регистронезависимое вхождение подстроки)
	Page           int
	Size           int
}

// CacheKey строит детерминированный ключ кэша из параметров запроса.
// Типы рабочих мест сортируются, чтобы одинаковые запросы с разным порядком
// типов попадали в один и тот же ключ. Пустой фильтр локации кодируется как "None".
func (q SearchQuery) CacheKey() string {
	types := make([]string, len(q.WorkplaceTypes))
	copy(types, q.WorkplaceTypes)
	sort.Strings(types)

	location := q.LocationFilter
	if location == "" {
		location = "None"
	}

	return fmt.Sprintf("%s:%s:%s:%s:%s",
		q.Title,
		strings.Join(types, ","),
		location,
		strconv.Itoa(q.Page),
		strconv.Itoa(q.Size),
	)
}

// блок зарплаты. Присутствует в вакансии только если внешний сервис
// прислал хотя бы одну из минимальных компенсаций (годовую или почасовую).
// Каждое из числовых полей может независимо отсутствовать.
type SalaryBlock struct {
	YearlyMin *float64 `json:"yearly_min"`
	YearlyMax *float64 `json:"yearly_max"`
	HourlyMin *float64 `json:"hourly_min"`
	HourlyMax *float64 `json:"hourly_max"`
	Currency  *string  `json:"currency"`
	Frequency *string  `json:"frequency"`
}

// требования к образованию
type Education struct {
	Bachelors bool     `json:"bachelors"`
	Masters   bool     `json:"masters"`
	Fields    []string `json:"fields"`
}

// флаги бенефитов. Если внешний сервис поле не прислал - флаг false
type Benefits struct {
	VisaSponsorship      bool `json:"visa_sponsorship"`
	RelocationAssistance bool `json:"relocation_assistance"`
	TuitionReimbursement bool `json:"tuition_reimbursement"`
	RetirementPlan       bool `json:"retirement_plan"`
	ParentalLeave        bool `json:"parental_leave"`
}

// Стуктура нормализованной вакансии - плоская, стабильная схема нашего API
// поверх сырого ответа hiring.cafe
type JobSummary struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Company             string       `json:"company"`
	Location            string       `json:"location"`
	WorkplaceType       string       `json:"workplace_type"`
	Commitment          []string     `json:"commitment"`
	SeniorityLevel      string       `json:"seniority_level"`
	RoleType            string       `json:"role_type"`
	Salary              *SalaryBlock `json:"salary"`
	ExperienceRequired  *float64     `json:"experience_required"`
	Education           Education    `json:"education"`
	Certifications      []string     `json:"certifications"`
	TechnicalTools      []string     `json:"technical_tools"`
	RequirementsSummary string       `json:"requirements_summary"`
	ApplyURL            string       `json:"apply_url"`
	ViewURL             string       `json:"view_url"`
	PostedDate          string       `json:"posted_date"`
	Benefits            Benefits     `json:"benefits"`
}

// Структура для детального просмотра вакансии: нормализованная вакансия
// + очищенный текст описания + сырой HTML описания
type JobDetails struct {
	JobSummary
	Description     string  `json:"description"`      // текст без HTML тегов (пустая строка, если описания нет)
	DescriptionHTML *string `json:"description_html"` // исходный HTML как прислал внешний сервис
}

// Структура страницы результатов поиска (это значение храним в кэше поиска)
type SearchPage struct {
	Total    int          `json:"total"`    // всего найдено на внешнем сервисе (nbHits)
	Filtered int          `json:"filtered"` // сколько осталось после фильтра по локации
	Page     int          `json:"page"`
	Jobs     []JobSummary `json:"jobs"`
}
