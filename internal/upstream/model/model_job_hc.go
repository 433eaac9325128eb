package model

// Сырые структуры ответов hiring.cafe. Схема внешнего сервиса - недокументированная
// и может меняться без предупреждения, поэтому все поля - опциональные:
// указатели для скаляров, nil-безопасные срезы для списков.
// Эти данные нам не принадлежат, мы их только читаем.

// SearchResponse представляет ответ от POST /api/search-jobs
type SearchResponse struct {
	Results []RawJob `json:"results"`
	NbHits  int      `json:"nbHits"`
}

// DetailsResponse представляет ответ эндпоинта деталей вакансии
// (Next.js data route: /_next/data/<buildID>/viewjob/<id>.json)
type DetailsResponse struct {
	PageProps PageProps `json:"pageProps"`
}

type PageProps struct {
	Job *RawJob `json:"job"`
}

// RawJob представляет одну вакансию как её присылает hiring.cafe:
// обработанные данные вакансии, обработанные данные компании
// и сырая информация о вакансии (включая HTML описание)
type RawJob struct {
	ID             *string               `json:"id"`
	ApplyURL       *string               `json:"apply_url"`
	JobData        *ProcessedJobData     `json:"v5_processed_job_data"`
	CompanyData    *ProcessedCompanyData `json:"v5_processed_company_data"`
	JobInformation *JobInformation       `json:"job_information"`
}

// ProcessedJobData - обработанная hiring.cafe секция данных вакансии
type ProcessedJobData struct {
	CoreJobTitle               *string  `json:"core_job_title"`
	CompanyName                *string  `json:"company_name"`
	FormattedWorkplaceLocation *string  `json:"formatted_workplace_location"`
	WorkplaceType              *string  `json:"workplace_type"`
	WorkplaceCountries         []string `json:"workplace_countries"`
	WorkplaceStates            []string `json:"workplace_states"`
	WorkplaceCities            []string `json:"workplace_cities"`
	Commitment                 []string `json:"commitment"`
	SeniorityLevel             *string  `json:"seniority_level"`
	RoleType                   *string  `json:"role_type"`

	YearlyMinCompensation       *float64 `json:"yearly_min_compensation"`
	YearlyMaxCompensation       *float64 `json:"yearly_max_compensation"`
	HourlyMinCompensation       *float64 `json:"hourly_min_compensation"`
	HourlyMaxCompensation       *float64 `json:"hourly_max_compensation"`
	ListedCompensationCurrency  *string  `json:"listed_compensation_currency"`
	ListedCompensationFrequency *string  `json:"listed_compensation_frequency"`

	MinIndustryAndRoleYoe         *float64 `json:"min_industry_and_role_yoe"`
	BachelorsDegreeRequirement    *bool    `json:"bachelors_degree_requirement"`
	MastersDegreeRequirement      *bool    `json:"masters_degree_requirement"`
	BachelorsDegreeFieldsOfStudy  []string `json:"bachelors_degree_fields_of_study"`
	LicensesOrCertifications      []string `json:"licenses_or_certifications"`
	TechnicalTools                []string `json:"technical_tools"`
	RequirementsSummary           *string  `json:"requirements_summary"`
	EstimatedPublishDate          *string  `json:"estimated_publish_date"`

	VisaSponsorship       *bool `json:"visa_sponsorship"`
	RelocationAssistance  *bool `json:"relocation_assistance"`
	TuitionReimbursement  *bool `json:"tuition_reimbursement"`
	RetirementPlan        *bool `json:"retirement_plan"`
	GenerousParentalLeave *bool `json:"generous_parental_leave"`
}

// ProcessedCompanyData - обработанная hiring.cafe секция данных компании
type ProcessedCompanyData struct {
	Name *string `json:"name"`
}

// JobInformation - сырая информация о вакансии
type JobInformation struct {
	Title       *string `json:"title"`
	Description *string `json:"description"` // HTML описание как есть
}

// Data возвращает секцию обработанных данных вакансии, nil-безопасно
func (j RawJob) Data() ProcessedJobData {
	if j.JobData == nil {
		return ProcessedJobData{}
	}
	return *j.JobData
}

// Company возвращает секцию данных компании, nil-безопасно
func (j RawJob) Company() ProcessedCompanyData {
	if j.CompanyData == nil {
		return ProcessedCompanyData{}
	}
	return *j.CompanyData
}

// Info возвращает секцию сырой информации о вакансии, nil-безопасно
func (j RawJob) Info() JobInformation {
	if j.JobInformation == nil {
		return JobInformation{}
	}
	return *j.JobInformation
}
