package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sebastiensimon1/hiring-cafe/configs"
	"github.com/sebastiensimon1/hiring-cafe/internal/circuitbreaker"
	"github.com/sebastiensimon1/hiring-cafe/internal/domain/models"
	"github.com/sebastiensimon1/hiring-cafe/internal/interfaces"
	"github.com/sebastiensimon1/hiring-cafe/internal/upstream/model"
)

// фиксированные значения searchState, которые hiring.cafe ждёт в запросе поиска
var (
	allCommitmentTypes = []string{"Full Time", "Part Time", "Contract", "Internship"}
	allSeniorityLevels = []string{"No Prior Experience Required", "Entry Level", "Mid Level", "Senior Level"}
)

// структуры тела запроса POST /api/search-jobs
type searchPayload struct {
	Size        int         `json:"size"`
	Page        int         `json:"page"`
	SearchState searchState `json:"searchState"`
}

type searchState struct {
	WorkplaceTypes       []string `json:"workplaceTypes"`
	CommitmentTypes      []string `json:"commitmentTypes"`
	SeniorityLevel       []string `json:"seniorityLevel"`
	SearchQuery          string   `json:"searchQuery"`
	DateFetchedPastNDays int      `json:"dateFetchedPastNDays"`
	SortBy               string   `json:"sortBy"`
}

// HiringCafeClient - клиент внутреннего API hiring.cafe.
// Внешний сервис защищается недокументированными анти-бот эвристиками,
// поэтому клиент делает три вещи:
// 1. каждый исходящий запрос (включая каждый ретрай) проходит через общий throttle
// 2. User-Agent ротируется случайно из пула на каждую попытку
// 3. 403 трактуется как мягкий сигнал rate limit и ретраится с экспоненциальным
// backoff, таймаут - с плоской паузой; остальные ошибки не ретраятся
type HiringCafeClient struct {
	cfg *configs.UpstreamConfig

	// два http клиента с разными таймаутами, транспорт общий
	searchClient  *http.Client
	detailsClient *http.Client

	gate      interfaces.Throttle // общий ограничитель исходящих запросов
	breaker   interfaces.Breaker  // circuit breaker (отказоустойчивость)
	semaphore chan struct{}       // семафор (ограничение конкурентности)

	rngMu sync.Mutex
	rng   *rand.Rand // источник для выбора User-Agent
}

// конструктор клиента hiring.cafe
func NewHiringCafeClient(cfg *configs.UpstreamConfig, gate interfaces.Throttle) (*HiringCafeClient, error) {
	if cfg == nil {
		cfg = configs.DefaultUpstreamConfig()
	}
	if gate == nil {
		return nil, fmt.Errorf("upstream client: throttle is required")
	}
	if len(cfg.UserAgents) == 0 {
		return nil, fmt.Errorf("upstream client: user agent pool is empty")
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("upstream client: max attempts must be positive, got %d", cfg.MaxAttempts)
	}

	transport := createTransport(cfg)

	return &HiringCafeClient{
		cfg:           cfg,
		searchClient:  &http.Client{Timeout: cfg.SearchTimeout, Transport: transport},
		detailsClient: &http.Client{Timeout: cfg.DetailsTimeout, Transport: transport},
		gate:          gate,
		breaker:       circuitbreaker.NewCircuitBreaker(cfg.CircuitBreaker),
		semaphore:     make(chan struct{}, cfg.MaxConcurrent),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// функция, которая создаёт транспорт с параметрами из конфига
func createTransport(cfg *configs.UpstreamConfig) *http.Transport {
	return &http.Transport{
		MaxConnsPerHost:       cfg.MaxConcurrent,
		MaxIdleConnsPerHost:   cfg.MaxIdleConns,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ExpectContinueTimeout: cfg.ExpectContinueTimeout,
	}
}

// Search выполняет поиск вакансий на hiring.cafe
func (c *HiringCafeClient) Search(ctx context.Context, query models.SearchQuery) (*model.SearchResponse, error) {
	payload := searchPayload{
		Size: query.Size,
		Page: query.Page,
		SearchState: searchState{
			WorkplaceTypes:       query.WorkplaceTypes,
			CommitmentTypes:      allCommitmentTypes,
			SeniorityLevel:       allSeniorityLevels,
			SearchQuery:          query.Title,
			DateFetchedPastNDays: 121,
			SortBy:               "default",
		},
	}

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal search payload: %v", ErrUpstreamUnexpected, err)
	}

	buildReq := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.cfg.SiteURL+"/api/search-jobs", bytes.NewReader(rawPayload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		// hiring.cafe проверяет, что запрос похож на запрос из их собственного фронтенда
		req.Header.Set("Referer", c.cfg.SiteURL+"/?searchState=%7B%22searchQuery%22%3A%22"+
			strings.ReplaceAll(query.Title, " ", "+")+"%22%7D")
		c.setCommonHeaders(req)
		return req, nil
	}

	body, err := c.fetchWithRetry(ctx, buildReq, c.searchClient, c.cfg.BackoffSearchTimeout)
	if err != nil {
		return nil, err
	}

	// анмаршалим успешное тело ответа в нужную структуру
	var resp model.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parse search response: %v", ErrUpstreamUnexpected, err)
	}
	return &resp, nil
}

// FetchDetails получает детальную информацию о вакансии по ID
func (c *HiringCafeClient) FetchDetails(ctx context.Context, jobID string) (*model.DetailsResponse, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: job ID cannot be empty", ErrUpstreamUnexpected)
	}

	buildReq := func(ctx context.Context) (*http.Request, error) {
		detailsURL := fmt.Sprintf("%s/_next/data/%s/viewjob/%s.json", c.cfg.SiteURL, c.cfg.BuildID, jobID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailsURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Nextjs-Data", "1")
		req.Header.Set("Referer", c.cfg.SiteURL+"/viewjob/"+jobID)
		c.setCommonHeaders(req)
		return req, nil
	}

	body, err := c.fetchWithRetry(ctx, buildReq, c.detailsClient, c.cfg.BackoffDetailsTimeout)
	if err != nil {
		return nil, err
	}

	var resp model.DetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parse details response: %v", ErrUpstreamUnexpected, err)
	}
	return &resp, nil
}

// setCommonHeaders выставляет общие заголовки + случайный User-Agent из пула
func (c *HiringCafeClient) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Origin", c.cfg.SiteURL)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("User-Agent", c.randomUserAgent())
}

// randomUserAgent выбирает случайный User-Agent из пула (ротация личности)
func (c *HiringCafeClient) randomUserAgent() string {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.cfg.UserAgents[c.rng.Intn(len(c.cfg.UserAgents))]
}

// fetchWithRetry - цикл ретраев с классификацией ошибок:
// Attempting -> BackingOff -> Attempting -> ... -> Exhausted/Success.
// 403: экспоненциальный backoff (base * 2^(n-1)), после исчерпания - ErrUpstreamRateLimited.
// Таймаут: плоская пауза, после исчерпания - ErrUpstreamTimeout.
// Всё остальное - наружу сразу, без ретраев
func (c *HiringCafeClient) fetchWithRetry(
	ctx context.Context,
	buildReq func(context.Context) (*http.Request, error),
	client *http.Client,
	timeoutBackoff time.Duration,
) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		// каждая попытка (включая ретраи) заново проходит throttle:
		// квота и интервал общие для всех типов запросов.
		// Ошибка квоты и отмена контекста уходят наружу как есть
		if err := c.gate.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.attempt(ctx, buildReq, client)
		if err == nil {
			return body, nil
		}

		// breaker отклонил запрос локально - ретраить бессмысленно
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return nil, err
		}

		switch {
		case errors.Is(err, errSoft403):
			lastErr = fmt.Errorf("%w (after %d attempts)", ErrUpstreamRateLimited, attempt)
			if attempt < c.cfg.MaxAttempts {
				// экспоненциальный backoff: 10s, 20s, ...
				backoff := c.cfg.Backoff403Base * time.Duration(1<<(attempt-1))
				log.Printf("[upstream] got 403, attempt %d/%d, backing off for %v", attempt, c.cfg.MaxAttempts, backoff)
				if err := c.sleep(ctx, backoff); err != nil {
					return nil, err
				}
			}

		case isTimeout(err):
			lastErr = fmt.Errorf("%w (after %d attempts): %v", ErrUpstreamTimeout, attempt, err)
			if attempt < c.cfg.MaxAttempts {
				log.Printf("[upstream] timeout, attempt %d/%d, retrying in %v", attempt, c.cfg.MaxAttempts, timeoutBackoff)
				if err := c.sleep(ctx, timeoutBackoff); err != nil {
					return nil, err
				}
			}

		default:
			// не-403 HTTP ошибки и прочие сбои транспорта не ретраим
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnexpected, err)
		}
	}

	return nil, lastErr
}

// attempt - одна попытка запроса под защитой circuit breaker
func (c *HiringCafeClient) attempt(
	ctx context.Context,
	buildReq func(context.Context) (*http.Request, error),
	client *http.Client,
) ([]byte, error) {
	var body []byte

	err := c.breaker.Execute(func() error {
		// Обработка семафора
		if err := c.acquireSemaphore(ctx); err != nil {
			return err
		}
		defer c.releaseSemaphore()

		// тело запроса нужно пересоздавать на каждую попытку (reader одноразовый)
		req, err := buildReq(ctx)
		if err != nil {
			return fmt.Errorf("create request failed: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer c.drainAndClose(resp)

		// 403 - мягкий сигнал rate limit, наверху он уйдёт в backoff
		if resp.StatusCode == http.StatusForbidden {
			return errSoft403
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response failed: %w", err)
		}
		return nil
	})

	return body, err
}

// sleep - пауза между попытками, прерываемая контекстом вызывающего
func (c *HiringCafeClient) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// метод проверки доступности семафора
func (c *HiringCafeClient) acquireSemaphore(ctx context.Context) error {
	select {
	case c.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context canceled while waiting for semaphore: %w", ctx.Err())
	case <-time.After(2 * time.Second):
		// клиент занят: классифицируем как таймаут, чтобы попытка ушла в ретрай
		return fmt.Errorf("%w: client is busy (semaphore timeout)", ErrUpstreamTimeout)
	}
}

// метод освобождения семафора
func (c *HiringCafeClient) releaseSemaphore() {
	<-c.semaphore
}

// метод для дренирования и закрытия тела ответа, освобождения ресурсов.
// вычитывает данные в мусорный ридер с лимитом, чтобы соединение вернулось в пул
func (c *HiringCafeClient) drainAndClose(resp *http.Response) {
	const maxBodySlurp = 1 << 20 // 1MB
	io.CopyN(io.Discard, resp.Body, maxBodySlurp)
	_ = resp.Body.Close()
}

// Проверка на этапе компиляции, что тип реализует интерфейс
var _ interfaces.UpstreamClient = (*HiringCafeClient)(nil)
