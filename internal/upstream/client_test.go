package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiensimon1/hiring-cafe/configs"
	"github.com/sebastiensimon1/hiring-cafe/internal/circuitbreaker"
	"github.com/sebastiensimon1/hiring-cafe/internal/domain/models"
	"github.com/sebastiensimon1/hiring-cafe/internal/throttle"
)

// заглушка throttle: считает входы в гейт, может возвращать заданную ошибку
type gateStub struct {
	calls int32
	err   error
}

func (g *gateStub) Wait(ctx context.Context) error {
	atomic.AddInt32(&g.calls, 1)
	return g.err
}

func (g *gateStub) count() int {
	return int(atomic.LoadInt32(&g.calls))
}

// тестовый конфиг с маленькими паузами, чтобы ретраи не спали десятки секунд
func testUpstreamConfig(serverURL string) *configs.UpstreamConfig {
	cfg := configs.DefaultUpstreamConfig()
	cfg.SiteURL = serverURL
	cfg.BuildID = "test-build"
	cfg.SearchTimeout = 2 * time.Second
	cfg.DetailsTimeout = 2 * time.Second
	cfg.Backoff403Base = 30 * time.Millisecond
	cfg.BackoffSearchTimeout = 20 * time.Millisecond
	cfg.BackoffDetailsTimeout = 20 * time.Millisecond
	return cfg
}

func testQuery() models.SearchQuery {
	return models.SearchQuery{
		Title:          "software engineer",
		WorkplaceTypes: []string{"Remote", "Hybrid", "On-site"},
		Page:           0,
		Size:           40,
	}
}

// проверяем, что Search шлёт корректное тело запроса и разбирает ответ
func TestHiringCafeClient_Search(t *testing.T) {
	t.Run("sends expected payload and parses response", func(t *testing.T) {
		var gotPayload searchPayload
		var gotUA string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/search-jobs", r.URL.Path)
			gotUA = r.Header.Get("User-Agent")

			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"results":[{"id":"job-1"}],"nbHits":5}`))
		}))
		defer server.Close()

		gate := &gateStub{}
		client, err := NewHiringCafeClient(testUpstreamConfig(server.URL), gate)
		require.NoError(t, err)

		resp, err := client.Search(context.Background(), testQuery())
		require.NoError(t, err)

		assert.Equal(t, 5, resp.NbHits)
		require.Len(t, resp.Results, 1)
		require.NotNil(t, resp.Results[0].ID)
		assert.Equal(t, "job-1", *resp.Results[0].ID)

		// тело запроса - как его ждёт hiring.cafe
		assert.Equal(t, 40, gotPayload.Size)
		assert.Equal(t, "software engineer", gotPayload.SearchState.SearchQuery)
		assert.Equal(t, allCommitmentTypes, gotPayload.SearchState.CommitmentTypes)
		assert.Equal(t, allSeniorityLevels, gotPayload.SearchState.SeniorityLevel)
		assert.Equal(t, 121, gotPayload.SearchState.DateFetchedPastNDays)
		assert.Equal(t, "default", gotPayload.SearchState.SortBy)

		// User-Agent взят из пула
		assert.Contains(t, configs.DefaultUpstreamConfig().UserAgents, gotUA)

		// гейт пройден ровно один раз
		assert.Equal(t, 1, gate.count())
	})

	// три 403 подряд: два backoff (base, 2*base), потом ErrUpstreamRateLimited
	// без четвёртой попытки
	t.Run("403 is retried with exponential backoff then rate limited", func(t *testing.T) {
		var requests int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		cfg := testUpstreamConfig(server.URL)
		gate := &gateStub{}
		client, err := NewHiringCafeClient(cfg, gate)
		require.NoError(t, err)

		start := time.Now()
		_, err = client.Search(context.Background(), testQuery())
		elapsed := time.Since(start)

		assert.ErrorIs(t, err, ErrUpstreamRateLimited)
		assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
		// каждый ретрай заново проходит гейт
		assert.Equal(t, 3, gate.count())
		// паузы: base + 2*base = 90ms, без паузы после последней попытки
		assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond)
		assert.Less(t, elapsed, 90*time.Millisecond+200*time.Millisecond)
	})

	t.Run("non-403 HTTP error is returned immediately with status", func(t *testing.T) {
		var requests int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			http.Error(w, "internal failure", http.StatusInternalServerError)
		}))
		defer server.Close()

		client, err := NewHiringCafeClient(testUpstreamConfig(server.URL), &gateStub{})
		require.NoError(t, err)

		_, err = client.Search(context.Background(), testQuery())

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requests)) // без ретраев
	})

	t.Run("timeout is retried with flat delay then surfaced", func(t *testing.T) {
		var requests int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			time.Sleep(300 * time.Millisecond)
		}))
		defer server.Close()

		cfg := testUpstreamConfig(server.URL)
		cfg.SearchTimeout = 50 * time.Millisecond
		cfg.ResponseHeaderTimeout = 50 * time.Millisecond
		cfg.MaxAttempts = 2

		client, err := NewHiringCafeClient(cfg, &gateStub{})
		require.NoError(t, err)

		_, err = client.Search(context.Background(), testQuery())

		assert.ErrorIs(t, err, ErrUpstreamTimeout)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
	})

	// при исчерпанной квоте запрос на внешний сервис вообще не уходит
	t.Run("quota denial bypasses the network entirely", func(t *testing.T) {
		var requests int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
		}))
		defer server.Close()

		gate := &gateStub{err: throttle.ErrQuotaExceeded}
		client, err := NewHiringCafeClient(testUpstreamConfig(server.URL), gate)
		require.NoError(t, err)

		_, err = client.Search(context.Background(), testQuery())

		assert.ErrorIs(t, err, throttle.ErrQuotaExceeded)
		assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
	})

	t.Run("malformed response body is an unexpected failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		client, err := NewHiringCafeClient(testUpstreamConfig(server.URL), &gateStub{})
		require.NoError(t, err)

		_, err = client.Search(context.Background(), testQuery())
		assert.ErrorIs(t, err, ErrUpstreamUnexpected)
	})
}

// проверяем запрос деталей вакансии
func TestHiringCafeClient_FetchDetails(t *testing.T) {
	t.Run("hits versioned data path and parses page props", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/_next/data/test-build/viewjob/job-42.json", r.URL.Path)
			assert.Equal(t, "1", r.Header.Get("X-Nextjs-Data"))

			w.Write([]byte(`{"pageProps":{"job":{"id":"job-42","job_information":{"title":"Go Developer"}}}}`))
		}))
		defer server.Close()

		client, err := NewHiringCafeClient(testUpstreamConfig(server.URL), &gateStub{})
		require.NoError(t, err)

		resp, err := client.FetchDetails(context.Background(), "job-42")
		require.NoError(t, err)

		require.NotNil(t, resp.PageProps.Job)
		require.NotNil(t, resp.PageProps.Job.ID)
		assert.Equal(t, "job-42", *resp.PageProps.Job.ID)
		require.NotNil(t, resp.PageProps.Job.Info().Title)
		assert.Equal(t, "Go Developer", *resp.PageProps.Job.Info().Title)
	})

	t.Run("rejects empty job id", func(t *testing.T) {
		client, err := NewHiringCafeClient(testUpstreamConfig("http://127.0.0.1:0"), &gateStub{})
		require.NoError(t, err)

		_, err = client.FetchDetails(context.Background(), "")
		assert.ErrorIs(t, err, ErrUpstreamUnexpected)
	})
}

// после серии ошибок circuit breaker должен отклонять запросы локально
func TestHiringCafeClient_CircuitBreaker(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testUpstreamConfig(server.URL)
	cfg.CircuitBreaker = circuitbreaker.CircuitBreakerConfig{
		FailureThreshold:    2,
		SuccessThreshold:    1,
		HalfOpenMaxRequests: 1,
		ResetTimeout:        time.Minute,
	}

	client, err := NewHiringCafeClient(cfg, &gateStub{})
	require.NoError(t, err)

	ctx := context.Background()

	// 502 не ретраится, так что каждый вызов - одна попытка
	_, err = client.Search(ctx, testQuery())
	require.Error(t, err)
	_, err = client.Search(ctx, testQuery())
	require.Error(t, err)

	// breaker открыт: запрос отклоняется локально, на сервер не уходит
	_, err = client.Search(ctx, testQuery())
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

// проверяем валидацию конструктора
func TestNewHiringCafeClient(t *testing.T) {
	t.Run("requires a throttle", func(t *testing.T) {
		_, err := NewHiringCafeClient(configs.DefaultUpstreamConfig(), nil)
		assert.Error(t, err)
	})

	t.Run("requires a non-empty user agent pool", func(t *testing.T) {
		cfg := configs.DefaultUpstreamConfig()
		cfg.UserAgents = nil
		_, err := NewHiringCafeClient(cfg, &gateStub{})
		assert.Error(t, err)
	})
}
