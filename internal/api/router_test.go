package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurlyy/customer_data/internal/api/endpoint"
	"github.com/nurlyy/customer_data/internal/api/handlers"
	mw "github.com/nurlyy/customer_data/internal/api/middleware"
	"github.com/nurlyy/customer_data/internal/domain"
	"github.com/nurlyy/customer_data/internal/service"
	"github.com/nurlyy/customer_data/pkg/config"
	"github.com/nurlyy/customer_data/pkg/logger"
	"github.com/nurlyy/customer_data/pkg/validator"
)

type listing struct {
	Data       []domain.Customer `json:"data"`
	NextCursor *string           `json:"nextCursor"`
	Limit      int               `json:"limit"`
}

func testConfig(basePath string) *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Port:            "0",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
			RequestTimeout:  5 * time.Second,
			BasePath:        basePath,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func newTestServer(t *testing.T, count int, cfg *config.Config, limiter *mw.RateLimiter) *Server {
	t.Helper()
	customers := make([]domain.Customer, 0, count)
	for i := 1; i <= count; i++ {
		customers = append(customers, domain.Customer{
			CustomerID:       int64(i),
			FullName:         fmt.Sprintf("Customer %d", i),
			Email:            fmt.Sprintf("customer%d@example.com", i),
			RegistrationDate: "01/01/2023",
		})
	}
	log := logger.NewNop()
	svc, err := service.NewCustomerService(customers, log)
	require.NoError(t, err)
	ep := endpoint.New(svc, validator.NewValidator(), log)
	return NewServer(cfg, log, handlers.NewCustomerHandler(handlers.NewBaseHandler(log), ep), limiter)
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, 0, testConfig(""), nil)
	rec := get(s, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}

func TestServer_ListCustomersTraversal(t *testing.T) {
	s := newTestServer(t, 11, testConfig(""), nil)

	var ids []int64
	target := "/api/customers?limit=4"
	for pages := 0; pages < 10; pages++ {
		rec := get(s, target)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, rec.Header().Get(mw.RequestIDHeader))

		var body listing
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 4, body.Limit)
		for _, c := range body.Data {
			ids = append(ids, c.CustomerID)
		}
		if body.NextCursor == nil {
			break
		}
		target = "/api/customers?limit=4&cursor=" + *body.NextCursor
	}

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, ids)
}

func TestServer_ListCustomersFirstValueWins(t *testing.T) {
	s := newTestServer(t, 11, testConfig(""), nil)
	rec := get(s, "/api/customers?limit=2&limit=9")

	require.Equal(t, http.StatusOK, rec.Code)
	var body listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Limit)
}

func TestServer_InvalidCursor(t *testing.T) {
	s := newTestServer(t, 11, testConfig(""), nil)
	rec := get(s, "/api/customers?cursor=not-valid-base64!")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"error":"Bad Request","message":"Invalid cursor"}`, rec.Body.String())
}

func TestServer_BasePath(t *testing.T) {
	s := newTestServer(t, 3, testConfig("/v1"), nil)

	assert.Equal(t, http.StatusOK, get(s, "/v1/api/customers").Code)
	assert.Equal(t, http.StatusNotFound, get(s, "/api/customers").Code)
}

func TestServer_NotFoundAndMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, 3, testConfig(""), nil)

	rec := get(s, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found","message":"Resource not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/customers", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t, 3, testConfig(""), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RateLimited(t *testing.T) {
	limiter := mw.NewRateLimiter(mw.RateLimiterConfig{Limit: 1, Period: 60, Strategy: mw.RateLimitIP}, nil, logger.NewNop())
	s := newTestServer(t, 3, testConfig(""), limiter)

	assert.Equal(t, http.StatusOK, get(s, "/api/customers").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(s, "/api/customers").Code)

	// health is not rate limited
	assert.Equal(t, http.StatusOK, get(s, "/health").Code)
}
