package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurlyy/customer_data/internal/domain"
	"github.com/nurlyy/customer_data/internal/service"
	"github.com/nurlyy/customer_data/pkg/logger"
	"github.com/nurlyy/customer_data/pkg/validator"
)

type listerFunc func(ctx context.Context, cursor string, limit int) (domain.Page, error)

func (f listerFunc) List(ctx context.Context, cursor string, limit int) (domain.Page, error) {
	return f(ctx, cursor, limit)
}

type listing struct {
	Data []struct {
		CustomerID int64  `json:"customerId"`
		FullName   string `json:"fullName"`
	} `json:"data"`
	NextCursor *string `json:"nextCursor"`
	Limit      int     `json:"limit"`
}

func newTestEndpoint(t *testing.T, count int) *Endpoint {
	t.Helper()
	customers := make([]domain.Customer, 0, count)
	for i := 1; i <= count; i++ {
		customers = append(customers, domain.Customer{
			CustomerID: int64(i),
			FullName:   fmt.Sprintf("Test Customer %d", i),
			Email:      fmt.Sprintf("customer%d@test.com", i),
		})
	}
	svc, err := service.NewCustomerService(customers, logger.NewNop())
	require.NoError(t, err)
	return New(svc, validator.NewValidator(), logger.NewNop())
}

func decodeListing(t *testing.T, resp Response) listing {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))
	var body listing
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	return body
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 5},
		{"abc", 5},
		{"7", 7},
		{"+7", 7},
		{"0", 1},
		{"-4", 1},
		{"1", 1},
		{"10", 10},
		{"999", 10},
		{"3.5", 5},
		{" 7", 5},
		{"99999999999", 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.raw), func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLimit(tt.raw))
		})
	}
}

func TestQueryFromParams(t *testing.T) {
	assert.Equal(t, Query{}, QueryFromParams(nil))
	assert.Equal(t, Query{Cursor: "abc", Limit: "3"}, QueryFromParams(map[string]string{"cursor": "abc", "limit": "3", "other": "x"}))
}

func TestListCustomers_Traversal(t *testing.T) {
	ep := newTestEndpoint(t, 11)
	ctx := context.Background()

	first := decodeListing(t, ep.ListCustomers(ctx, Query{Limit: "7"}))
	assert.Len(t, first.Data, 7)
	assert.Equal(t, 7, first.Limit)
	require.NotNil(t, first.NextCursor)

	second := decodeListing(t, ep.ListCustomers(ctx, Query{Cursor: *first.NextCursor, Limit: "7"}))
	require.Len(t, second.Data, 4)
	assert.Equal(t, int64(8), second.Data[0].CustomerID)
	assert.Equal(t, int64(11), second.Data[3].CustomerID)
	assert.Nil(t, second.NextCursor)
}

func TestListCustomers_SuccessShape(t *testing.T) {
	ep := newTestEndpoint(t, 3)
	resp := ep.ListCustomers(context.Background(), Query{})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{
		"Content-Type":           "application/json",
		"Cache-Control":          "no-store",
		"X-Content-Type-Options": "nosniff",
	}, resp.Headers)
	assert.Contains(t, string(resp.Body), `"nextCursor":null`)
	assert.Contains(t, string(resp.Body), `"limit":5`)
	assert.Contains(t, string(resp.Body), `"customerId":1`)
	assert.Contains(t, string(resp.Body), `"registrationDate":""`)
}

func TestListCustomers_LimitClamping(t *testing.T) {
	ep := newTestEndpoint(t, 11)

	tests := []struct {
		raw       string
		wantLimit int
	}{
		{"0", 1},
		{"999", 10},
		{"abc", 5},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			body := decodeListing(t, ep.ListCustomers(context.Background(), Query{Limit: tt.raw}))
			assert.Equal(t, tt.wantLimit, body.Limit)
			assert.Len(t, body.Data, tt.wantLimit)
		})
	}
}

func TestListCustomers_BlankCursorIsFirstPage(t *testing.T) {
	ep := newTestEndpoint(t, 4)
	body := decodeListing(t, ep.ListCustomers(context.Background(), Query{Cursor: "   ", Limit: "2"}))
	require.Len(t, body.Data, 2)
	assert.Equal(t, int64(1), body.Data[0].CustomerID)
}

func TestListCustomers_EmptyDataset(t *testing.T) {
	ep := newTestEndpoint(t, 0)
	resp := ep.ListCustomers(context.Background(), Query{})
	assert.JSONEq(t, `{"data":[],"nextCursor":null,"limit":5}`, string(resp.Body))
}

func TestListCustomers_InvalidCursor(t *testing.T) {
	ep := newTestEndpoint(t, 11)

	for _, cursor := range []string{
		"not-valid-base64!",
		"WzEsMl0",
		strings.Repeat("a", 1025),
	} {
		resp := ep.ListCustomers(context.Background(), Query{Cursor: cursor})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, map[string]string{"Content-Type": "application/json"}, resp.Headers)
		assert.JSONEq(t, `{"error":"Bad Request","message":"Invalid cursor"}`, string(resp.Body))
	}
}

func TestListCustomers_UnexpectedError(t *testing.T) {
	tests := []struct {
		name   string
		lister CustomerLister
	}{
		{"error", listerFunc(func(context.Context, string, int) (domain.Page, error) {
			return domain.Page{}, errors.New("snapshot corrupted")
		})},
		{"panic", listerFunc(func(context.Context, string, int) (domain.Page, error) {
			panic("index out of range")
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := New(tt.lister, validator.NewValidator(), logger.NewNop())
			resp := ep.ListCustomers(context.Background(), Query{})
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, map[string]string{"Content-Type": "application/json"}, resp.Headers)
			assert.JSONEq(t, `{"error":"Internal Server Error","message":"Unexpected error occurred"}`, string(resp.Body))
			assert.NotContains(t, string(resp.Body), "snapshot")
		})
	}
}

func TestListCustomers_PassesClampedLimit(t *testing.T) {
	var gotCursor string
	var gotLimit int
	ep := New(listerFunc(func(_ context.Context, cursor string, limit int) (domain.Page, error) {
		gotCursor, gotLimit = cursor, limit
		return domain.Page{}, nil
	}), validator.NewValidator(), logger.NewNop())

	resp := ep.ListCustomers(context.Background(), Query{Cursor: " eyJsYXN0SWQiOjd9 ", Limit: "50"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "eyJsYXN0SWQiOjd9", gotCursor)
	assert.Equal(t, MaxLimit, gotLimit)
	assert.JSONEq(t, `{"data":[],"nextCursor":null,"limit":10}`, string(resp.Body))
}
