// Package endpoint holds the transport independent customer listing endpoint.
//
// HTTP and function-invocation bindings both translate their request into a
// Query, call Endpoint.ListCustomers and write the returned Response as is.
package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/nurlyy/customer_data/internal/domain"
	apperrors "github.com/nurlyy/customer_data/pkg/errors"
	"github.com/nurlyy/customer_data/pkg/logger"
	"github.com/nurlyy/customer_data/pkg/validator"
)

// Page size bounds applied before the listing service is called
const (
	DefaultLimit = 5
	MinLimit     = 1
	MaxLimit     = 10
)

// Query parameter names
const (
	ParamCursor = "cursor"
	ParamLimit  = "limit"
)

var fallbackErrorBody = []byte(`{"error":"serialization failure"}`)

// CustomerLister returns one page of customers
type CustomerLister interface {
	List(ctx context.Context, cursor string, limit int) (domain.Page, error)
}

// Query holds the raw, single-value request parameters
type Query struct {
	Cursor string `json:"cursor" validate:"omitempty,max=1024,cursor_token"`
	Limit  string `json:"limit"`
}

// QueryFromParams builds a Query from a single-value parameter map.
// A nil map is treated as an empty one.
func QueryFromParams(params map[string]string) Query {
	return Query{
		Cursor: params[ParamCursor],
		Limit:  params[ParamLimit],
	}
}

// Response is a fully shaped reply ready to be written by a transport
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Endpoint serves the customer listing
type Endpoint struct {
	lister    CustomerLister
	validator *validator.CustomValidator
	logger    logger.Logger
}

// New creates the listing endpoint
func New(lister CustomerLister, v *validator.CustomValidator, logger logger.Logger) *Endpoint {
	return &Endpoint{
		lister:    lister,
		validator: v,
		logger:    logger,
	}
}

// ListCustomers answers a listing request.
// It never returns a Go error: failures are already mapped to a 400 or 500 Response.
func (e *Endpoint) ListCustomers(ctx context.Context, q Query) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = e.failure(fmt.Errorf("panic while listing customers: %v", r))
		}
	}()

	q.Cursor = strings.TrimSpace(q.Cursor)
	limit := ParseLimit(q.Limit)

	e.logger.Info("List customers request", map[string]interface{}{
		"cursor": q.Cursor,
		"limit":  limit,
	})

	if err := e.validator.Validate(q); err != nil {
		return e.failure(fmt.Errorf("%w: %v", domain.ErrInvalidCursor, err))
	}

	page, err := e.lister.List(ctx, q.Cursor, limit)
	if err != nil {
		return e.failure(err)
	}

	items := page.Items
	if items == nil {
		items = []domain.Customer{}
	}

	body, err := json.Marshal(domain.CursorResponse{
		Data:       items,
		NextCursor: page.NextCursor,
		Limit:      limit,
	})
	if err != nil {
		return e.failure(fmt.Errorf("failed to encode listing: %w", err))
	}

	e.logger.Info("Returning customers", map[string]interface{}{
		"count":    len(items),
		"has_next": page.HasNext(),
		"status":   http.StatusOK,
	})

	return Response{
		StatusCode: http.StatusOK,
		Headers:    secureJSONHeaders(),
		Body:       body,
	}
}

// ParseLimit turns the raw limit parameter into a page size in [MinLimit, MaxLimit].
// Missing or non-integer input yields DefaultLimit.
func ParseLimit(raw string) int {
	if raw == "" {
		return DefaultLimit
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return DefaultLimit
	}
	switch {
	case v < MinLimit:
		return MinLimit
	case v > MaxLimit:
		return MaxLimit
	default:
		return int(v)
	}
}

func (e *Endpoint) failure(err error) Response {
	appErr := toAppError(err)

	if appErr.StatusCode >= http.StatusInternalServerError {
		e.logger.Error("Unexpected error", err)
	} else {
		e.logger.Error(appErr.Message, err)
	}

	body, marshalErr := json.Marshal(domain.ErrorResponse{
		Error:   appErr.Title,
		Message: appErr.Message,
	})
	if marshalErr != nil {
		body = fallbackErrorBody
	}

	return Response{
		StatusCode: appErr.StatusCode,
		Headers:    jsonHeaders(),
		Body:       body,
	}
}

func toAppError(err error) *apperrors.AppError {
	if errors.Is(err, domain.ErrInvalidCursor) {
		return apperrors.BadRequest("Invalid cursor", err)
	}
	return apperrors.FromError(err)
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
	}
}

func secureJSONHeaders() map[string]string {
	return map[string]string{
		"Content-Type":           "application/json",
		"Cache-Control":          "no-store",
		"X-Content-Type-Options": "nosniff",
	}
}
