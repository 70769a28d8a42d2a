package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/nurlyy/customer_data/internal/cursor"
	"github.com/nurlyy/customer_data/internal/domain"
	"github.com/nurlyy/customer_data/pkg/logger"
)

// CustomerService pages through an immutable customer snapshot ordered by id
type CustomerService struct {
	customers []domain.Customer
	logger    logger.Logger
}

// NewCustomerService builds the service over a copy of customers sorted by id.
// The snapshot is never modified afterwards, so the service is safe for concurrent use.
func NewCustomerService(customers []domain.Customer, logger logger.Logger) (*CustomerService, error) {
	sorted := make([]domain.Customer, len(customers))
	copy(sorted, customers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CustomerID < sorted[j].CustomerID
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].CustomerID == sorted[i-1].CustomerID {
			return nil, fmt.Errorf("%w: %d", domain.ErrDuplicateCustomerID, sorted[i].CustomerID)
		}
	}

	logger.Info("Customer snapshot ready", map[string]interface{}{
		"customers": len(sorted),
	})

	return &CustomerService{
		customers: sorted,
		logger:    logger,
	}, nil
}

// Size returns the number of customers in the snapshot
func (s *CustomerService) Size() int {
	return len(s.customers)
}

// List returns up to limit customers following the position encoded in rawCursor.
// An empty rawCursor starts at the lowest id. The only error returned for
// client input is domain.ErrInvalidCursor.
func (s *CustomerService) List(ctx context.Context, rawCursor string, limit int) (domain.Page, error) {
	s.logger.Debug("Listing customers", map[string]interface{}{
		"cursor": rawCursor,
		"limit":  limit,
	})

	payload, err := cursor.Decode(rawCursor)
	if err != nil {
		return domain.Page{}, err
	}

	start := 0
	if lastID, ok := resumeAfter(payload); ok {
		start = s.indexAfter(lastID)
	} else if payload != nil {
		s.logger.Warn("Cursor carries no usable lastId, listing from the first customer", map[string]interface{}{
			"cursor": rawCursor,
		})
	}

	total := len(s.customers)
	end := start
	if limit > 0 {
		end = total
		if limit < total-start {
			end = start + limit
		}
	}

	items := make([]domain.Customer, end-start)
	copy(items, s.customers[start:end])

	page := domain.Page{Items: items}
	hasNext := end < total
	if hasNext && len(items) > 0 {
		next, err := cursor.Encode(cursor.Payload{cursor.LastIDKey: items[len(items)-1].CustomerID})
		if err != nil {
			return domain.Page{}, fmt.Errorf("failed to build next cursor: %w", err)
		}
		page.NextCursor = &next
	}

	s.logger.Debug("Customers listed", map[string]interface{}{
		"items":    len(items),
		"has_next": hasNext,
	})

	return page, nil
}

// indexAfter returns the index of the first customer with an id greater than lastID,
// or the snapshot size when there is none.
func (s *CustomerService) indexAfter(lastID int64) int {
	return sort.Search(len(s.customers), func(i int) bool {
		return s.customers[i].CustomerID > lastID
	})
}

// resumeAfter extracts the id to resume after.
// A decodable cursor whose lastId is missing or
// not an integer restarts the listing instead of failing the request.
func resumeAfter(payload cursor.Payload) (int64, bool) {
	switch v := payload[cursor.LastIDKey].(type) {
	case json.Number:
		id, err := v.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	case int64:
		return v, true
	default:
		return 0, false
	}
}
