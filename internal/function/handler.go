// Package function binds the customer listing to an API Gateway proxy invocation.
package function

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"github.com/nurlyy/customer_data/internal/api/endpoint"
	"github.com/nurlyy/customer_data/pkg/logger"
)

// Handler serves customer listing invocations
type Handler struct {
	endpoint *endpoint.Endpoint
	logger   logger.Logger
}

// NewHandler creates a new Handler
func NewHandler(ep *endpoint.Endpoint, logger logger.Logger) *Handler {
	return &Handler{
		endpoint: ep,
		logger:   logger,
	}
}

// Handle answers one invocation. Failures are reported in the response,
// so the returned error is always nil.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp := h.endpoint.ListCustomers(ctx, endpoint.QueryFromParams(req.QueryStringParameters))

	h.logger.Debug("Invocation handled", map[string]interface{}{
		"request_id": req.RequestContext.RequestID,
		"status":     resp.StatusCode,
	})

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}, nil
}
