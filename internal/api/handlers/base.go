package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nurlyy/customer_data/internal/api/endpoint"
	"github.com/nurlyy/customer_data/internal/domain"
	"github.com/nurlyy/customer_data/pkg/logger"
)

// BaseHandler holds helpers shared by all handlers
type BaseHandler struct {
	Logger logger.Logger
}

// NewBaseHandler creates a new BaseHandler
func NewBaseHandler(logger logger.Logger) BaseHandler {
	return BaseHandler{
		Logger: logger,
	}
}

// Respond writes data as JSON with the given status code
func (h *BaseHandler) Respond(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.Logger.Error("Failed to encode response", err, map[string]interface{}{
				"path": r.URL.Path,
			})
		}
	}
}

// RespondWithEndpoint writes a response produced by the listing endpoint unchanged
func (h *BaseHandler) RespondWithEndpoint(w http.ResponseWriter, r *http.Request, resp endpoint.Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := w.Write(resp.Body); err != nil {
		h.Logger.Error("Failed to write response", err, map[string]interface{}{
			"path": r.URL.Path,
		})
	}
}

// RespondWithError writes an error body in the listing error format
func (h *BaseHandler) RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	h.Respond(w, r, statusCode, domain.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// GetListQuery extracts the single-value listing parameters from the URL
func (h *BaseHandler) GetListQuery(r *http.Request) endpoint.Query {
	values := r.URL.Query()
	return endpoint.Query{
		Cursor: values.Get(endpoint.ParamCursor),
		Limit:  values.Get(endpoint.ParamLimit),
	}
}
