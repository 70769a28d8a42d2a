package handlers

import (
	"net/http"

	"github.com/nurlyy/customer_data/internal/api/endpoint"
)

// CustomerHandler serves customer listing requests
type CustomerHandler struct {
	BaseHandler
	endpoint *endpoint.Endpoint
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(base BaseHandler, ep *endpoint.Endpoint) *CustomerHandler {
	return &CustomerHandler{
		BaseHandler: base,
		endpoint:    ep,
	}
}

// ListCustomers handles GET /customers?cursor=...&limit=...
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	resp := h.endpoint.ListCustomers(r.Context(), h.GetListQuery(r))
	h.RespondWithEndpoint(w, r, resp)
}
