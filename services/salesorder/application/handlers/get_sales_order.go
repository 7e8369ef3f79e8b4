package handlers

import (
	"net/http"
	"strings"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/errhttp"
	"github.com/ghuser/inventra/pkg/httpx"
	appsvcs "github.com/ghuser/inventra/services/salesorder/application/services"
	"github.com/ghuser/inventra/services/salesorder/domain/models"
	"github.com/ghuser/inventra/services/salesorder/domain/repositories"
)

// GetSalesOrderHandler handles GET /sales-orders/{id} requests.
type GetSalesOrderHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

func NewGetSalesOrderHandler(svc *appsvcs.Services, errs errhttp.Responder) *GetSalesOrderHandler {
	return &GetSalesOrderHandler{svc: svc, errs: errs}
}

// Execute returns one sales order.
//
//	@Summary		Get sales order
//	@Tags			sales-orders
//	@Produce		json
//	@Param			id	path		string	true	"Sales order ID"
//	@Success		200	{object}	SalesOrderResponse
//	@Failure		400	{object}	httpx.ErrorBody
//	@Failure		401	{object}	httpx.ErrorBody
//	@Failure		404	{object}	httpx.ErrorBody
//	@Router			/sales-orders/{id} [get]
func (h *GetSalesOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.SalesOrder.Get(r.Context(), orgID, id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(order))
}

// ListSalesOrdersHandler handles GET /sales-orders requests.
type ListSalesOrdersHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

func NewListSalesOrdersHandler(svc *appsvcs.Services, errs errhttp.Responder) *ListSalesOrdersHandler {
	return &ListSalesOrdersHandler{svc: svc, errs: errs}
}

// Execute lists the org's sales orders, newest first.
//
//	@Summary		List sales orders
//	@Tags			sales-orders
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"	Enums(draft, confirmed, delivered, cancelled)
//	@Param			limit	query		int		false	"Page size (max 200)"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	SalesOrderPage
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Router			/sales-orders [get]
func (h *ListSalesOrdersHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}

	limit, offset := httpx.Pagination(r)
	filter := repositories.ListFilter{Limit: limit, Offset: offset}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			h.errs.Write(w, r, err)
			return
		}
		filter.Status = &st
	}

	orders, total, err := h.svc.SalesOrder.List(r.Context(), orgID, filter)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	data := make([]SalesOrderResponse, 0, len(orders))
	for _, o := range orders {
		data = append(data, toResponse(o))
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[SalesOrderResponse]{
		Data: data, Total: total, Limit: limit, Offset: offset,
	})
}
