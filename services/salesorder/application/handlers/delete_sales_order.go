package handlers

import (
	"net/http"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/errhttp"
	"github.com/ghuser/inventra/pkg/httpx"
	appsvcs "github.com/ghuser/inventra/services/salesorder/application/services"
)

// DeleteSalesOrderHandler handles DELETE /sales-orders/{id} requests.
type DeleteSalesOrderHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

func NewDeleteSalesOrderHandler(svc *appsvcs.Services, errs errhttp.Responder) *DeleteSalesOrderHandler {
	return &DeleteSalesOrderHandler{svc: svc, errs: errs}
}

// Execute deletes a sales order. Stock held by a confirmed order is returned.
//
//	@Summary		Delete sales order
//	@Tags			sales-orders
//	@Produce		json
//	@Param			id	path		string	true	"Sales order ID"
//	@Success		200	{object}	MessageResponse
//	@Failure		400	{object}	httpx.ErrorBody
//	@Failure		401	{object}	httpx.ErrorBody
//	@Failure		404	{object}	httpx.ErrorBody
//	@Router			/sales-orders/{id} [delete]
func (h *DeleteSalesOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := h.svc.SalesOrder.Delete(r.Context(), orgID, id); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, MessageResponse{Message: "sales order deleted"})
}
