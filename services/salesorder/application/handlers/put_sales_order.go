package handlers

import (
	"net/http"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/errhttp"
	"github.com/ghuser/inventra/pkg/httpx"
	pkgvalidator "github.com/ghuser/inventra/pkg/validator"
	appsvcs "github.com/ghuser/inventra/services/salesorder/application/services"
)

// PutSalesOrderHandler handles PUT /sales-orders/{id} requests.
type PutSalesOrderHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

func NewPutSalesOrderHandler(svc *appsvcs.Services, errs errhttp.Responder) *PutSalesOrderHandler {
	return &PutSalesOrderHandler{svc: svc, errs: errs}
}

// Execute replaces the editable fields of a sales order and reconciles stock
// for any change in committed quantities.
//
//	@Summary		Update sales order
//	@Description	Replaces header, lines, totals and attachments; an omitted status keeps the current one
//	@Tags			sales-orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Sales order ID"
//	@Param			request	body		SalesOrderRequest	true	"Sales order"
//	@Success		200		{object}	SalesOrderResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Failure		404		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/sales-orders/{id} [put]
func (h *PutSalesOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[SalesOrderRequest](w, r)
	if !ok {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	order, err := h.svc.SalesOrder.Update(r.Context(), orgID, id, in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(order))
}
