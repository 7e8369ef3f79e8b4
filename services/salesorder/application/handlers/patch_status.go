package handlers

import (
	"net/http"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/errhttp"
	"github.com/ghuser/inventra/pkg/httpx"
	pkgvalidator "github.com/ghuser/inventra/pkg/validator"
	appsvcs "github.com/ghuser/inventra/services/salesorder/application/services"
)

// StatusRequest is the body of PATCH /sales-orders/{id}/status.
type StatusRequest struct {
	Status string `json:"status" validate:"required" example:"confirmed"`
} // @name SalesOrderStatusRequest

// FulfillmentStatusRequest is the body of PATCH /sales-orders/{id}/fulfillment-status.
type FulfillmentStatusRequest struct {
	FulfillmentStatus string `json:"fulfillment_status" validate:"required" example:"picking"`
} // @name SalesOrderFulfillmentStatusRequest

// PatchStatusHandler handles PATCH /sales-orders/{id}/status requests.
type PatchStatusHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

func NewPatchStatusHandler(svc *appsvcs.Services, errs errhttp.Responder) *PatchStatusHandler {
	return &PatchStatusHandler{svc: svc, errs: errs}
}

// Execute moves the order to another commercial status, holding or
// releasing stock as the committed quantities change.
//
//	@Summary		Change sales order status
//	@Tags			sales-orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Sales order ID"
//	@Param			request	body		StatusRequest	true	"Target status"
//	@Success		200		{object}	SalesOrderResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Failure		404		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/sales-orders/{id}/status [patch]
func (h *PatchStatusHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[StatusRequest](w, r)
	if !ok {
		return
	}

	// Unknown values reach the service so they map to ErrInvalidStatus.
	order, err := h.svc.SalesOrder.SetStatus(r.Context(), orgID, id, req.Status)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(order))
}

// PatchFulfillmentStatusHandler handles PATCH /sales-orders/{id}/fulfillment-status requests.
type PatchFulfillmentStatusHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

func NewPatchFulfillmentStatusHandler(svc *appsvcs.Services, errs errhttp.Responder) *PatchFulfillmentStatusHandler {
	return &PatchFulfillmentStatusHandler{svc: svc, errs: errs}
}

// Execute advances the fulfillment status. Stock is never touched.
//
//	@Summary		Change sales order fulfillment status
//	@Tags			sales-orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Sales order ID"
//	@Param			request	body		FulfillmentStatusRequest	true	"Target fulfillment status"
//	@Success		200		{object}	SalesOrderResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Failure		404		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/sales-orders/{id}/fulfillment-status [patch]
func (h *PatchFulfillmentStatusHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[FulfillmentStatusRequest](w, r)
	if !ok {
		return
	}

	order, err := h.svc.SalesOrder.SetFulfillmentStatus(r.Context(), orgID, id, req.FulfillmentStatus)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(order))
}
