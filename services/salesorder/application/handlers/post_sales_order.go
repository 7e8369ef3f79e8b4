package handlers

import (
	"net/http"
	"strings"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/errhttp"
	"github.com/ghuser/inventra/pkg/httpx"
	pkgvalidator "github.com/ghuser/inventra/pkg/validator"
	appsvcs "github.com/ghuser/inventra/services/salesorder/application/services"
)

// IdempotencyKeyHeader lets clients retry a create without creating twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// PostSalesOrderHandler handles POST /sales-orders requests.
type PostSalesOrderHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

// NewPostSalesOrderHandler returns a PostSalesOrderHandler backed by the given services.
func NewPostSalesOrderHandler(svc *appsvcs.Services, errs errhttp.Responder) *PostSalesOrderHandler {
	return &PostSalesOrderHandler{svc: svc, errs: errs}
}

// Execute creates a sales order as a draft or as confirmed. A confirmed
// order holds stock for its lines.
//
//	@Summary		Create sales order
//	@Description	Creates a draft or confirmed sales order; a confirmed order holds stock atomically
//	@Tags			sales-orders
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string				false	"Replays the first response for a repeated key"
//	@Param			request			body		SalesOrderRequest	true	"Sales order"
//	@Success		201				{object}	SalesOrderResponse
//	@Success		200				{object}	SalesOrderResponse	"Replayed idempotent create"
//	@Failure		400				{object}	httpx.ErrorBody
//	@Failure		401				{object}	httpx.ErrorBody
//	@Failure		409				{object}	httpx.ErrorBody
//	@Router			/sales-orders [post]
func (h *PostSalesOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
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

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	order, replayed, err := h.svc.SalesOrder.CreateIdempotent(r.Context(), orgID, key, in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	httpx.JSON(w, status, toResponse(order))
}
