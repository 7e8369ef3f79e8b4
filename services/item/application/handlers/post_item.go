package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/errhttp"
	"github.com/ghuser/inventra/pkg/httpx"
	pkgvalidator "github.com/ghuser/inventra/pkg/validator"
	appsvcs "github.com/ghuser/inventra/services/item/application/services"
)

// CreateItemRequest is the request body for POST /items.
type CreateItemRequest struct {
	SKU          string          `json:"sku" validate:"required,max=64" example:"WID-001"`
	Name         string          `json:"name" validate:"required,min=3,max=255" example:"Blue Widget"`
	Rate         decimal.Decimal `json:"rate" validate:"gte=0" swaggertype:"string" example:"12.50"`
	OpeningStock decimal.Decimal `json:"opening_stock" validate:"gte=0" swaggertype:"string" example:"100"`
} // @name CreateItemRequest

// PostItemHandler handles POST /items requests.
type PostItemHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, errs errhttp.Responder) *PostItemHandler {
	return &PostItemHandler{svc: svc, errs: errs}
}

// Execute creates a new item with its opening stock.
//
//	@Summary		Create item
//	@Description	Creates a stock-tracked item scoped to the caller's organization
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), orgID, appsvcs.CreateItemInput{
		SKU:          req.SKU,
		Name:         req.Name,
		Rate:         req.Rate,
		OpeningStock: req.OpeningStock,
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}
