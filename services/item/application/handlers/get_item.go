package handlers

import (
	"net/http"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/errhttp"
	"github.com/ghuser/inventra/pkg/httpx"
	appsvcs "github.com/ghuser/inventra/services/item/application/services"
)

// GetItemHandler handles GET /items/{id} requests.
type GetItemHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

func NewGetItemHandler(svc *appsvcs.Services, errs errhttp.Responder) *GetItemHandler {
	return &GetItemHandler{svc: svc, errs: errs}
}

// Execute returns one item with its current stock.
//
//	@Summary	Get item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"
//	@Success	200	{object}	ItemResponse
//	@Failure	400	{object}	httpx.ErrorBody
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	404	{object}	httpx.ErrorBody
//	@Router		/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.GetByID(r.Context(), orgID, id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
