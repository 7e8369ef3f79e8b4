package handlers

import (
	"net/http"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/errhttp"
	"github.com/ghuser/inventra/pkg/httpx"
	appsvcs "github.com/ghuser/inventra/services/item/application/services"
)

// ListItemsHandler handles GET /items requests.
type ListItemsHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

func NewListItemsHandler(svc *appsvcs.Services, errs errhttp.Responder) *ListItemsHandler {
	return &ListItemsHandler{svc: svc, errs: errs}
}

// Execute searches the org's items by name or SKU.
//
//	@Summary	List items
//	@Tags		items
//	@Produce	json
//	@Param		q		query		string	false	"Name or SKU fragment"
//	@Param		limit	query		int		false	"Page size (max 200)"
//	@Param		offset	query		int		false	"Page offset"
//	@Success	200		{object}	ItemPage
//	@Failure	401		{object}	httpx.ErrorBody
//	@Router		/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}

	opts := queryOpts(r)
	items, total, err := h.svc.Item.Search(r.Context(), orgID, opts)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	data := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		data = append(data, toItemResponse(it))
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[ItemResponse]{
		Data: data, Total: total, Limit: opts.Limit, Offset: opts.Offset,
	})
}

// ListMovementsHandler handles GET /items/{id}/movements requests.
type ListMovementsHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Responder
}

func NewListMovementsHandler(svc *appsvcs.Services, errs errhttp.Responder) *ListMovementsHandler {
	return &ListMovementsHandler{svc: svc, errs: errs}
}

// Execute returns the item's stock ledger, newest first.
//
//	@Summary	List stock movements
//	@Tags		items
//	@Produce	json
//	@Param		id		path		string	true	"Item ID"
//	@Param		limit	query		int		false	"Page size (max 200)"
//	@Param		offset	query		int		false	"Page offset"
//	@Success	200		{object}	StockMovementPage
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Router		/items/{id}/movements [get]
func (h *ListMovementsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.RequireOrg(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	opts := queryOpts(r)
	opts.Query = ""
	movements, total, err := h.svc.Item.Movements(r.Context(), orgID, id, opts)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	data := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		data = append(data, toMovementResponse(m))
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[StockMovementResponse]{
		Data: data, Total: total, Limit: opts.Limit, Offset: opts.Offset,
	})
}
