package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ghuser/restocker/pkg/errhttp"
	"github.com/ghuser/restocker/pkg/httpx"
	"github.com/ghuser/restocker/pkg/logger"
	pkgvalidator "github.com/ghuser/restocker/pkg/validator"
	appsvcs "github.com/ghuser/restocker/services/inventory/application/services"
	"github.com/ghuser/restocker/services/inventory/domain/models"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

// ItemListResponse wraps GET /api/items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total" example:"12"`
} // @name ItemListResponse

// PostItemHandler handles POST /api/items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, log logger.Logger) *PostItemHandler {
	return &PostItemHandler{svc: svc, log: log}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Creates an item. The unit and store are remembered in the device preferences.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ItemRequest	true	"Item"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[ItemRequest](w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	item, err := h.svc.Inventory.Create(ctx, req.toItem())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	rememberSaved(r, h.svc, h.log, item)

	mode := h.svc.Preferences.RateMode(ctx, deviceID(r))
	httpx.JSON(w, http.StatusCreated, toItemResponse(item, domainsvcs.Evaluate(item, mode, time.Now().UTC()), true))
}

// GetItemHandler handles GET /api/items/{id} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services) *GetItemHandler {
	return &GetItemHandler{svc: svc}
}

// Execute returns one item with its activity history.
//
//	@Summary		Get item
//	@Tags			items
//	@Produce		json
//	@Param			id	path		int	true	"Item ID"
//	@Success		200	{object}	ItemResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	item, err := h.svc.Inventory.Get(ctx, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	mode := h.svc.Preferences.RateMode(ctx, deviceID(r))
	httpx.JSON(w, http.StatusOK, toItemResponse(item, domainsvcs.Evaluate(item, mode, time.Now().UTC()), true))
}

// ListItemsHandler handles GET /api/items requests.
type ListItemsHandler struct {
	svc *appsvcs.Services
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services) *ListItemsHandler {
	return &ListItemsHandler{svc: svc}
}

// Execute lists items sorted by name with their stock signals.
//
//	@Summary		List items
//	@Description	Lists items sorted by name. Signals use the device's rate mode.
//	@Tags			items
//	@Produce		json
//	@Param			q		query		string	false	"Case-insensitive name filter"
//	@Param			store	query		string	false	"Only items bought at this store"
//	@Param			low		query		bool	false	"Only low-stock items"
//	@Success		200		{object}	ItemListResponse
//	@Router			/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	views, err := h.svc.Inventory.List(ctx, appsvcs.ListQuery{
		Search:  q.Get("q"),
		Store:   q.Get("store"),
		LowOnly: isTrue(q.Get("low")),
		Mode:    h.svc.Preferences.RateMode(ctx, deviceID(r)),
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := ItemListResponse{Items: make([]ItemResponse, len(views)), Total: len(views)}
	for i, v := range views {
		resp.Items[i] = toItemResponse(v.Item, v.Signals, false)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// PutItemHandler handles PUT /api/items/{id} requests.
type PutItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPutItemHandler returns a PutItemHandler backed by the given services.
func NewPutItemHandler(svc *appsvcs.Services, log logger.Logger) *PutItemHandler {
	return &PutItemHandler{svc: svc, log: log}
}

// Execute replaces an item's editable fields. Activity history is kept.
//
//	@Summary		Replace item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int			true	"Item ID"
//	@Param			request	body		ItemRequest	true	"Item"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ItemRequest](w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	item, err := h.svc.Inventory.Replace(ctx, id, req.toItem())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	rememberSaved(r, h.svc, h.log, item)

	mode := h.svc.Preferences.RateMode(ctx, deviceID(r))
	httpx.JSON(w, http.StatusOK, toItemResponse(item, domainsvcs.Evaluate(item, mode, time.Now().UTC()), true))
}

// PatchItemHandler handles PATCH /api/items/{id} requests.
type PatchItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPatchItemHandler returns a PatchItemHandler backed by the given services.
func NewPatchItemHandler(svc *appsvcs.Services, log logger.Logger) *PatchItemHandler {
	return &PatchItemHandler{svc: svc, log: log}
}

// Execute merges the given fields onto an item.
//
//	@Summary		Update item fields
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Item ID"
//	@Param			request	body		ItemPatchRequest	true	"Fields to change"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/{id} [patch]
func (h *PatchItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ItemPatchRequest](w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	item, err := h.svc.Inventory.Update(ctx, id, req.toPatch())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	rememberSaved(r, h.svc, h.log, item)

	mode := h.svc.Preferences.RateMode(ctx, deviceID(r))
	httpx.JSON(w, http.StatusOK, toItemResponse(item, domainsvcs.Evaluate(item, mode, time.Now().UTC()), true))
}

// DeleteItemHandler handles DELETE /api/items/{id} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc}
}

// Execute deletes an item and its history.
//
//	@Summary	Delete item
//	@Tags		items
//	@Param		id	path	int	true	"Item ID"
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Inventory.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rememberSaved records the item's store and unit for the device. Failures
// only cost convenience, so they are logged and swallowed.
func rememberSaved(r *http.Request, svc *appsvcs.Services, log logger.Logger, item *models.Item) {
	ctx := r.Context()
	if err := svc.Preferences.RecordItemSaved(ctx, deviceID(r), item.Store, item.Unit); err != nil {
		log.WarnContext(ctx, "record item preferences", "item_id", item.ID, "error", err)
	}
}

func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
