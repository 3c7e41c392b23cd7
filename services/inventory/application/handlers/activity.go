package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/restocker/pkg/errhttp"
	"github.com/ghuser/restocker/pkg/httpx"
	pkgvalidator "github.com/ghuser/restocker/pkg/validator"
	appsvcs "github.com/ghuser/restocker/services/inventory/application/services"
	"github.com/ghuser/restocker/services/inventory/domain/models"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

// ActivityRequest is the request body for POST /api/items/{id}/activity.
// "use" consumes qty, "buy" restocks it and, when priced, updates the
// last-purchase snapshot.
type ActivityRequest struct {
	Type  string     `json:"type"  validate:"required,oneof=use buy" example:"buy"`
	Qty   float64    `json:"qty"   validate:"gte=0"                  example:"2"`
	Price *float64   `json:"price" validate:"omitempty,gte=0"        example:"4.20"`
	Ts    *time.Time `json:"ts"`
	Store string     `json:"store" validate:"max=100"`
	Note  string     `json:"note"  validate:"max=500"`
} // @name ActivityRequest

// PostActivityHandler handles POST /api/items/{id}/activity requests.
type PostActivityHandler struct {
	svc *appsvcs.Services
}

// NewPostActivityHandler returns a PostActivityHandler backed by the given services.
func NewPostActivityHandler(svc *appsvcs.Services) *PostActivityHandler {
	return &PostActivityHandler{svc: svc}
}

// Execute logs a use or buy event and returns the updated item.
//
//	@Summary		Log activity
//	@Description	Applies a use/buy event atomically. Quantity never drops below zero.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Item ID"
//	@Param			request	body		ActivityRequest	true	"Activity"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/{id}/activity [post]
func (h *PostActivityHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ActivityRequest](w, r)
	if !ok {
		return
	}

	ev := models.ActivityEvent{
		Type:  models.ActivityType(req.Type),
		Qty:   req.Qty,
		Price: req.Price,
		Store: req.Store,
		Note:  req.Note,
	}
	if req.Ts != nil {
		ev.Ts = *req.Ts
	}

	ctx := r.Context()
	item, err := h.svc.Inventory.LogActivity(ctx, id, ev)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	mode := h.svc.Preferences.RateMode(ctx, deviceID(r))
	httpx.JSON(w, http.StatusOK, toItemResponse(item, domainsvcs.Evaluate(item, mode, time.Now().UTC()), true))
}
