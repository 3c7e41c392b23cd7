package handlers

import (
	"net/http"

	"github.com/ghuser/restocker/pkg/errhttp"
	"github.com/ghuser/restocker/pkg/httpx"
	pkgvalidator "github.com/ghuser/restocker/pkg/validator"
	appsvcs "github.com/ghuser/restocker/services/inventory/application/services"
)

// PreferencesRequest is the request body for PUT /api/preferences. Absent
// fields keep their current value.
type PreferencesRequest struct {
	LastUnit   *string `json:"last_unit"   validate:"omitempty,max=32"            example:"g"`
	SimpleMode *bool   `json:"simple_mode"`
	RateMode   *string `json:"rate_mode"   validate:"omitempty,oneof=manual auto" example:"auto"`
} // @name PreferencesRequest

// GetPreferencesHandler handles GET /api/preferences requests.
type GetPreferencesHandler struct {
	svc *appsvcs.Services
}

// NewGetPreferencesHandler returns a GetPreferencesHandler backed by the given services.
func NewGetPreferencesHandler(svc *appsvcs.Services) *GetPreferencesHandler {
	return &GetPreferencesHandler{svc: svc}
}

// Execute returns the calling device's preferences.
//
//	@Summary	Get preferences
//	@Tags		preferences
//	@Produce	json
//	@Success	200	{object}	models.Preferences
//	@Router		/preferences [get]
func (h *GetPreferencesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.svc.Preferences.Get(r.Context(), deviceID(r))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, prefs)
}

// PutPreferencesHandler handles PUT /api/preferences requests.
type PutPreferencesHandler struct {
	svc *appsvcs.Services
}

// NewPutPreferencesHandler returns a PutPreferencesHandler backed by the given services.
func NewPutPreferencesHandler(svc *appsvcs.Services) *PutPreferencesHandler {
	return &PutPreferencesHandler{svc: svc}
}

// Execute updates the calling device's preferences.
//
//	@Summary	Update preferences
//	@Tags		preferences
//	@Accept		json
//	@Produce	json
//	@Param		request	body		PreferencesRequest	true	"Preferences"
//	@Success	200		{object}	models.Preferences
//	@Failure	400		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/preferences [put]
func (h *PutPreferencesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[PreferencesRequest](w, r)
	if !ok {
		return
	}
	prefs, err := h.svc.Preferences.Update(r.Context(), deviceID(r), appsvcs.PreferencesUpdate{
		LastUnit:   req.LastUnit,
		SimpleMode: req.SimpleMode,
		RateMode:   req.RateMode,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, prefs)
}
