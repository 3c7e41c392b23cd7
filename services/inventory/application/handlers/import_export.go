package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ghuser/restocker/pkg/errhttp"
	"github.com/ghuser/restocker/pkg/httpx"
	"github.com/ghuser/restocker/services/inventory/application/export"
	appsvcs "github.com/ghuser/restocker/services/inventory/application/services"
)

// ImportResponse reports a best-effort bulk upsert. Records listed in Errors
// were skipped; all others were written.
type ImportResponse struct {
	Created int      `json:"created" example:"3"`
	Updated int      `json:"updated" example:"5"`
	Failed  int      `json:"failed"  example:"0"`
	Errors  []string `json:"errors,omitempty"`
} // @name ImportResponse

// ImportItemsHandler handles POST /api/items/import requests.
type ImportItemsHandler struct {
	svc *appsvcs.Services
}

// NewImportItemsHandler returns an ImportItemsHandler backed by the given services.
func NewImportItemsHandler(svc *appsvcs.Services) *ImportItemsHandler {
	return &ImportItemsHandler{svc: svc}
}

// Execute upserts a JSON array of partial items, matching existing items by
// case-insensitive trimmed name.
//
//	@Summary		Import items
//	@Description	Accepts a JSON array (e.g. a backup). A payload that is not an array is rejected before any write.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	ImportResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		413	{object}	ErrorResponse
//	@Router			/items/import [post]
func (h *ImportItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Request body too large"})
			return
		}
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "could not read request body"})
		return
	}

	res, err := h.svc.Inventory.Import(r.Context(), payload)
	if err != nil && res.Created+res.Updated+res.Failed == 0 {
		errhttp.WriteError(w, err)
		return
	}

	resp := ImportResponse{Created: res.Created, Updated: res.Updated, Failed: res.Failed}
	for _, e := range joinedErrors(err) {
		resp.Errors = append(resp.Errors, e.Error())
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// ExportItemsHandler handles GET /api/items/export requests.
type ExportItemsHandler struct {
	svc *appsvcs.Services
}

// NewExportItemsHandler returns an ExportItemsHandler backed by the given services.
func NewExportItemsHandler(svc *appsvcs.Services) *ExportItemsHandler {
	return &ExportItemsHandler{svc: svc}
}

// Execute downloads every item as a JSON backup that import accepts back.
//
//	@Summary	Export backup
//	@Tags		items
//	@Produce	json
//	@Success	200
//	@Router		/items/export [get]
func (h *ExportItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Inventory.Export(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.Backup(&buf, items); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	name := "restocker-backup-" + time.Now().UTC().Format("2006-01-02") + ".json"
	httpx.Attachment(w, "application/json", name, buf.Bytes())
}

func joinedErrors(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
