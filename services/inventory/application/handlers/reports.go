package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/restocker/pkg/errhttp"
	"github.com/ghuser/restocker/pkg/httpx"
	"github.com/ghuser/restocker/services/inventory/application/export"
	appsvcs "github.com/ghuser/restocker/services/inventory/application/services"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

const maxSpendMonths = 36

// SpendResponse wraps GET /api/spend.
type SpendResponse struct {
	Months  []domainsvcs.MonthBucket `json:"months"`
	Total   float64                  `json:"total"   example:"123.40"`
	Average float64                  `json:"average" example:"20.56"`
} // @name SpendResponse

// BarcodeResponse is a cached barcode lookup.
type BarcodeResponse struct {
	Code string `json:"code" example:"4006381333931"`
	Name string `json:"name" example:"Oat milk"`
	Unit string `json:"unit" example:"l"`
} // @name BarcodeResponse

// GetBasketHandler handles GET /api/basket requests.
type GetBasketHandler struct {
	svc *appsvcs.Services
}

// NewGetBasketHandler returns a GetBasketHandler backed by the given services.
func NewGetBasketHandler(svc *appsvcs.Services) *GetBasketHandler {
	return &GetBasketHandler{svc: svc}
}

// Execute builds the restock basket for a store, or for every store.
//
//	@Summary		Restock basket
//	@Description	Low items with needed quantity and estimated cost. md and csv formats are downloads.
//	@Tags			reports
//	@Produce		json
//	@Param			store	query		string	false	"Store filter; empty means all stores"
//	@Param			format	query		string	false	"json (default), md or csv"
//	@Success		200		{object}	object
//	@Failure		400		{object}	ErrorResponse
//	@Router			/basket [get]
func (h *GetBasketHandler) Execute(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatJSON
	}
	contentType, ext, err := export.ContentType(format)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := r.Context()
	basket, err := h.svc.Inventory.Basket(ctx, r.URL.Query().Get("store"), h.svc.Preferences.RateMode(ctx, deviceID(r)))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if format == export.FormatJSON {
		httpx.JSON(w, http.StatusOK, basket)
		return
	}

	var buf bytes.Buffer
	if err := export.Basket(&buf, basket, format); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.Attachment(w, contentType, "basket-"+time.Now().UTC().Format("2006-01-02")+"."+ext, buf.Bytes())
}

// GetBestPriceHandler handles GET /api/prices/best requests.
type GetBestPriceHandler struct {
	svc *appsvcs.Services
}

// NewGetBestPriceHandler returns a GetBestPriceHandler backed by the given services.
func NewGetBestPriceHandler(svc *appsvcs.Services) *GetBestPriceHandler {
	return &GetBestPriceHandler{svc: svc}
}

// Execute returns the cheapest known unit price for a product name.
//
//	@Summary	Best price
//	@Tags		reports
//	@Produce	json
//	@Param		name	query		string	true	"Product name (case-insensitive)"
//	@Param		store	query		string	false	"Restrict to one store"
//	@Param		unit	query		string	false	"Compare prices in this unit's kind (g, ml, l, pcs)"
//	@Success	200		{object}	object
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/prices/best [get]
func (h *GetBestPriceHandler) Execute(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}
	quote, err := h.svc.Inventory.BestPrice(r.Context(), name, r.URL.Query().Get("store"), r.URL.Query().Get("unit"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

// GetSpendHandler handles GET /api/spend requests.
type GetSpendHandler struct {
	svc           *appsvcs.Services
	defaultMonths int
}

// NewGetSpendHandler returns a GetSpendHandler that reports defaultMonths
// months unless the request asks otherwise.
func NewGetSpendHandler(svc *appsvcs.Services, defaultMonths int) *GetSpendHandler {
	if defaultMonths <= 0 {
		defaultMonths = domainsvcs.DefaultSpendMonths
	}
	return &GetSpendHandler{svc: svc, defaultMonths: defaultMonths}
}

// Execute returns monthly purchase totals, oldest month first.
//
//	@Summary	Monthly spend
//	@Tags		reports
//	@Produce	json
//	@Param		months	query		int	false	"Trailing months (1-36)"
//	@Success	200		{object}	SpendResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/spend [get]
func (h *GetSpendHandler) Execute(w http.ResponseWriter, r *http.Request) {
	months := h.defaultMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSpendMonths {
			httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "months must be between 1 and 36"})
			return
		}
		months = n
	}

	buckets, err := h.svc.Inventory.Spend(r.Context(), months)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	resp := SpendResponse{Months: buckets}
	for _, b := range buckets {
		resp.Total += b.Total
	}
	if len(buckets) > 0 {
		resp.Average = resp.Total / float64(len(buckets))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// GetBarcodeHandler handles GET /api/barcodes/{code} requests.
type GetBarcodeHandler struct {
	svc *appsvcs.Services
}

// NewGetBarcodeHandler returns a GetBarcodeHandler backed by the given services.
func NewGetBarcodeHandler(svc *appsvcs.Services) *GetBarcodeHandler {
	return &GetBarcodeHandler{svc: svc}
}

// Execute resolves a scanned barcode to the name and unit of the item last
// saved with it.
//
//	@Summary	Barcode lookup
//	@Tags		items
//	@Produce	json
//	@Param		code	path		string	true	"Barcode"
//	@Success	200		{object}	BarcodeResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/barcodes/{code} [get]
func (h *GetBarcodeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Barcodes.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, BarcodeResponse{Code: entry.Code, Name: entry.Name, Unit: entry.Unit})
}
