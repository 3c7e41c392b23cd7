package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/restocker/pkg/auth"
	"github.com/ghuser/restocker/pkg/httpx"
	"github.com/ghuser/restocker/services/inventory/domain/models"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

// ItemRequest is the request body for POST /api/items and PUT /api/items/{id}.
type ItemRequest struct {
	Name        string     `json:"name"         validate:"required,notblank,max=255" example:"Basmati rice"`
	Category    string     `json:"category"     validate:"max=100"                   example:"Pantry"`
	Store       string     `json:"store"        validate:"max=100"                   example:"Aldi"`
	Notes       string     `json:"notes"        validate:"max=1000"`
	Unit        string     `json:"unit"         validate:"max=32"                    example:"g"`
	Quantity    float64    `json:"quantity"     validate:"gte=0"                     example:"1000"`
	Threshold   float64    `json:"threshold"    validate:"gte=0"                     example:"250"`
	DailyUse    *float64   `json:"daily_use"    validate:"omitempty,gte=0"           example:"80"`
	PricePaid   *float64   `json:"price_paid"   validate:"omitempty,gte=0"           example:"3.49"`
	PurchaseTs  *time.Time `json:"purchase_ts"`
	Barcode     string     `json:"barcode"      validate:"max=64"                    example:"4006381333931"`
	NotifyBelow bool       `json:"notify_below"`
} // @name ItemRequest

func (req ItemRequest) toItem() *models.Item {
	return &models.Item{
		Name:        models.ItemName(req.Name),
		Category:    req.Category,
		Store:       req.Store,
		Notes:       req.Notes,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		Threshold:   req.Threshold,
		DailyUse:    req.DailyUse,
		PricePaid:   req.PricePaid,
		PurchaseTs:  req.PurchaseTs,
		Barcode:     req.Barcode,
		NotifyBelow: req.NotifyBelow,
	}
}

// ItemPatchRequest is the request body for PATCH /api/items/{id}. Absent
// fields are left unchanged.
type ItemPatchRequest struct {
	Name        *string    `json:"name"         validate:"omitempty,notblank,max=255"`
	Category    *string    `json:"category"     validate:"omitempty,max=100"`
	Store       *string    `json:"store"        validate:"omitempty,max=100"`
	Notes       *string    `json:"notes"        validate:"omitempty,max=1000"`
	Unit        *string    `json:"unit"         validate:"omitempty,max=32"`
	Quantity    *float64   `json:"quantity"     validate:"omitempty,gte=0"`
	Threshold   *float64   `json:"threshold"    validate:"omitempty,gte=0"`
	DailyUse    *float64   `json:"daily_use"    validate:"omitempty,gte=0"`
	PricePaid   *float64   `json:"price_paid"   validate:"omitempty,gte=0"`
	PurchaseTs  *time.Time `json:"purchase_ts"`
	Barcode     *string    `json:"barcode"      validate:"omitempty,max=64"`
	NotifyBelow *bool      `json:"notify_below"`
} // @name ItemPatchRequest

func (req ItemPatchRequest) toPatch() models.ItemPatch {
	return models.ItemPatch{
		Name:        req.Name,
		Category:    req.Category,
		Store:       req.Store,
		Notes:       req.Notes,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		Threshold:   req.Threshold,
		DailyUse:    req.DailyUse,
		PricePaid:   req.PricePaid,
		PurchaseTs:  req.PurchaseTs,
		Barcode:     req.Barcode,
		NotifyBelow: req.NotifyBelow,
	}
}

// UnitPriceResponse is a normalized price.
type UnitPriceResponse struct {
	Value *float64 `json:"value" example:"0.35"`
	Label string   `json:"label" example:"$0.35 per 100g"`
	Kind  string   `json:"kind"  example:"g100"`
} // @name UnitPriceResponse

// ActivityResponse is one entry of an item's history.
type ActivityResponse struct {
	Type  string    `json:"type"  example:"buy"`
	Qty   float64   `json:"qty"   example:"2"`
	Ts    time.Time `json:"ts"    example:"2024-01-15T10:30:00Z"`
	Price *float64  `json:"price" example:"4.20"`
	Store string    `json:"store,omitempty"`
	Note  string    `json:"note,omitempty"`
} // @name ActivityResponse

// ItemResponse is an item with its derived stock signals. DaysLeft is null
// when no consumption rate is known.
type ItemResponse struct {
	ID           int64              `json:"id"             example:"42"`
	Name         string             `json:"name"           example:"Basmati rice"`
	Category     string             `json:"category"       example:"Pantry"`
	Store        string             `json:"store"          example:"Aldi"`
	Notes        string             `json:"notes"`
	Unit         string             `json:"unit"           example:"g"`
	Quantity     float64            `json:"quantity"       example:"1000"`
	Threshold    float64            `json:"threshold"      example:"250"`
	DailyUse     *float64           `json:"daily_use"      example:"80"`
	PricePaid    *float64           `json:"price_paid"     example:"3.49"`
	PurchaseTs   *time.Time         `json:"purchase_ts"`
	Barcode      string             `json:"barcode,omitempty"`
	NotifyBelow  bool               `json:"notify_below"`
	LastNotifyTs *time.Time         `json:"last_notify_ts"`
	CreatedAt    time.Time          `json:"created_at"     example:"2024-01-15T10:30:00Z"`
	UpdatedAt    time.Time          `json:"updated_at"     example:"2024-01-15T10:30:00Z"`
	DailyRate    float64            `json:"daily_rate"     example:"80"`
	DaysLeft     *float64           `json:"days_left"      example:"12.5"`
	Low          bool               `json:"low"`
	UnitPrice    UnitPriceResponse  `json:"unit_price"`
	Activity     []ActivityResponse `json:"activity,omitempty"`
} // @name ItemResponse

func toItemResponse(item *models.Item, sig domainsvcs.StockSignals, withActivity bool) ItemResponse {
	resp := ItemResponse{
		ID:           item.ID,
		Name:         item.Name.String(),
		Category:     item.Category,
		Store:        item.Store,
		Notes:        item.Notes,
		Unit:         item.Unit,
		Quantity:     item.Quantity,
		Threshold:    item.Threshold,
		DailyUse:     item.DailyUse,
		PricePaid:    item.PricePaid,
		PurchaseTs:   item.PurchaseTs,
		Barcode:      item.Barcode,
		NotifyBelow:  item.NotifyBelow,
		LastNotifyTs: item.LastNotifyTs,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
		DailyRate:    sig.DailyRate,
		Low:          sig.Low,
		UnitPrice: UnitPriceResponse{
			Value: sig.UnitPrice.Value,
			Label: sig.UnitPrice.Label,
			Kind:  sig.UnitPrice.Kind,
		},
	}
	if !math.IsInf(sig.DaysLeft, 1) && !math.IsNaN(sig.DaysLeft) {
		d := sig.DaysLeft
		resp.DaysLeft = &d
	}
	if withActivity {
		resp.Activity = make([]ActivityResponse, len(item.Activity))
		for i, ev := range item.Activity {
			resp.Activity[i] = ActivityResponse{
				Type:  string(ev.Type),
				Qty:   ev.Qty,
				Ts:    ev.Ts,
				Price: ev.Price,
				Store: ev.Store,
				Note:  ev.Note,
			}
		}
	}
	return resp
}

// deviceID returns the caller's device id, or "" outside a device session.
func deviceID(r *http.Request) string {
	id, err := auth.DeviceIDFromCtx(r.Context())
	if err != nil {
		return ""
	}
	return id.String()
}

// itemID parses the {id} path parameter and writes a 400 on failure.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
		return 0, false
	}
	return id, true
}
