package presentation

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/japi-express/shipment-service/internal/application"
	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/presentation/helpers"
	"github.com/japi-express/shipment-service/internal/session"
	"github.com/japi-express/shipment-service/internal/wizard"
)

type DraftsHandler struct {
	drafts *application.DraftService
}

func NewDraftsHandler(drafts *application.DraftService) *DraftsHandler {
	return &DraftsHandler{drafts: drafts}
}

func (h *DraftsHandler) Register(r chi.Router) {
	r.Post("/shipments/draft", h.CreateDraft)
	r.Route("/shipments/draft/{id}", func(r chi.Router) {
		r.Get("/", h.GetDraft)
		r.Delete("/", h.DeleteDraft)
		r.Put("/origin", h.SetOrigin)
		r.Post("/packages/items", h.AddItem)
		r.Delete("/packages/items/{itemID}", h.RemoveItem)
		r.Put("/pickup", h.SetPickup)
		r.Put("/service", h.SetService)
		r.Put("/recipient", h.SetRecipient)
		r.Put("/payment", h.SetPayment)
		r.Post("/advance", h.Advance)
		r.Post("/edit", h.Edit)
		r.Post("/submit", h.Submit)
	})
}

func draftID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *DraftsHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	v := h.drafts.Create(sess.User.ID)
	helpers.WriteJSON(w, http.StatusCreated, v)
}

func (h *DraftsHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	v, err := h.drafts.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, v)
}

func (h *DraftsHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	if err := h.drafts.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DraftsHandler) SetOrigin(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var req struct {
		Origin domain.Origin `json:"origin"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if !req.Origin.Valid() {
		helpers.FieldErrors(w, domain.FieldErrors{"origin": "select a shipment origin"})
		return
	}
	if err := h.drafts.SetOrigin(id, req.Origin); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddItem covers both variants: a description makes a pickup package, a
// product id makes a warehouse selection.
func (h *DraftsHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var req struct {
		Description string `json:"description"`
		ProductID   int64  `json:"product_id"`
		Quantity    int    `json:"quantity"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.ProductID != 0 {
		item, err := h.drafts.AddWarehouseItem(r.Context(), id, req.ProductID, req.Quantity)
		if err != nil {
			writeError(w, err)
			return
		}
		helpers.WriteJSON(w, http.StatusCreated, item)
		return
	}

	item, err := h.drafts.AddPickupItem(id, req.Description, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, item)
}

func (h *DraftsHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	if err := h.drafts.RemoveItem(id, chi.URLParam(r, "itemID")); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SetPickup accepts either a custom address/phone or the company profile
// values; choosing the profile discards whatever custom text was entered.
func (h *DraftsHandler) SetPickup(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var req struct {
		UseProfile bool   `json:"use_profile"`
		Address    string `json:"address"`
		Phone      string `json:"phone"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.UseProfile {
		sess, _ := session.FromContext(r.Context())
		req.Address = sess.User.Address
		req.Phone = sess.User.Phone
	}
	if err := h.drafts.SetPickup(id, req.Address, req.Phone); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DraftsHandler) SetService(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var req struct {
		Level        domain.ServiceLevel `json:"level"`
		DeliveryMode domain.DeliveryMode `json:"delivery_mode"`
		DeliveryDate string              `json:"delivery_date"`
		CODAmount    decimal.Decimal     `json:"cod_amount"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	var date time.Time
	if req.DeliveryDate != "" {
		date, err = parseDate(req.DeliveryDate)
		if err != nil {
			helpers.FieldErrors(w, domain.FieldErrors{"delivery_date": "invalid date"})
			return
		}
	}
	if err := h.drafts.SetService(id, req.Level, req.DeliveryMode, date, req.CODAmount); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (h *DraftsHandler) SetRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var req domain.Recipient
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.drafts.SetRecipient(id, req); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DraftsHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var req struct {
		Method domain.PaymentMethod `json:"payment_method"`
		Form   domain.PaymentForm   `json:"payment_form"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.drafts.SetPayment(id, req.Method, req.Form); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DraftsHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	fields, err := h.drafts.Advance(id)
	if errors.Is(err, wizard.ErrSectionIncomplete) {
		helpers.FieldErrors(w, fields)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := h.drafts.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, v)
}

func (h *DraftsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var req struct {
		Section wizard.Section `json:"section"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.drafts.Edit(id, req.Section); err != nil {
		writeError(w, err)
		return
	}
	v, err := h.drafts.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, v)
}

func (h *DraftsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	uid, err := h.drafts.Submit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, map[string]string{
		"status":       "ok",
		"shipment_uid": uid,
	})
}
