package presentation

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/japi-express/shipment-service/internal/application"
	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/presentation/helpers"
	"github.com/japi-express/shipment-service/internal/session"
)

type ShipmentsHandler struct {
	shipments *application.ShipmentsService
}

func NewShipmentsHandler(svc *application.ShipmentsService) *ShipmentsHandler {
	return &ShipmentsHandler{shipments: svc}
}

func (h *ShipmentsHandler) Register(r chi.Router) {
	r.Get("/shipments", h.ListMine)
	r.Get("/shipments/{uid}", h.GetByUID)
}

func (h *ShipmentsHandler) GetByUID(w http.ResponseWriter, r *http.Request) {
	uid := strings.TrimSpace(chi.URLParam(r, "uid"))
	if uid == "" {
		helpers.HttpError(w, http.StatusBadRequest, "uid is empty")
		return
	}
	sh, err := h.shipments.GetByUID(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	if sh == nil {
		helpers.HttpError(w, http.StatusNotFound, "shipment not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, sh)
}

// ListMine returns the calling company's recent shipments.
func (h *ShipmentsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}

	out, err := h.shipments.ListByCompany(r.Context(), sess.User.ID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if out == nil {
		out = []domain.Shipment{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
