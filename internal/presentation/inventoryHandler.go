package presentation

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/japi-express/shipment-service/internal/application"
	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/presentation/helpers"
	"github.com/japi-express/shipment-service/internal/session"
)

type InventoryHandler struct {
	inventory *application.InventoryService
}

func NewInventoryHandler(inv *application.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inv}
}

func (h *InventoryHandler) Register(r chi.Router) {
	r.Get("/inventory", h.List)
	r.Post("/inventory/product", h.CreateProduct)
	r.Get("/inventory/supply-request", h.ListSupplyRequests)
	r.Get("/inventory/supply-request/{companyID}", h.ListSupplyRequestsByCompany)
	r.Post("/inventory/supply-request", h.CreateSupplyRequest)
	r.Get("/inventory/{companyID}", h.ListByCompany)
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.inventory.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	helpers.WriteJSON(w, http.StatusOK, products)
}

func companyID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
}

func (h *InventoryHandler) ListByCompany(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid company id")
		return
	}
	products, err := h.inventory.ListProductsByCompany(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	helpers.WriteJSON(w, http.StatusOK, products)
}

func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SKU         string `json:"SKU"`
		Name        string `json:"product_name"`
		Description string `json:"description"`
		CompanyID   int64  `json:"id_company"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	p := domain.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		CompanyID:   req.CompanyID,
	}
	if p.CompanyID == 0 {
		sess, _ := session.FromContext(r.Context())
		p.CompanyID = sess.User.ID
	}
	if err := h.inventory.CreateProduct(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, p)
}

func (h *InventoryHandler) CreateSupplyRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID int64               `json:"id_company"`
		Items     []domain.SupplyItem `json:"items"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	sr := domain.SupplyRequest{CompanyID: req.CompanyID, Items: req.Items}
	if sr.CompanyID == 0 {
		sess, _ := session.FromContext(r.Context())
		sr.CompanyID = sess.User.ID
	}
	if err := h.inventory.CreateSupplyRequest(r.Context(), &sr); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, sr)
}

func (h *InventoryHandler) ListSupplyRequests(w http.ResponseWriter, r *http.Request) {
	h.writeSupplyRequests(w, r, 0)
}

func (h *InventoryHandler) ListSupplyRequestsByCompany(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid company id")
		return
	}
	h.writeSupplyRequests(w, r, id)
}

func (h *InventoryHandler) writeSupplyRequests(w http.ResponseWriter, r *http.Request, company int64) {
	reqs, err := h.inventory.ListSupplyRequests(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}
	if reqs == nil {
		reqs = []domain.SupplyRequest{}
	}
	helpers.WriteJSON(w, http.StatusOK, reqs)
}
