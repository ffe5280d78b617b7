package presentation

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/japi-express/shipment-service/internal/catalog"
	"github.com/japi-express/shipment-service/internal/presentation/helpers"
)

// LocationsHandler exposes the cascading region/district/sector options.
// Unknown ids return empty lists, never errors, matching the catalog.
type LocationsHandler struct {
	catalog *catalog.Catalog
}

func NewLocationsHandler(c *catalog.Catalog) *LocationsHandler {
	return &LocationsHandler{catalog: c}
}

func (h *LocationsHandler) Register(r chi.Router) {
	r.Get("/locations/regions", h.Regions)
	r.Get("/locations/regions/{regionID}/districts", h.Districts)
	r.Get("/locations/districts/{districtID}/sectors", h.Sectors)
}

func (h *LocationsHandler) Regions(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, h.catalog.RegionOptions())
}

func (h *LocationsHandler) Districts(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "regionID"), 10, 64)
	helpers.WriteJSON(w, http.StatusOK, h.catalog.DistrictOptions(id))
}

func (h *LocationsHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "districtID"), 10, 64)
	helpers.WriteJSON(w, http.StatusOK, h.catalog.SectorOptions(id))
}
