package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"ontrack/internal/inventory/repository"
	"ontrack/internal/inventory/service"
	httputil "ontrack/pkg/http"
	"ontrack/pkg/logger"
)

type VehicleHandler struct {
	service service.VehicleService
	log     *logger.Logger
}

func NewVehicleHandler(service service.VehicleService, log *logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		log:     log,
	}
}

func (h *VehicleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/vehicles", h.List)
	router.GET("/api/v1/vehicles/latest", h.Latest)
	router.GET("/api/v1/vehicles/facets", h.Facets)
	router.GET("/api/v1/vehicles/vin/:vin", h.GetByVIN)
	router.GET("/api/v1/vehicles/slug/:slug", h.GetBySlug)
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	filter := filterFromQuery(r)

	vehicles, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.VehicleListResponse{
		Success:    true,
		Vehicles:   vehicles,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	})
}

func (h *VehicleHandler) Latest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	vehicles, err := h.service.Latest(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.VehicleListResponse{
		Success:    true,
		Vehicles:   vehicles,
		TotalCount: int64(len(vehicles)),
		Limit:      len(vehicles),
	})
}

func (h *VehicleHandler) Facets(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	facets, err := h.service.Facets(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.FacetsResponse{
		Success: true,
		Facets:  *facets,
	})
}

func (h *VehicleHandler) GetByVIN(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	vehicle, err := h.service.GetByVIN(r.Context(), ps.ByName("vin"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.VehicleResponse{
		Success: true,
		Vehicle: *vehicle,
	})
}

func (h *VehicleHandler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	vehicle, err := h.service.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.VehicleResponse{
		Success: true,
		Vehicle: *vehicle,
	})
}

func filterFromQuery(r *http.Request) repository.VehicleFilter {
	q := r.URL.Query()

	filter := repository.VehicleFilter{
		Make:         q.Get("make"),
		Model:        q.Get("model"),
		FuelType:     q.Get("fuelType"),
		Transmission: q.Get("transmission"),
		BodyType:     q.Get("bodyType"),
		Condition:    q.Get("condition"),
	}

	filter.YearMin = intParam(q.Get("yearMin"))
	filter.YearMax = intParam(q.Get("yearMax"))
	filter.MileageMax = intParam(q.Get("mileageMax"))
	filter.PriceMin = floatParam(q.Get("priceMin"))
	filter.PriceMax = floatParam(q.Get("priceMax"))

	// Sold vehicles are listed only on explicit request.
	filter.OnlyAvailable = q.Get("includeSold") != "true"

	return filter
}

func intParam(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func floatParam(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
