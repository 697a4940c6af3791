package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"ontrack/internal/bookings/service"
	apperrors "ontrack/pkg/errors"
	httputil "ontrack/pkg/http"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings/slots", h.GetBookedSlots)
	router.GET("/api/v1/bookings/slots/bulk", h.GetBookedSlotsBulk)
	router.POST("/api/v1/bookings", h.Create)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		h.log.Warn("booking rejected", "handler", "Create", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, httputil.BookingCreatedResponse{
		Success:   true,
		BookingID: booking.ID,
	})
}

func (h *BookingHandler) GetBookedSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	vin := query.Get("vin")
	date := query.Get("date")

	slots, err := h.service.BookedSlots(r.Context(), vin, date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.SlotsResponse{
		Success:     true,
		BookedSlots: slots,
	})
}

// GetBookedSlotsBulk serves the polling clients: dates arrive as a
// comma-separated list and every requested date comes back as a key.
func (h *BookingHandler) GetBookedSlotsBulk(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	vin := query.Get("vin")

	var dates []string
	for _, raw := range strings.Split(query.Get("dates"), ",") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			dates = append(dates, trimmed)
		}
	}

	result, err := h.service.BookedSlotsBulk(r.Context(), vin, dates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.BulkSlotsResponse{
		Success:     true,
		BookedSlots: result,
	})
}
