package http

import (
	"encoding/json"
	"net/http"

	apperrors "ontrack/pkg/errors"
	"ontrack/pkg/model"
)

// Every response carries an explicit success flag so browser callers can
// branch without inspecting status codes.

type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

type SlotsResponse struct {
	Success     bool     `json:"success"`
	BookedSlots []string `json:"bookedSlots"`
}

type BulkSlotsResponse struct {
	Success     bool                `json:"success"`
	BookedSlots map[string][]string `json:"bookedSlots"`
}

type BookingCreatedResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId"`
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Ref     string `json:"ref"`
}

type VehicleResponse struct {
	Success bool          `json:"success"`
	Vehicle model.Vehicle `json:"vehicle"`
}

type VehicleListResponse struct {
	Success    bool            `json:"success"`
	Vehicles   []model.Vehicle `json:"vehicles"`
	TotalCount int64           `json:"totalCount"`
	Limit      int             `json:"limit"`
	Offset     int64           `json:"offset"`
}

type FacetsResponse struct {
	Success bool                `json:"success"`
	Facets  model.VehicleFacets `json:"facets"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}
