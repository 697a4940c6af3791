package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ontrack/pkg/model"
)

// ErrSlotTaken is returned when the server (or a local pre-check)
// reports the selected slot as already booked.
var ErrSlotTaken = errors.New("time slot is already booked")

// DealerClient talks to the dealer API.
type DealerClient struct {
	httpClient *HttpClient
}

func NewDealerClient(baseURL string) *DealerClient {
	return &DealerClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *DealerClient) BookedSlots(ctx context.Context, vin, date string) ([]string, error) {
	q := url.Values{}
	q.Set("vin", vin)
	q.Set("date", date)

	resp, err := c.httpClient.GET(ctx, "/api/v1/bookings/slots?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("slots request failed: %s", GetErrorMessage(resp))
	}

	var body struct {
		Success     bool     `json:"success"`
		BookedSlots []string `json:"bookedSlots"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode slots response: %w", err)
	}
	return body.BookedSlots, nil
}

func (c *DealerClient) BookedSlotsBulk(ctx context.Context, vin string, dates []string) (map[string][]string, error) {
	q := url.Values{}
	q.Set("vin", vin)
	q.Set("dates", strings.Join(dates, ","))

	resp, err := c.httpClient.GET(ctx, "/api/v1/bookings/slots/bulk?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bulk slots request failed: %s", GetErrorMessage(resp))
	}

	var body struct {
		Success     bool                `json:"success"`
		BookedSlots map[string][]string `json:"bookedSlots"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode bulk slots response: %w", err)
	}
	return body.BookedSlots, nil
}

func (c *DealerClient) CreateBooking(ctx context.Context, req *model.BookingRequest) (string, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/bookings", req)
	if err != nil {
		return "", err
	}

	switch resp.StatusCode {
	case http.StatusCreated:
	case http.StatusConflict:
		return "", fmt.Errorf("%w: %s", ErrSlotTaken, GetErrorMessage(resp))
	default:
		return "", fmt.Errorf("booking failed: %s", GetErrorMessage(resp))
	}

	var body struct {
		Success   bool   `json:"success"`
		BookingID string `json:"bookingId"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return "", fmt.Errorf("failed to decode booking response: %w", err)
	}
	return body.BookingID, nil
}

func (c *DealerClient) VehicleByVIN(ctx context.Context, vin string) (*model.Vehicle, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/vehicles/vin/"+url.PathEscape(vin))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vehicle request failed: %s", GetErrorMessage(resp))
	}

	var body struct {
		Success bool          `json:"success"`
		Vehicle model.Vehicle `json:"vehicle"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode vehicle response: %w", err)
	}
	return &body.Vehicle, nil
}
