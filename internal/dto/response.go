package dto

import (
	"time"

	"github.com/fleetops/vehicle-booking/internal/models"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	VehicleID     string               `json:"vehicle_id"`
	StartAt       time.Time            `json:"start_at"`
	EndAt         time.Time            `json:"end_at"`
	Destination   string               `json:"destination"`
	Purpose       string               `json:"purpose,omitempty"`
	Status        models.BookingStatus `json:"status"`
	ApproverID    *string              `json:"approver_id,omitempty"`
	ApprovalNotes string               `json:"approval_notes,omitempty"`
	ApprovedAt    *time.Time           `json:"approved_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type VehicleResponse struct {
	ID              string               `json:"id"`
	PlateNumber     string               `json:"plate_number"`
	Make            string               `json:"make"`
	Model           string               `json:"model"`
	Year            int                  `json:"year,omitempty"`
	Type            models.VehicleType   `json:"type"`
	FuelType        models.FuelType      `json:"fuel_type"`
	SeatingCapacity int                  `json:"seating_capacity"`
	Status          models.VehicleStatus `json:"status"`
}

type AvailabilityResponse struct {
	VehicleID string    `json:"vehicle_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Available bool      `json:"available"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		VehicleID:     b.VehicleID,
		StartAt:       b.StartAt,
		EndAt:         b.EndAt,
		Destination:   b.Destination,
		Purpose:       b.Purpose,
		Status:        b.Status,
		ApproverID:    b.ApproverID,
		ApprovalNotes: b.ApprovalNotes,
		ApprovedAt:    b.ApprovedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i := range bookings {
		out[i] = ToBookingResponse(&bookings[i])
	}
	return out
}

func ToVehicleResponse(v *models.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:              v.ID,
		PlateNumber:     v.PlateNumber,
		Make:            v.Make,
		Model:           v.Model,
		Year:            v.Year,
		Type:            v.Type,
		FuelType:        v.FuelType,
		SeatingCapacity: v.SeatingCapacity,
		Status:          v.Status,
	}
}

func ToVehicleResponses(vehicles []models.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, len(vehicles))
	for i := range vehicles {
		out[i] = ToVehicleResponse(&vehicles[i])
	}
	return out
}
