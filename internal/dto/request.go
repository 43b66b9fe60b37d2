package dto

import "time"

type SubmitBookingRequest struct {
	UserID      string    `json:"user_id"`
	VehicleID   string    `json:"vehicle_id"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Destination string    `json:"destination"`
	Purpose     string    `json:"purpose"`
}

type EditBookingRequest struct {
	UserID      string    `json:"user_id"`
	VehicleID   string    `json:"vehicle_id"` // empty keeps the current vehicle
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Destination string    `json:"destination"`
	Purpose     string    `json:"purpose"`
}

type ApprovalRequest struct {
	ApproverID string `json:"approver_id"`
	Notes      string `json:"notes"`
}

type CancelBookingRequest struct {
	UserID string `json:"user_id"`
}
