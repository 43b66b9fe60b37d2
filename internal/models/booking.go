package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// allowedTransitions is the booking lifecycle as a directed graph.
// rejected / completed / cancelled are terminal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCompleted, StatusCancelled},
	StatusRejected:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to BookingStatus) bool {
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the given status.
func (s BookingStatus) IsTerminal() bool {
	allowed, ok := allowedTransitions[s]
	return ok && len(allowed) == 0
}

type Booking struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	UserID    string `gorm:"index;size:36;not null" json:"user_id"`
	VehicleID string `gorm:"index;size:36;not null" json:"vehicle_id"`

	StartAt time.Time `gorm:"not null" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Destination string `gorm:"size:255;not null" json:"destination"`
	Purpose     string `gorm:"size:500" json:"purpose,omitempty"`

	Status BookingStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	// Approval metadata, populated only on approve/reject.
	ApproverID    *string    `gorm:"size:36" json:"approver_id,omitempty"`
	ApprovalNotes string     `gorm:"size:500" json:"approval_notes,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Booking) IsPending() bool  { return b.Status == StatusPending }
func (b *Booking) IsApproved() bool { return b.Status == StatusApproved }

// Approve stamps the approval metadata and moves the booking to approved.
// Callers must have checked CanTransition first.
func (b *Booking) Approve(approverID, notes string, now time.Time) {
	b.Status = StatusApproved
	b.ApproverID = &approverID
	b.ApprovalNotes = notes
	t := now
	b.ApprovedAt = &t
}

// Reject stamps the approval metadata and moves the booking to rejected.
func (b *Booking) Reject(approverID, notes string, now time.Time) {
	b.Status = StatusRejected
	b.ApproverID = &approverID
	b.ApprovalNotes = notes
	t := now
	b.ApprovedAt = &t
}
