package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusApproved, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusApproved, false},
		{BookingStatus("bogus"), StatusApproved, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, BookingStatus("bogus").IsTerminal())
}

func TestApproveStampsMetadata(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	b := &Booking{Status: StatusPending}

	b.Approve("mgr-1", "have a safe trip", now)

	assert.Equal(t, StatusApproved, b.Status)
	if assert.NotNil(t, b.ApproverID) {
		assert.Equal(t, "mgr-1", *b.ApproverID)
	}
	assert.Equal(t, "have a safe trip", b.ApprovalNotes)
	if assert.NotNil(t, b.ApprovedAt) {
		assert.Equal(t, now, *b.ApprovedAt)
	}
}

func TestRejectStampsMetadata(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	b := &Booking{Status: StatusPending}

	b.Reject("mgr-1", "vehicle needed elsewhere", now)

	assert.Equal(t, StatusRejected, b.Status)
	if assert.NotNil(t, b.ApproverID) {
		assert.Equal(t, "mgr-1", *b.ApproverID)
	}
	assert.Equal(t, "vehicle needed elsewhere", b.ApprovalNotes)
	assert.NotNil(t, b.ApprovedAt)
}
