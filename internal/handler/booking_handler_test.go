package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fleetops/vehicle-booking/internal/models"
	"github.com/fleetops/vehicle-booking/internal/schedule"
	"github.com/fleetops/vehicle-booking/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBookingService implements service.BookingService with overridable
// function fields; unset methods panic to catch unexpected calls.
type mockBookingService struct {
	submitFn       func(ctx context.Context, in service.SubmitBookingInput) (*models.Booking, error)
	editFn         func(ctx context.Context, bookingID, callerID string, in service.EditBookingInput) (*models.Booking, error)
	approveFn      func(ctx context.Context, bookingID, approverID, notes string) error
	rejectFn       func(ctx context.Context, bookingID, approverID, notes string) error
	cancelFn       func(ctx context.Context, bookingID, callerID string) error
	completeFn     func(ctx context.Context, bookingID string) error
	availabilityFn func(ctx context.Context, vehicleID string, start, end time.Time, excludeBookingID string) (bool, error)
	sweepFn        func(ctx context.Context, now time.Time) ([]string, error)
	getFn          func(ctx context.Context, id string) (*models.Booking, error)
	listUserFn     func(ctx context.Context, userID string, status *models.BookingStatus) ([]models.Booking, error)
	listVehicleFn  func(ctx context.Context, vehicleID string, status *models.BookingStatus) ([]models.Booking, error)
	listPendingFn  func(ctx context.Context) ([]models.Booking, error)
	listAvailFn    func(ctx context.Context, start, end time.Time) ([]models.Vehicle, error)
}

func (m *mockBookingService) SubmitBooking(ctx context.Context, in service.SubmitBookingInput) (*models.Booking, error) {
	return m.submitFn(ctx, in)
}

func (m *mockBookingService) EditBooking(ctx context.Context, bookingID, callerID string, in service.EditBookingInput) (*models.Booking, error) {
	return m.editFn(ctx, bookingID, callerID, in)
}

func (m *mockBookingService) ApproveBooking(ctx context.Context, bookingID, approverID, notes string) error {
	return m.approveFn(ctx, bookingID, approverID, notes)
}

func (m *mockBookingService) RejectBooking(ctx context.Context, bookingID, approverID, notes string) error {
	return m.rejectFn(ctx, bookingID, approverID, notes)
}

func (m *mockBookingService) CancelBooking(ctx context.Context, bookingID, callerID string) error {
	return m.cancelFn(ctx, bookingID, callerID)
}

func (m *mockBookingService) CompleteBooking(ctx context.Context, bookingID string) error {
	return m.completeFn(ctx, bookingID)
}

func (m *mockBookingService) CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time, excludeBookingID string) (bool, error) {
	return m.availabilityFn(ctx, vehicleID, start, end, excludeBookingID)
}

func (m *mockBookingService) SweepExpiredBookings(ctx context.Context, now time.Time) ([]string, error) {
	return m.sweepFn(ctx, now)
}

func (m *mockBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return m.getFn(ctx, id)
}

func (m *mockBookingService) ListUserBookings(ctx context.Context, userID string, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listUserFn(ctx, userID, status)
}

func (m *mockBookingService) ListVehicleBookings(ctx context.Context, vehicleID string, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listVehicleFn(ctx, vehicleID, status)
}

func (m *mockBookingService) ListPendingBookings(ctx context.Context) ([]models.Booking, error) {
	return m.listPendingFn(ctx)
}

func (m *mockBookingService) ListAvailableVehicles(ctx context.Context, start, end time.Time) ([]models.Vehicle, error) {
	return m.listAvailFn(ctx, start, end)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestSubmitBooking_Created(t *testing.T) {
	svc := &mockBookingService{
		submitFn: func(_ context.Context, in service.SubmitBookingInput) (*models.Booking, error) {
			return &models.Booking{
				ID:          "bk-1",
				UserID:      in.UserID,
				VehicleID:   in.VehicleID,
				StartAt:     in.StartAt,
				EndAt:       in.EndAt,
				Destination: in.Destination,
				Status:      models.StatusPending,
			}, nil
		},
	}
	h := NewBookingHandler(svc)

	body := `{"user_id":"emp-1","vehicle_id":"veh-1","start_at":"2025-06-02T11:00:00Z","end_at":"2025-06-02T13:00:00Z","destination":"airport"}`
	c, rec := newContext(http.MethodPost, "/api/v1/bookings", body)

	require.NoError(t, h.SubmitBooking(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"bk-1"`)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestSubmitBooking_MissingUserID(t *testing.T) {
	h := NewBookingHandler(&mockBookingService{})

	c, _ := newContext(http.MethodPost, "/api/v1/bookings", `{"vehicle_id":"veh-1"}`)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.SubmitBooking(c)))
}

func TestSubmitBooking_InvalidWindowReturns400(t *testing.T) {
	svc := &mockBookingService{
		submitFn: func(context.Context, service.SubmitBookingInput) (*models.Booking, error) {
			return nil, schedule.ErrInvalidWindow
		},
	}
	h := NewBookingHandler(svc)

	body := `{"user_id":"emp-1","vehicle_id":"veh-1","start_at":"2025-06-02T11:00:00Z","end_at":"2025-06-02T11:30:00Z","destination":"airport"}`
	c, _ := newContext(http.MethodPost, "/api/v1/bookings", body)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.SubmitBooking(c)))
}

func TestSubmitBooking_ConflictReturns409(t *testing.T) {
	svc := &mockBookingService{
		submitFn: func(context.Context, service.SubmitBookingInput) (*models.Booking, error) {
			return nil, service.ErrConflictingBooking
		},
	}
	h := NewBookingHandler(svc)

	body := `{"user_id":"emp-1","vehicle_id":"veh-1","start_at":"2025-06-02T11:00:00Z","end_at":"2025-06-02T13:00:00Z","destination":"airport"}`
	c, _ := newContext(http.MethodPost, "/api/v1/bookings", body)
	assert.Equal(t, http.StatusConflict, httpStatus(t, h.SubmitBooking(c)))
}

func TestApproveBooking_NoContent(t *testing.T) {
	var gotBooking, gotApprover string
	svc := &mockBookingService{
		approveFn: func(_ context.Context, bookingID, approverID, _ string) error {
			gotBooking, gotApprover = bookingID, approverID
			return nil
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newContext(http.MethodPost, "/api/v1/bookings/bk-1/approve", `{"approver_id":"mgr-1","notes":"ok"}`)
	c.SetParamNames("id")
	c.SetParamValues("bk-1")

	require.NoError(t, h.ApproveBooking(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "bk-1", gotBooking)
	assert.Equal(t, "mgr-1", gotApprover)
}

func TestApproveBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"conflict", service.ErrConflictingBooking, http.StatusConflict},
		{"illegal transition", service.ErrIllegalTransition, http.StatusConflict},
		{"not found", service.ErrBookingNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				approveFn: func(context.Context, string, string, string) error { return tt.err },
			}
			h := NewBookingHandler(svc)

			c, _ := newContext(http.MethodPost, "/api/v1/bookings/bk-1/approve", `{"approver_id":"mgr-1"}`)
			c.SetParamNames("id")
			c.SetParamValues("bk-1")

			assert.Equal(t, tt.want, httpStatus(t, h.ApproveBooking(c)))
		})
	}
}

func TestApproveBooking_MissingApproverID(t *testing.T) {
	h := NewBookingHandler(&mockBookingService{})

	c, _ := newContext(http.MethodPost, "/api/v1/bookings/bk-1/approve", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("bk-1")

	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.ApproveBooking(c)))
}

func TestCancelBooking_Statuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not owner", service.ErrForbidden, http.StatusForbidden},
		{"already started", service.ErrAlreadyStarted, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				cancelFn: func(context.Context, string, string) error { return tt.err },
			}
			h := NewBookingHandler(svc)

			c, _ := newContext(http.MethodPost, "/api/v1/bookings/bk-1/cancel", `{"user_id":"emp-2"}`)
			c.SetParamNames("id")
			c.SetParamValues("bk-1")

			assert.Equal(t, tt.want, httpStatus(t, h.CancelBooking(c)))
		})
	}
}

func TestCompleteBooking_NoContent(t *testing.T) {
	svc := &mockBookingService{
		completeFn: func(context.Context, string) error { return nil },
	}
	h := NewBookingHandler(svc)

	c, rec := newContext(http.MethodPost, "/api/v1/bookings/bk-1/complete", "")
	c.SetParamNames("id")
	c.SetParamValues("bk-1")

	require.NoError(t, h.CompleteBooking(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetBooking_NotFound(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(context.Context, string) (*models.Booking, error) {
			return nil, service.ErrBookingNotFound
		},
	}
	h := NewBookingHandler(svc)

	c, _ := newContext(http.MethodGet, "/api/v1/bookings/bk-404", "")
	c.SetParamNames("id")
	c.SetParamValues("bk-404")

	assert.Equal(t, http.StatusNotFound, httpStatus(t, h.GetBooking(c)))
}

func TestListBookings_RequiresUserID(t *testing.T) {
	h := NewBookingHandler(&mockBookingService{})

	c, _ := newContext(http.MethodGet, "/api/v1/bookings", "")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.ListBookings(c)))
}

func TestListBookings_PassesStatusFilter(t *testing.T) {
	var gotStatus *models.BookingStatus
	svc := &mockBookingService{
		listUserFn: func(_ context.Context, _ string, status *models.BookingStatus) ([]models.Booking, error) {
			gotStatus = status
			return nil, nil
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/v1/bookings?user_id=emp-1&status=approved", "")
	require.NoError(t, h.ListBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotStatus)
	assert.Equal(t, models.StatusApproved, *gotStatus)
}

func TestListPendingBookings(t *testing.T) {
	svc := &mockBookingService{
		listPendingFn: func(context.Context) ([]models.Booking, error) {
			return []models.Booking{{ID: "bk-1", Status: models.StatusPending}}, nil
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/v1/bookings/pending", "")
	require.NoError(t, h.ListPendingBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"bk-1"`)
}

func TestCheckAvailability_OK(t *testing.T) {
	svc := &mockBookingService{
		availabilityFn: func(_ context.Context, vehicleID string, _, _ time.Time, excludeID string) (bool, error) {
			assert.Equal(t, "veh-1", vehicleID)
			assert.Equal(t, "bk-9", excludeID)
			return false, nil
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newContext(http.MethodGet,
		"/api/v1/availability?vehicle_id=veh-1&start_at=2025-06-02T11:00:00Z&end_at=2025-06-02T13:00:00Z&exclude_booking_id=bk-9", "")

	require.NoError(t, h.CheckAvailability(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":false`)
}

func TestCheckAvailability_BadParams(t *testing.T) {
	h := NewBookingHandler(&mockBookingService{})

	c, _ := newContext(http.MethodGet, "/api/v1/availability?start_at=2025-06-02T11:00:00Z&end_at=2025-06-02T13:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.CheckAvailability(c)))

	c, _ = newContext(http.MethodGet, "/api/v1/availability?vehicle_id=veh-1&start_at=not-a-time&end_at=2025-06-02T13:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.CheckAvailability(c)))
}
