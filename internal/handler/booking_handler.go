package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fleetops/vehicle-booking/internal/dto"
	"github.com/fleetops/vehicle-booking/internal/models"
	"github.com/fleetops/vehicle-booking/internal/schedule"
	"github.com/fleetops/vehicle-booking/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	bookings := e.Group("/api/v1/bookings")
	bookings.POST("", h.SubmitBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/pending", h.ListPendingBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.PUT("/:id", h.EditBooking)
	bookings.POST("/:id/approve", h.ApproveBooking)
	bookings.POST("/:id/reject", h.RejectBooking)
	bookings.POST("/:id/cancel", h.CancelBooking)
	bookings.POST("/:id/complete", h.CompleteBooking)

	e.GET("/api/v1/availability", h.CheckAvailability)
}

func (h *BookingHandler) SubmitBooking(c echo.Context) error {
	var req dto.SubmitBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if req.VehicleID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "vehicle_id is required")
	}

	booking, err := h.svc.SubmitBooking(c.Request().Context(), service.SubmitBookingInput{
		UserID:      req.UserID,
		VehicleID:   req.VehicleID,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Destination: req.Destination,
		Purpose:     req.Purpose,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) EditBooking(c echo.Context) error {
	var req dto.EditBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	booking, err := h.svc.EditBooking(c.Request().Context(), c.Param("id"), req.UserID, service.EditBookingInput{
		VehicleID:   req.VehicleID,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Destination: req.Destination,
		Purpose:     req.Purpose,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ApproveBooking(c echo.Context) error {
	var req dto.ApprovalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ApproverID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "approver_id is required")
	}

	if err := h.svc.ApproveBooking(c.Request().Context(), c.Param("id"), req.ApproverID, req.Notes); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) RejectBooking(c echo.Context) error {
	var req dto.ApprovalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ApproverID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "approver_id is required")
	}

	if err := h.svc.RejectBooking(c.Request().Context(), c.Param("id"), req.ApproverID, req.Notes); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	var req dto.CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	if err := h.svc.CancelBooking(c.Request().Context(), c.Param("id"), req.UserID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) CompleteBooking(c echo.Context) error {
	if err := h.svc.CompleteBooking(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.svc.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		status = &bs
	}

	bookings, err := h.svc.ListUserBookings(c.Request().Context(), userID, status)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) ListPendingBookings(c echo.Context) error {
	bookings, err := h.svc.ListPendingBookings(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	vehicleID := c.QueryParam("vehicle_id")
	if vehicleID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "vehicle_id is required")
	}
	start, err := time.Parse(time.RFC3339, c.QueryParam("start_at"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_at must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end_at"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end_at must be RFC3339")
	}

	available, err := h.svc.CheckAvailability(c.Request().Context(), vehicleID, start, end, c.QueryParam("exclude_booking_id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		VehicleID: vehicleID,
		StartAt:   start,
		EndAt:     end,
		Available: available,
	})
}

// toHTTPError maps service sentinel errors to HTTP status codes.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrVehicleNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrConflictingBooking),
		errors.Is(err, service.ErrVehicleUnavailable),
		errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrAlreadyStarted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, schedule.ErrInvalidWindow),
		errors.Is(err, service.ErrDestinationRequired),
		errors.Is(err, service.ErrPurposeTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
