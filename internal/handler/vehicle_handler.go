package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fleetops/vehicle-booking/internal/dto"
	"github.com/fleetops/vehicle-booking/internal/models"
	"github.com/fleetops/vehicle-booking/internal/repository"
	"github.com/fleetops/vehicle-booking/internal/service"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// VehicleHandler serves the read-only vehicle surface. Vehicle records
// are owned by the fleet system and arrive through the sync consumer;
// only their availability status is written here, and only by the
// booking engine.
type VehicleHandler struct {
	svc      service.BookingService
	vehicles repository.VehicleRepository
}

func NewVehicleHandler(svc service.BookingService, vehicles repository.VehicleRepository) *VehicleHandler {
	return &VehicleHandler{svc: svc, vehicles: vehicles}
}

func (h *VehicleHandler) RegisterRoutes(e *echo.Echo) {
	vehicles := e.Group("/api/v1/vehicles")
	vehicles.GET("", h.ListVehicles)
	vehicles.GET("/available", h.ListAvailableVehicles)
	vehicles.GET("/:id", h.GetVehicle)
	vehicles.GET("/:id/bookings", h.ListVehicleBookings)
}

func (h *VehicleHandler) ListVehicles(c echo.Context) error {
	var status *models.VehicleStatus
	if s := c.QueryParam("status"); s != "" {
		vs := models.VehicleStatus(s)
		status = &vs
	}

	vehicles, err := h.vehicles.FindAll(c.Request().Context(), status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToVehicleResponses(vehicles))
}

// ListAvailableVehicles returns the vehicles free to book for a window.
func (h *VehicleHandler) ListAvailableVehicles(c echo.Context) error {
	start, err := time.Parse(time.RFC3339, c.QueryParam("start_at"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_at must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end_at"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end_at must be RFC3339")
	}

	vehicles, err := h.svc.ListAvailableVehicles(c.Request().Context(), start, end)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToVehicleResponses(vehicles))
}

func (h *VehicleHandler) GetVehicle(c echo.Context) error {
	vehicle, err := h.vehicles.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToVehicleResponse(vehicle))
}

func (h *VehicleHandler) ListVehicleBookings(c echo.Context) error {
	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		status = &bs
	}

	bookings, err := h.svc.ListVehicleBookings(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}
