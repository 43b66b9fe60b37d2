package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fleetops/vehicle-booking/internal/clock"
	"github.com/fleetops/vehicle-booking/internal/models"
	"github.com/fleetops/vehicle-booking/internal/repository"
	"github.com/fleetops/vehicle-booking/internal/schedule"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrVehicleUnavailable  = errors.New("vehicle is not available for booking")
	ErrConflictingBooking  = errors.New("vehicle is already booked for the selected time period")
	ErrIllegalTransition   = errors.New("illegal booking status transition")
	ErrForbidden           = errors.New("operation not permitted for this user")
	ErrAlreadyStarted      = errors.New("booking has already started")
	ErrDestinationRequired = errors.New("destination is required")
	ErrPurposeTooLong      = errors.New("purpose must be at most 500 characters")
)

const (
	maxPurposeLen = 500

	// Approving a booking that starts within this window marks the
	// vehicle in use immediately; later starts are picked up when the
	// trip actually begins.
	imminentStartWindow = time.Hour
)

type SubmitBookingInput struct {
	UserID      string
	VehicleID   string
	StartAt     time.Time
	EndAt       time.Time
	Destination string
	Purpose     string
}

type EditBookingInput struct {
	VehicleID   string // empty keeps the current vehicle
	StartAt     time.Time
	EndAt       time.Time
	Destination string
	Purpose     string
}

// EventPublisher pushes lifecycle events to the message broker.
// Publishing is best-effort and happens after the booking state commits.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type BookingService interface {
	SubmitBooking(ctx context.Context, in SubmitBookingInput) (*models.Booking, error)
	EditBooking(ctx context.Context, bookingID, callerID string, in EditBookingInput) (*models.Booking, error)
	ApproveBooking(ctx context.Context, bookingID, approverID, notes string) error
	RejectBooking(ctx context.Context, bookingID, approverID, notes string) error
	CancelBooking(ctx context.Context, bookingID, callerID string) error
	CompleteBooking(ctx context.Context, bookingID string) error
	CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time, excludeBookingID string) (bool, error)
	SweepExpiredBookings(ctx context.Context, now time.Time) ([]string, error)

	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID string, status *models.BookingStatus) ([]models.Booking, error)
	ListVehicleBookings(ctx context.Context, vehicleID string, status *models.BookingStatus) ([]models.Booking, error)
	ListPendingBookings(ctx context.Context) ([]models.Booking, error)
	ListAvailableVehicles(ctx context.Context, start, end time.Time) ([]models.Vehicle, error)
}

type bookingService struct {
	tx       repository.TxManager
	bookings repository.BookingRepository
	vehicles repository.VehicleRepository
	users    repository.UserRepository
	clock    clock.Clock
	events   EventPublisher
	log      *logrus.Logger
}

func NewBookingService(
	tx repository.TxManager,
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	users repository.UserRepository,
	clk clock.Clock,
	events EventPublisher,
	log *logrus.Logger,
) BookingService {
	return &bookingService{
		tx:       tx,
		bookings: bookings,
		vehicles: vehicles,
		users:    users,
		clock:    clk,
		events:   events,
		log:      log,
	}
}

func (s *bookingService) SubmitBooking(ctx context.Context, in SubmitBookingInput) (*models.Booking, error) {
	now := s.clock.Now()
	if err := schedule.ValidateWindow(in.StartAt, in.EndAt, now); err != nil {
		return nil, err
	}
	if err := validateDetails(in.Destination, in.Purpose); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		VehicleID:   in.VehicleID,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
		Destination: strings.TrimSpace(in.Destination),
		Purpose:     strings.TrimSpace(in.Purpose),
		Status:      models.StatusPending, // forced regardless of caller input
	}

	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		vehicle, err := s.lockVehicle(ctx, tx, in.VehicleID)
		if err != nil {
			return err
		}
		if !vehicle.IsAvailable() {
			return ErrVehicleUnavailable
		}
		conflict, err := s.hasConflict(ctx, tx, in.VehicleID, in.StartAt, in.EndAt, "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflictingBooking
		}
		return s.bookings.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.submitted", booking)
	return booking, nil
}

func (s *bookingService) EditBooking(ctx context.Context, bookingID, callerID string, in EditBookingInput) (*models.Booking, error) {
	now := s.clock.Now()
	if err := schedule.ValidateWindow(in.StartAt, in.EndAt, now); err != nil {
		return nil, err
	}
	if err := validateDetails(in.Destination, in.Purpose); err != nil {
		return nil, err
	}

	var booking *models.Booking
	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		b, err := s.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != callerID {
			return ErrForbidden
		}
		if !b.IsPending() {
			return ErrIllegalTransition
		}

		vehicleID := b.VehicleID
		if in.VehicleID != "" {
			vehicleID = in.VehicleID
		}
		vehicle, err := s.lockVehicle(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		// Switching to another vehicle is subject to the same
		// availability gate as a fresh submission.
		if vehicleID != b.VehicleID && !vehicle.IsAvailable() {
			return ErrVehicleUnavailable
		}

		conflict, err := s.hasConflict(ctx, tx, vehicleID, in.StartAt, in.EndAt, b.ID)
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflictingBooking
		}

		b.VehicleID = vehicleID
		b.StartAt = in.StartAt
		b.EndAt = in.EndAt
		b.Destination = strings.TrimSpace(in.Destination)
		b.Purpose = strings.TrimSpace(in.Purpose)
		booking = b
		return s.bookings.Update(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.updated", booking)
	return booking, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, bookingID, approverID, notes string) error {
	if err := s.checkApprover(ctx, approverID); err != nil {
		return err
	}

	now := s.clock.Now()
	var booking *models.Booking
	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		b, err := s.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !models.CanTransition(b.Status, models.StatusApproved) {
			return ErrIllegalTransition
		}
		if _, err := s.lockVehicle(ctx, tx, b.VehicleID); err != nil {
			return err
		}
		// Race guard: another booking may have been approved for this
		// vehicle since this one was submitted.
		conflict, err := s.hasConflict(ctx, tx, b.VehicleID, b.StartAt, b.EndAt, "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflictingBooking
		}
		b.Approve(approverID, notes, now)
		booking = b
		return s.bookings.Update(ctx, tx, b)
	})
	if err != nil {
		return err
	}

	if !booking.StartAt.After(now.Add(imminentStartWindow)) {
		s.setVehicleStatus(ctx, booking.VehicleID, models.VehicleInUse)
	}
	s.publish("booking.approved", booking)
	return nil
}

func (s *bookingService) RejectBooking(ctx context.Context, bookingID, approverID, notes string) error {
	if err := s.checkApprover(ctx, approverID); err != nil {
		return err
	}

	now := s.clock.Now()
	var booking *models.Booking
	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		b, err := s.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !models.CanTransition(b.Status, models.StatusRejected) {
			return ErrIllegalTransition
		}
		b.Reject(approverID, notes, now)
		booking = b
		return s.bookings.Update(ctx, tx, b)
	})
	if err != nil {
		return err
	}

	s.publish("booking.rejected", booking)
	return nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, callerID string) error {
	now := s.clock.Now()
	var booking *models.Booking
	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		b, err := s.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != callerID {
			return ErrForbidden
		}
		if !models.CanTransition(b.Status, models.StatusCancelled) {
			return ErrIllegalTransition
		}
		if !b.StartAt.After(now) {
			return ErrAlreadyStarted
		}
		b.Status = models.StatusCancelled
		booking = b
		return s.bookings.Update(ctx, tx, b)
	})
	if err != nil {
		return err
	}

	// Best effort: release the vehicle if the engine had activated it.
	vehicle, err := s.vehicles.FindByID(ctx, booking.VehicleID)
	if err != nil {
		s.log.WithField("vehicle_id", booking.VehicleID).WithError(err).
			Warn("cancel: vehicle lookup failed, status left as is")
	} else if vehicle.Status == models.VehicleInUse {
		s.setVehicleStatus(ctx, booking.VehicleID, models.VehicleAvailable)
	}
	s.publish("booking.cancelled", booking)
	return nil
}

// CompleteBooking moves an approved booking to completed and releases
// the vehicle. Completing an already completed booking is a no-op so
// the sweeper can race manual completion without surfacing errors.
func (s *bookingService) CompleteBooking(ctx context.Context, bookingID string) error {
	var booking *models.Booking
	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		b, err := s.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == models.StatusCompleted {
			return nil
		}
		if !models.CanTransition(b.Status, models.StatusCompleted) {
			return ErrIllegalTransition
		}
		b.Status = models.StatusCompleted
		booking = b
		return s.bookings.Update(ctx, tx, b)
	})
	if err != nil {
		return err
	}
	if booking == nil {
		return nil
	}

	s.setVehicleStatus(ctx, booking.VehicleID, models.VehicleAvailable)
	s.publish("booking.completed", booking)
	return nil
}

// CheckAvailability reports whether the vehicle has no approved booking
// overlapping [start, end], optionally ignoring one booking id.
func (s *bookingService) CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time, excludeBookingID string) (bool, error) {
	conflict, err := s.hasConflict(ctx, nil, vehicleID, start, end, excludeBookingID)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

// SweepExpiredBookings auto-completes approved bookings whose window has
// closed and returns the ids it completed, oldest end first. Individual
// failures are logged and skipped so one bad row cannot stall the sweep.
func (s *bookingService) SweepExpiredBookings(ctx context.Context, now time.Time) ([]string, error) {
	expired, err := s.bookings.FindExpiredApproved(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load expired bookings: %w", err)
	}

	completed := make([]string, 0, len(expired))
	for _, b := range expired {
		if err := s.CompleteBooking(ctx, b.ID); err != nil {
			s.log.WithField("booking_id", b.ID).WithError(err).
				Warn("sweep: auto-complete failed")
			continue
		}
		completed = append(completed, b.ID)
	}
	return completed, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return b, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookings.FindByUser(ctx, userID, status)
}

func (s *bookingService) ListVehicleBookings(ctx context.Context, vehicleID string, status *models.BookingStatus) ([]models.Booking, error) {
	if status != nil {
		return s.bookings.FindByVehicleAndStatus(ctx, nil, vehicleID, *status)
	}
	var all []models.Booking
	for _, st := range []models.BookingStatus{
		models.StatusPending, models.StatusApproved, models.StatusRejected,
		models.StatusCompleted, models.StatusCancelled,
	} {
		bs, err := s.bookings.FindByVehicleAndStatus(ctx, nil, vehicleID, st)
		if err != nil {
			return nil, err
		}
		all = append(all, bs...)
	}
	return all, nil
}

func (s *bookingService) ListPendingBookings(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.FindByStatus(ctx, models.StatusPending)
}

// ListAvailableVehicles returns AVAILABLE vehicles with no approved
// booking overlapping [start, end].
func (s *bookingService) ListAvailableVehicles(ctx context.Context, start, end time.Time) ([]models.Vehicle, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end must be after start", schedule.ErrInvalidWindow)
	}
	status := models.VehicleAvailable
	vehicles, err := s.vehicles.FindAll(ctx, &status)
	if err != nil {
		return nil, fmt.Errorf("load vehicles: %w", err)
	}

	free := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		conflict, err := s.hasConflict(ctx, nil, v.ID, start, end, "")
		if err != nil {
			return nil, err
		}
		if !conflict {
			free = append(free, v)
		}
	}
	return free, nil
}

// hasConflict reports whether [start, end] overlaps any approved booking
// for the vehicle, skipping excludeID when set. Pending bookings never
// block each other; conflicts are enforced at approval time.
func (s *bookingService) hasConflict(ctx context.Context, tx *gorm.DB, vehicleID string, start, end time.Time, excludeID string) (bool, error) {
	approved, err := s.bookings.FindByVehicleAndStatus(ctx, tx, vehicleID, models.StatusApproved)
	if err != nil {
		return false, fmt.Errorf("load approved bookings: %w", err)
	}
	for _, b := range approved {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if schedule.Overlaps(start, end, b.StartAt, b.EndAt) {
			return true, nil
		}
	}
	return false, nil
}

func (s *bookingService) checkApprover(ctx context.Context, approverID string) error {
	approver, err := s.users.FindByID(ctx, approverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("load approver: %w", err)
	}
	if !approver.CanApprove() {
		return ErrForbidden
	}
	return nil
}

func (s *bookingService) lockBooking(ctx context.Context, tx *gorm.DB, id string) (*models.Booking, error) {
	b, err := s.bookings.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return b, nil
}

func (s *bookingService) lockVehicle(ctx context.Context, tx *gorm.DB, id string) (*models.Vehicle, error) {
	v, err := s.vehicles.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("load vehicle: %w", err)
	}
	return v, nil
}

// setVehicleStatus applies a post-commit vehicle side effect. A failure
// here must not undo the booking transition; it is logged and the drift
// is repaired by the next transition or sweep.
func (s *bookingService) setVehicleStatus(ctx context.Context, vehicleID string, status models.VehicleStatus) {
	if err := s.vehicles.UpdateStatus(ctx, vehicleID, status); err != nil {
		s.log.WithFields(logrus.Fields{
			"vehicle_id": vehicleID,
			"status":     status,
		}).WithError(err).Warn("vehicle status update failed, booking state is committed")
	}
}

func (s *bookingService) publish(routingKey string, booking *models.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(routingKey, booking); err != nil {
		s.log.WithFields(logrus.Fields{
			"routing_key": routingKey,
			"booking_id":  booking.ID,
		}).WithError(err).Warn("event publish failed")
	}
}

func validateDetails(destination, purpose string) error {
	if strings.TrimSpace(destination) == "" {
		return ErrDestinationRequired
	}
	if len(strings.TrimSpace(purpose)) > maxPurposeLen {
		return ErrPurposeTooLong
	}
	return nil
}
