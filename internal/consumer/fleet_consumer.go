package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fleetops/vehicle-booking/internal/models"
	"github.com/fleetops/vehicle-booking/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// FleetConsumer mirrors fleet-owned vehicle and user records into the
// local database so bookings can reference them without this service
// owning their lifecycle. Availability status stays under the booking
// engine's control; the upsert never touches it on existing rows.
type FleetConsumer struct {
	vehicles repository.VehicleRepository
	users    repository.UserRepository
	log      *logrus.Logger
}

func NewFleetConsumer(vehicles repository.VehicleRepository, users repository.UserRepository, log *logrus.Logger) *FleetConsumer {
	return &FleetConsumer{vehicles: vehicles, users: users, log: log}
}

func (fc *FleetConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			fc.handleMessage(context.Background(), msg)
		}
		fc.log.Info("fleet consumer: channel closed, stopping")
	}()
}

func (fc *FleetConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var err error
	switch {
	case strings.HasPrefix(msg.RoutingKey, "vehicle."):
		err = fc.syncVehicle(ctx, msg.Body)
	case strings.HasPrefix(msg.RoutingKey, "user."):
		err = fc.syncUser(ctx, msg.Body)
	default:
		fc.log.WithField("routing_key", msg.RoutingKey).Warn("fleet consumer: unexpected routing key")
		_ = msg.Nack(false, false)
		return
	}

	if err != nil {
		fc.log.WithField("routing_key", msg.RoutingKey).WithError(err).
			Error("fleet consumer: sync failed")
		// Malformed payloads are dropped; store failures are requeued.
		_ = msg.Nack(false, !errors.Is(err, errMalformedPayload))
		return
	}
	_ = msg.Ack(false)
}

var errMalformedPayload = errors.New("malformed payload")

func (fc *FleetConsumer) syncVehicle(ctx context.Context, body []byte) error {
	var vehicle models.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		return fmt.Errorf("%w: %v", errMalformedPayload, err)
	}
	if err := fc.vehicles.Upsert(ctx, &vehicle); err != nil {
		return err
	}
	fc.log.WithField("vehicle_id", vehicle.ID).Debug("fleet consumer: synced vehicle")
	return nil
}

func (fc *FleetConsumer) syncUser(ctx context.Context, body []byte) error {
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return fmt.Errorf("%w: %v", errMalformedPayload, err)
	}
	if err := fc.users.Upsert(ctx, &user); err != nil {
		return err
	}
	fc.log.WithField("user_id", user.ID).Debug("fleet consumer: synced user")
	return nil
}
