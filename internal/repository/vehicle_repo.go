package repository

import (
	"context"

	"github.com/fleetops/vehicle-booking/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VehicleRepository interface {
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Vehicle, error)
	FindAll(ctx context.Context, status *models.VehicleStatus) ([]models.Vehicle, error)
	UpdateStatus(ctx context.Context, vehicleID string, status models.VehicleStatus) error
	Upsert(ctx context.Context, vehicle *models.Vehicle) error
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *vehicleRepository) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// FindByIDForUpdate locks the vehicle row within the given transaction.
// Every lifecycle transition locks the vehicle first, so concurrent
// transitions on the same vehicle serialize here.
func (r *vehicleRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.conn(tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindAll(ctx context.Context, status *models.VehicleStatus) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	q := r.db.WithContext(ctx)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("make ASC, model ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) UpdateStatus(ctx context.Context, vehicleID string, status models.VehicleStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", vehicleID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Upsert syncs a fleet-owned vehicle record. The availability status is
// deliberately left out of the update column list: this service is its
// sole writer once the row exists.
func (r *vehicleRepository) Upsert(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleAvailable
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plate_number", "make", "model", "year",
			"type", "fuel_type", "seating_capacity", "updated_at",
		}),
	}).Create(vehicle).Error
}
