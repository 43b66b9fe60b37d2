package models

import "time"

// VehicleStatus is the availability flag the booking engine reads and
// writes. All other vehicle fields are inventory data owned by the
// fleet system and synced read-only into this service.
type VehicleStatus string

const (
	VehicleAvailable    VehicleStatus = "available"
	VehicleInUse        VehicleStatus = "in_use"
	VehicleMaintenance  VehicleStatus = "maintenance"
	VehicleOutOfService VehicleStatus = "out_of_service"
	VehicleReserved     VehicleStatus = "reserved"
)

type VehicleType string

const (
	TypeSedan     VehicleType = "sedan"
	TypeSUV       VehicleType = "suv"
	TypeHatchback VehicleType = "hatchback"
	TypeTruck     VehicleType = "truck"
	TypeVan       VehicleType = "van"
	TypeMinibus   VehicleType = "minibus"
	TypeBus       VehicleType = "bus"
)

type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
)

type Vehicle struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	PlateNumber string `gorm:"uniqueIndex;size:32;not null" json:"plate_number"`
	Make        string `gorm:"size:64" json:"make"`
	Model       string `gorm:"size:64" json:"model"`
	Year        int    `json:"year,omitempty"`

	Type            VehicleType `gorm:"type:varchar(16)" json:"type"`
	FuelType        FuelType    `gorm:"type:varchar(16)" json:"fuel_type"`
	SeatingCapacity int         `json:"seating_capacity"`

	Status VehicleStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *Vehicle) IsAvailable() bool { return v.Status == VehicleAvailable }
