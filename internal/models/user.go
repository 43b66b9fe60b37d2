package models

import "time"

type Role string

const (
	RoleEmployee     Role = "employee"
	RoleFleetManager Role = "fleet_manager"
	RoleAdmin        Role = "admin"
)

// User is a non-owning reference to an account managed by the
// surrounding application; the engine only needs identity and role.
type User struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Username string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Role     Role   `gorm:"type:varchar(16);not null" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) CanApprove() bool {
	return u.Role == RoleFleetManager || u.Role == RoleAdmin
}
