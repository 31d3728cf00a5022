package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UserActive    = "active"
	UserSuspended = "suspended"
)

// User is an account record. Password holds the bcrypt hash and is never
// serialized to JSON; handlers can return the struct as-is.
type User struct {
	ID       string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name     string    `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Email    string    `json:"email" bson:"email" validate:"required,email"`
	Password string    `json:"-" bson:"password" validate:"required"`
	Phone    string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role     string    `json:"role" bson:"role" validate:"required,oneof=user admin"`
	Status   string    `json:"status" bson:"status" validate:"required,oneof=active suspended"`
	JoinDate time.Time `json:"joinDate" bson:"joinDate"`
}
