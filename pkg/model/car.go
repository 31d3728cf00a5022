package model

// Car is a rentable vehicle record. Quantity is the number of units the fleet
// owns; Available is the live count not held by an active booking. The
// accounting invariant 0 <= available <= quantity is enforced by the inventory
// repository's conditional updates, never by handler code.
type Car struct {
	ID           string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string   `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Model        string   `json:"model" bson:"model" validate:"required,min=1,max=100"`
	Image        string   `json:"image" bson:"image" validate:"required"`
	PricePerHour float64  `json:"pricePerHour" bson:"pricePerHour" validate:"required,gt=0"`
	Description  string   `json:"description" bson:"description" validate:"required"`
	Quantity     int      `json:"quantity" bson:"quantity" validate:"required,min=1"`
	Available    int      `json:"available" bson:"available" validate:"min=0"`
	Category     string   `json:"category" bson:"category" validate:"required"`
	Transmission string   `json:"transmission" bson:"transmission" validate:"required,oneof=manual automatic"`
	Seats        int      `json:"seats" bson:"seats" validate:"required,min=1,max=20"`
	Features     []string `json:"features" bson:"features" validate:"omitempty,dive,min=1,max=100"`
}

// CarUpdate carries the admin-editable fields; zero values mean "leave as is".
// Quantity changes adjust Available by the same delta so active bookings stay
// accounted for.
type CarUpdate struct {
	Name         string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Model        string   `json:"model,omitempty" validate:"omitempty,min=1,max=100"`
	Image        string   `json:"image,omitempty"`
	PricePerHour *float64 `json:"pricePerHour,omitempty" validate:"omitempty,gt=0"`
	Description  string   `json:"description,omitempty"`
	Quantity     *int     `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Category     string   `json:"category,omitempty"`
	Transmission string   `json:"transmission,omitempty" validate:"omitempty,oneof=manual automatic"`
	Seats        *int     `json:"seats,omitempty" validate:"omitempty,min=1,max=20"`
	Features     []string `json:"features,omitempty" validate:"omitempty,dive,min=1,max=100"`
}
