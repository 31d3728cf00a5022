package model

import "time"

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
)

type Notification struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string    `json:"userId" bson:"userId" validate:"required,mongodb"`
	Title     string    `json:"title" bson:"title" validate:"required,min=1,max=100"`
	Message   string    `json:"message" bson:"message" validate:"required,min=1,max=500"`
	Type      string    `json:"type" bson:"type" validate:"omitempty,oneof=info success warning"`
	IsRead    bool      `json:"isRead" bson:"isRead"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
