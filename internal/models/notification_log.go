package models

import "time"

// NotificationLog records every booking event handed to the notification
// boundary. Delivery itself happens outside this service.
type NotificationLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Event     string `gorm:"size:50;not null" json:"event"`
	BookingID *uint  `gorm:"index" json:"booking_id"`
	Recipient string `gorm:"size:100" json:"recipient"`
	Payload   string `gorm:"type:text" json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}
