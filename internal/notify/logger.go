package notify

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/models"
)

// Logger persists each event for the delivery collaborator to pick up.
// Message content and transport live outside this service.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	event string,
	bookingID *uint,
	recipient string,
	payload any,
) error {

	var payloadJSON string
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			payloadJSON = string(b)
		}
	}

	entry := models.NotificationLog{
		Event:     event,
		BookingID: bookingID,
		Recipient: recipient,
		Payload:   payloadJSON,
	}

	return l.db.Create(&entry).Error
}
