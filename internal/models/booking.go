package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Confirmation code surfaced to the patient.
	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	AvailabilitySlotID *uint             `gorm:"index" json:"availability_slot_id"`
	AvailabilitySlot   *AvailabilitySlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"availability_slot,omitempty"`

	FirstName   string `gorm:"size:100;not null" json:"first_name"`
	LastName    string `gorm:"size:100;not null" json:"last_name"`
	Email       string `gorm:"size:100;index" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	DateOfBirth string `gorm:"size:10" json:"date_of_birth"`

	// Used when the patient typed a wish instead of picking a slot.
	PreferredDate string `gorm:"size:10" json:"preferred_date"`
	PreferredTime string `gorm:"size:5" json:"preferred_time"`

	ReasonForVisit     string `gorm:"size:500" json:"reason_for_visit"`
	PreviousTreatment  string `gorm:"size:500" json:"previous_treatment"`
	CurrentMedications string `gorm:"size:500" json:"current_medications"`
	InsuranceProvider  string `gorm:"size:100" json:"insurance_provider"`
	EmergencyContact   string `gorm:"size:100" json:"emergency_contact"`
	EmergencyPhone     string `gorm:"size:20" json:"emergency_phone"`

	ConsentAccepted bool `json:"consent_accepted"`

	Status string `gorm:"size:20;default:'pending';index" json:"status"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
