package residence

import (
	"strings"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ResidentType tells whether a resident owns or rents the flat
type ResidentType string

const (
	ResidentTypeOwner  ResidentType = "owner"
	ResidentTypeTenant ResidentType = "tenant"
)

// IsValid checks if the resident type is known
func (t ResidentType) IsValid() bool {
	return t == ResidentTypeOwner || t == ResidentTypeTenant
}

// Resident is a person living in (or owning) a flat.
// Residents are retained after move-out for history queries.
type Resident struct {
	shared.BaseAggregateRoot
	FirstName        string
	LastName         string
	Phone            string
	Email            string
	TCNo             valueobject.TCNo
	Type             ResidentType
	FlatID           uuid.UUID
	BlockID          uuid.UUID
	ApartmentID      uuid.UUID
	MoveInDate       time.Time
	MoveOutDate      *time.Time
	IsActive         bool
	EmergencyContact string
}

// ResidentContact groups the contact fields of a resident
type ResidentContact struct {
	Phone            string
	Email            string
	EmergencyContact string
}

// NewResident creates an active resident living in the given flat
func NewResident(flat *Flat, firstName, lastName string, tcNo valueobject.TCNo, residentType ResidentType, moveIn time.Time, contact ResidentContact) (*Resident, error) {
	if flat == nil {
		return nil, shared.NewDomainError("INVALID_FLAT", "Flat is required")
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if tcNo.IsZero() {
		return nil, shared.NewDomainError("INVALID_TC_NO", "National id is required")
	}
	if !residentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RESIDENT_TYPE", "Resident type is not valid")
	}
	if moveIn.IsZero() {
		moveIn = time.Now()
	}

	return &Resident{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Phone:             strings.TrimSpace(contact.Phone),
		Email:             strings.ToLower(strings.TrimSpace(contact.Email)),
		EmergencyContact:  strings.TrimSpace(contact.EmergencyContact),
		TCNo:              tcNo,
		Type:              residentType,
		FlatID:            flat.ID,
		BlockID:           flat.BlockID,
		ApartmentID:       flat.ApartmentID,
		MoveInDate:        moveIn,
		IsActive:          true,
	}, nil
}

// FullName returns "First Last"
func (r *Resident) FullName() string {
	return r.FirstName + " " + r.LastName
}

// UpdateContact replaces name and contact fields
func (r *Resident) UpdateContact(firstName, lastName string, contact ResidentContact) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	r.FirstName = firstName
	r.LastName = lastName
	r.Phone = strings.TrimSpace(contact.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(contact.Email))
	r.EmergencyContact = strings.TrimSpace(contact.EmergencyContact)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// MoveOut deactivates the resident; the record stays for history
func (r *Resident) MoveOut(at time.Time) error {
	if !r.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Resident has already moved out")
	}
	if at.IsZero() {
		at = time.Now()
	}
	if at.Before(r.MoveInDate) {
		return shared.NewDomainError("INVALID_DATE", "Move-out date cannot precede move-in date")
	}
	r.IsActive = false
	r.MoveOutDate = &at
	r.Touch()
	r.IncrementVersion()
	return nil
}
