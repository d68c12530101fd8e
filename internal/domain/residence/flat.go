package residence

import (
	"strings"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlatType classifies a flat's use
type FlatType string

const (
	FlatTypeResidential FlatType = "residential"
	FlatTypeCommercial  FlatType = "commercial"
	FlatTypeOffice      FlatType = "office"
)

// IsValid checks if the flat type is known
func (t FlatType) IsValid() bool {
	switch t {
	case FlatTypeResidential, FlatTypeCommercial, FlatTypeOffice:
		return true
	}
	return false
}

// OccupancyStatus describes whether a flat is lived in
type OccupancyStatus string

const (
	OccupancyOccupied        OccupancyStatus = "occupied"
	OccupancyVacant          OccupancyStatus = "vacant"
	OccupancyUnderRenovation OccupancyStatus = "under-renovation"
)

// IsValid checks if the occupancy status is known
func (s OccupancyStatus) IsValid() bool {
	switch s {
	case OccupancyOccupied, OccupancyVacant, OccupancyUnderRenovation:
		return true
	}
	return false
}

// Flat is a unit in a block; dues are assessed against flats
type Flat struct {
	shared.BaseAggregateRoot
	ApartmentID     uuid.UUID
	BlockID         uuid.UUID
	FlatNumber      string
	Floor           int
	Type            FlatType
	SquareMeters    decimal.Decimal
	OwnerID         *uuid.UUID
	TenantID        *uuid.UUID
	OccupancyStatus OccupancyStatus
}

// NewFlat creates a vacant flat inside a block
func NewFlat(block *Block, flatNumber string, floor int, flatType FlatType) (*Flat, error) {
	if block == nil {
		return nil, shared.NewDomainError("INVALID_BLOCK", "Block is required")
	}
	flatNumber = strings.TrimSpace(flatNumber)
	if flatNumber == "" {
		return nil, shared.NewDomainError("INVALID_FLAT_NUMBER", "Flat number cannot be empty")
	}
	if flatType == "" {
		flatType = FlatTypeResidential
	}
	if !flatType.IsValid() {
		return nil, shared.NewDomainError("INVALID_FLAT_TYPE", "Flat type is not valid")
	}
	return &Flat{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ApartmentID:       block.ApartmentID,
		BlockID:           block.ID,
		FlatNumber:        flatNumber,
		Floor:             floor,
		Type:              flatType,
		SquareMeters:      decimal.Zero,
		OccupancyStatus:   OccupancyVacant,
	}, nil
}

// Update changes the descriptive fields of a flat
func (f *Flat) Update(flatNumber string, floor int, flatType FlatType, squareMeters decimal.Decimal) error {
	flatNumber = strings.TrimSpace(flatNumber)
	if flatNumber == "" {
		return shared.NewDomainError("INVALID_FLAT_NUMBER", "Flat number cannot be empty")
	}
	if !flatType.IsValid() {
		return shared.NewDomainError("INVALID_FLAT_TYPE", "Flat type is not valid")
	}
	if squareMeters.IsNegative() {
		return shared.NewDomainError("INVALID_AREA", "Square meters cannot be negative")
	}
	f.FlatNumber = flatNumber
	f.Floor = floor
	f.Type = flatType
	f.SquareMeters = squareMeters
	f.Touch()
	f.IncrementVersion()
	return nil
}

// AssignOwner records the owner and marks the flat occupied
func (f *Flat) AssignOwner(residentID uuid.UUID) error {
	if residentID == uuid.Nil {
		return shared.NewDomainError("INVALID_RESIDENT", "Resident ID cannot be empty")
	}
	f.OwnerID = &residentID
	f.OccupancyStatus = OccupancyOccupied
	f.Touch()
	f.IncrementVersion()
	return nil
}

// AssignTenant records the tenant and marks the flat occupied
func (f *Flat) AssignTenant(residentID uuid.UUID) error {
	if residentID == uuid.Nil {
		return shared.NewDomainError("INVALID_RESIDENT", "Resident ID cannot be empty")
	}
	f.TenantID = &residentID
	f.OccupancyStatus = OccupancyOccupied
	f.Touch()
	f.IncrementVersion()
	return nil
}

// Release drops the resident's reference from the flat.
// The flat becomes vacant once neither owner nor tenant remains.
func (f *Flat) Release(residentID uuid.UUID) bool {
	changed := false
	if f.TenantID != nil && *f.TenantID == residentID {
		f.TenantID = nil
		changed = true
	}
	if f.OwnerID != nil && *f.OwnerID == residentID {
		f.OwnerID = nil
		changed = true
	}
	if !changed {
		return false
	}
	if f.OwnerID == nil && f.TenantID == nil {
		f.OccupancyStatus = OccupancyVacant
	}
	f.Touch()
	f.IncrementVersion()
	return true
}

// SetOccupancy sets the occupancy status explicitly
func (f *Flat) SetOccupancy(status OccupancyStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_OCCUPANCY", "Occupancy status is not valid")
	}
	f.OccupancyStatus = status
	f.Touch()
	return nil
}

// BillableResident returns the tenant if present, else the owner, else nil
func (f *Flat) BillableResident() *uuid.UUID {
	if f.TenantID != nil {
		return f.TenantID
	}
	return f.OwnerID
}
