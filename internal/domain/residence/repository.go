package residence

import (
	"context"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ApartmentRepository defines the interface for apartment persistence
type ApartmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Apartment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Apartment, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, apartment *Apartment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlockRepository defines the interface for block persistence
type BlockRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Block, error)
	FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]Block, error)
	Save(ctx context.Context, block *Block) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FlatFilter defines filtering options for flat queries
type FlatFilter struct {
	shared.Filter
	ApartmentID     *uuid.UUID
	BlockID         *uuid.UUID
	OccupancyStatus *OccupancyStatus
	Type            *FlatType
}

// FlatRepository defines the interface for flat persistence
type FlatRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Flat, error)
	FindAll(ctx context.Context, filter FlatFilter) ([]Flat, error)
	Count(ctx context.Context, filter FlatFilter) (int64, error)

	// FindByBlock returns every live flat of a block
	FindByBlock(ctx context.Context, blockID uuid.UUID) ([]Flat, error)

	// FindByApartment returns every live flat of an apartment
	FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]Flat, error)

	Save(ctx context.Context, flat *Flat) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ResidentFilter defines filtering options for resident queries
type ResidentFilter struct {
	shared.Filter
	ApartmentID *uuid.UUID
	BlockID     *uuid.UUID
	FlatID      *uuid.UUID
	Type        *ResidentType
	IsActive    *bool
}

// ResidentRepository defines the interface for resident persistence
type ResidentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Resident, error)
	FindAll(ctx context.Context, filter ResidentFilter) ([]Resident, error)
	Count(ctx context.Context, filter ResidentFilter) (int64, error)

	// FindActiveByFlat returns current residents of a flat
	FindActiveByFlat(ctx context.Context, flatID uuid.UUID) ([]Resident, error)

	// FindHistoryByFlat returns all residents who ever lived in a flat, newest move-in first
	FindHistoryByFlat(ctx context.Context, flatID uuid.UUID) ([]Resident, error)

	// ExistsActiveByTCNo checks if an active resident already uses the national id
	ExistsActiveByTCNo(ctx context.Context, tcNo string) (bool, error)

	Save(ctx context.Context, resident *Resident) error
	Delete(ctx context.Context, id uuid.UUID) error
}
