package residence

import (
	"strings"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Apartment is a residential complex; it owns blocks
type Apartment struct {
	shared.BaseAggregateRoot
	Name         string
	Address      string
	City         string
	District     string
	TotalBlocks  int
	TotalFlats   int
	ManagerName  string
	ManagerPhone string
}

// NewApartment creates a new apartment complex
func NewApartment(name, address, city, district string) (*Apartment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Apartment name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Apartment name cannot exceed 200 characters")
	}
	return &Apartment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           strings.TrimSpace(address),
		City:              strings.TrimSpace(city),
		District:          strings.TrimSpace(district),
	}, nil
}

// Update changes descriptive fields
func (a *Apartment) Update(name, address, city, district string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Apartment name cannot be empty")
	}
	a.Name = name
	a.Address = strings.TrimSpace(address)
	a.City = strings.TrimSpace(city)
	a.District = strings.TrimSpace(district)
	a.Touch()
	a.IncrementVersion()
	return nil
}

// SetManager sets the on-site manager contact
func (a *Apartment) SetManager(name, phone string) {
	a.ManagerName = strings.TrimSpace(name)
	a.ManagerPhone = strings.TrimSpace(phone)
	a.Touch()
}

// SetCounts records the block and flat totals
func (a *Apartment) SetCounts(blocks, flats int) error {
	if blocks < 0 || flats < 0 {
		return shared.NewDomainError("INVALID_COUNT", "Counts cannot be negative")
	}
	a.TotalBlocks = blocks
	a.TotalFlats = flats
	a.Touch()
	return nil
}

// Block is a building within an apartment complex
type Block struct {
	shared.BaseAggregateRoot
	ApartmentID uuid.UUID
	Name        string
	TotalFloors int
	TotalFlats  int
}

// NewBlock creates a block inside an apartment
func NewBlock(apartmentID uuid.UUID, name string, totalFloors, totalFlats int) (*Block, error) {
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APARTMENT", "Apartment ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Block name cannot be empty")
	}
	if totalFloors < 0 || totalFlats < 0 {
		return nil, shared.NewDomainError("INVALID_COUNT", "Counts cannot be negative")
	}
	return &Block{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ApartmentID:       apartmentID,
		Name:              name,
		TotalFloors:       totalFloors,
		TotalFlats:        totalFlats,
	}, nil
}

// Update changes the block's name and counts
func (b *Block) Update(name string, totalFloors, totalFlats int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Block name cannot be empty")
	}
	if totalFloors < 0 || totalFlats < 0 {
		return shared.NewDomainError("INVALID_COUNT", "Counts cannot be negative")
	}
	b.Name = name
	b.TotalFloors = totalFloors
	b.TotalFlats = totalFlats
	b.Touch()
	b.IncrementVersion()
	return nil
}
