package residence

import (
	"time"

	"github.com/aidat/backend/internal/domain/residence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApartmentResponse represents an apartment complex in API responses
type ApartmentResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	District     string    `json:"district"`
	TotalBlocks  int       `json:"total_blocks"`
	TotalFlats   int       `json:"total_flats"`
	ManagerName  string    `json:"manager_name,omitempty"`
	ManagerPhone string    `json:"manager_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ApartmentRequest is used to create or update an apartment
type ApartmentRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Address      string `json:"address" binding:"max=500"`
	City         string `json:"city" binding:"max=100"`
	District     string `json:"district" binding:"max=100"`
	ManagerName  string `json:"manager_name" binding:"max=200"`
	ManagerPhone string `json:"manager_phone" binding:"max=20"`
}

// BlockResponse represents a block in API responses
type BlockResponse struct {
	ID          uuid.UUID `json:"id"`
	ApartmentID uuid.UUID `json:"apartment_id"`
	Name        string    `json:"name"`
	TotalFloors int       `json:"total_floors"`
	TotalFlats  int       `json:"total_flats"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateBlockRequest is used to create a block
type CreateBlockRequest struct {
	ApartmentID uuid.UUID `json:"apartment_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=100"`
	TotalFloors int       `json:"total_floors" binding:"min=0"`
	TotalFlats  int       `json:"total_flats" binding:"min=0"`
}

// UpdateBlockRequest is used to update a block
type UpdateBlockRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	TotalFloors int    `json:"total_floors" binding:"min=0"`
	TotalFlats  int    `json:"total_flats" binding:"min=0"`
}

// FlatResponse represents a flat in API responses
type FlatResponse struct {
	ID              uuid.UUID       `json:"id"`
	ApartmentID     uuid.UUID       `json:"apartment_id"`
	BlockID         uuid.UUID       `json:"block_id"`
	FlatNumber      string          `json:"flat_number"`
	Floor           int             `json:"floor"`
	Type            string          `json:"type"`
	SquareMeters    decimal.Decimal `json:"square_meters"`
	OwnerID         *uuid.UUID      `json:"owner_id,omitempty"`
	TenantID        *uuid.UUID      `json:"tenant_id,omitempty"`
	OccupancyStatus string          `json:"occupancy_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateFlatRequest is used to create a flat; the apartment comes from the block
type CreateFlatRequest struct {
	BlockID      uuid.UUID       `json:"block_id" binding:"required"`
	FlatNumber   string          `json:"flat_number" binding:"required,max=20"`
	Floor        int             `json:"floor"`
	Type         string          `json:"type" binding:"omitempty,oneof=residential commercial office"`
	SquareMeters decimal.Decimal `json:"square_meters"`
}

// UpdateFlatRequest is used to update a flat
type UpdateFlatRequest struct {
	FlatNumber      string          `json:"flat_number" binding:"required,max=20"`
	Floor           int             `json:"floor"`
	Type            string          `json:"type" binding:"required,oneof=residential commercial office"`
	SquareMeters    decimal.Decimal `json:"square_meters"`
	OccupancyStatus string          `json:"occupancy_status" binding:"omitempty,oneof=occupied vacant under-renovation"`
}

// AssignResidentRequest links a resident to a flat as owner or tenant
type AssignResidentRequest struct {
	ResidentID uuid.UUID `json:"resident_id" binding:"required"`
}

// FlatListFilter defines filtering options for flat list queries
type FlatListFilter struct {
	ApartmentID     *uuid.UUID `form:"apartment_id"`
	BlockID         *uuid.UUID `form:"block_id"`
	OccupancyStatus string     `form:"occupancy_status"`
	Type            string     `form:"type"`
	Search          string     `form:"search"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page            int        `form:"page"`
	PageSize        int        `form:"page_size" binding:"omitempty,max=100"`
}

// ResidentResponse represents a resident in API responses
type ResidentResponse struct {
	ID               uuid.UUID  `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	FullName         string     `json:"full_name"`
	Phone            string     `json:"phone,omitempty"`
	Email            string     `json:"email,omitempty"`
	TCNo             string     `json:"tc_no"`
	Type             string     `json:"type"`
	FlatID           uuid.UUID  `json:"flat_id"`
	BlockID          uuid.UUID  `json:"block_id"`
	ApartmentID      uuid.UUID  `json:"apartment_id"`
	MoveInDate       time.Time  `json:"move_in_date"`
	MoveOutDate      *time.Time `json:"move_out_date,omitempty"`
	IsActive         bool       `json:"is_active"`
	EmergencyContact string     `json:"emergency_contact,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateResidentRequest is used to register a resident in a flat
type CreateResidentRequest struct {
	FlatID           uuid.UUID  `json:"flat_id" binding:"required"`
	FirstName        string     `json:"first_name" binding:"required,max=100"`
	LastName         string     `json:"last_name" binding:"required,max=100"`
	TCNo             string     `json:"tc_no" binding:"required,tcno"`
	Type             string     `json:"type" binding:"required,oneof=owner tenant"`
	Phone            string     `json:"phone" binding:"max=20"`
	Email            string     `json:"email" binding:"omitempty,email"`
	EmergencyContact string     `json:"emergency_contact" binding:"max=200"`
	MoveInDate       *time.Time `json:"move_in_date"`
}

// UpdateResidentRequest is used to update a resident's name and contact fields
type UpdateResidentRequest struct {
	FirstName        string `json:"first_name" binding:"required,max=100"`
	LastName         string `json:"last_name" binding:"required,max=100"`
	Phone            string `json:"phone" binding:"max=20"`
	Email            string `json:"email" binding:"omitempty,email"`
	EmergencyContact string `json:"emergency_contact" binding:"max=200"`
}

// MoveOutRequest records when a resident left
type MoveOutRequest struct {
	MoveOutDate *time.Time `json:"move_out_date"`
}

// ResidentListFilter defines filtering options for resident list queries
type ResidentListFilter struct {
	ApartmentID *uuid.UUID `form:"apartment_id"`
	BlockID     *uuid.UUID `form:"block_id"`
	FlatID      *uuid.UUID `form:"flat_id"`
	Type        string     `form:"type"`
	IsActive    *bool      `form:"is_active"`
	Search      string     `form:"search"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size" binding:"omitempty,max=100"`
}

// ListFilter is the plain paging filter for apartments
type ListFilter struct {
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

func toApartmentResponse(a *residence.Apartment) ApartmentResponse {
	return ApartmentResponse{
		ID:           a.ID,
		Name:         a.Name,
		Address:      a.Address,
		City:         a.City,
		District:     a.District,
		TotalBlocks:  a.TotalBlocks,
		TotalFlats:   a.TotalFlats,
		ManagerName:  a.ManagerName,
		ManagerPhone: a.ManagerPhone,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toBlockResponse(b *residence.Block) BlockResponse {
	return BlockResponse{
		ID:          b.ID,
		ApartmentID: b.ApartmentID,
		Name:        b.Name,
		TotalFloors: b.TotalFloors,
		TotalFlats:  b.TotalFlats,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toFlatResponse(f *residence.Flat) FlatResponse {
	return FlatResponse{
		ID:              f.ID,
		ApartmentID:     f.ApartmentID,
		BlockID:         f.BlockID,
		FlatNumber:      f.FlatNumber,
		Floor:           f.Floor,
		Type:            string(f.Type),
		SquareMeters:    f.SquareMeters,
		OwnerID:         f.OwnerID,
		TenantID:        f.TenantID,
		OccupancyStatus: string(f.OccupancyStatus),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// toResidentResponse masks the national id; audit snapshots use the same shape
func toResidentResponse(r *residence.Resident) ResidentResponse {
	return ResidentResponse{
		ID:               r.ID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		FullName:         r.FullName(),
		Phone:            r.Phone,
		Email:            r.Email,
		TCNo:             r.TCNo.Masked(),
		Type:             string(r.Type),
		FlatID:           r.FlatID,
		BlockID:          r.BlockID,
		ApartmentID:      r.ApartmentID,
		MoveInDate:       r.MoveInDate,
		MoveOutDate:      r.MoveOutDate,
		IsActive:         r.IsActive,
		EmergencyContact: r.EmergencyContact,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
