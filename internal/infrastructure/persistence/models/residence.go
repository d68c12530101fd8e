package models

import (
	"time"

	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApartmentModel is the persistence model for the Apartment aggregate
type ApartmentModel struct {
	AggregateModel
	Name         string `gorm:"type:varchar(200);not null"`
	Address      string `gorm:"type:text;not null"`
	City         string `gorm:"type:varchar(100);not null;index"`
	District     string `gorm:"type:varchar(100)"`
	TotalBlocks  int    `gorm:"not null;default:0"`
	TotalFlats   int    `gorm:"not null;default:0"`
	ManagerName  string `gorm:"type:varchar(200)"`
	ManagerPhone string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (ApartmentModel) TableName() string {
	return "apartments"
}

// ToDomain converts the model to a domain Apartment
func (m *ApartmentModel) ToDomain() *residence.Apartment {
	return &residence.Apartment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Address:           m.Address,
		City:              m.City,
		District:          m.District,
		TotalBlocks:       m.TotalBlocks,
		TotalFlats:        m.TotalFlats,
		ManagerName:       m.ManagerName,
		ManagerPhone:      m.ManagerPhone,
	}
}

// FromDomain populates the model from a domain Apartment
func (m *ApartmentModel) FromDomain(a *residence.Apartment) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.Address = a.Address
	m.City = a.City
	m.District = a.District
	m.TotalBlocks = a.TotalBlocks
	m.TotalFlats = a.TotalFlats
	m.ManagerName = a.ManagerName
	m.ManagerPhone = a.ManagerPhone
}

// ApartmentModelFromDomain creates a new model from a domain Apartment
func ApartmentModelFromDomain(a *residence.Apartment) *ApartmentModel {
	m := &ApartmentModel{}
	m.FromDomain(a)
	return m
}

// BlockModel is the persistence model for the Block aggregate
type BlockModel struct {
	AggregateModel
	ApartmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(100);not null"`
	TotalFloors int       `gorm:"not null;default:0"`
	TotalFlats  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BlockModel) TableName() string {
	return "blocks"
}

// ToDomain converts the model to a domain Block
func (m *BlockModel) ToDomain() *residence.Block {
	return &residence.Block{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ApartmentID:       m.ApartmentID,
		Name:              m.Name,
		TotalFloors:       m.TotalFloors,
		TotalFlats:        m.TotalFlats,
	}
}

// BlockModelFromDomain creates a new model from a domain Block
func BlockModelFromDomain(b *residence.Block) *BlockModel {
	m := &BlockModel{
		ApartmentID: b.ApartmentID,
		Name:        b.Name,
		TotalFloors: b.TotalFloors,
		TotalFlats:  b.TotalFlats,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// FlatModel is the persistence model for the Flat aggregate
type FlatModel struct {
	AggregateModel
	ApartmentID     uuid.UUID                 `gorm:"type:uuid;not null;index"`
	BlockID         uuid.UUID                 `gorm:"type:uuid;not null;index"`
	FlatNumber      string                    `gorm:"type:varchar(20);not null"`
	Floor           int                       `gorm:"not null;default:0"`
	Type            residence.FlatType        `gorm:"type:varchar(20);not null;default:'residential'"`
	SquareMeters    decimal.Decimal           `gorm:"type:decimal(10,2)"`
	OwnerID         *uuid.UUID                `gorm:"type:uuid;index"`
	TenantID        *uuid.UUID                `gorm:"type:uuid;index"`
	OccupancyStatus residence.OccupancyStatus `gorm:"type:varchar(20);not null;default:'vacant';index"`
}

// TableName returns the table name for GORM
func (FlatModel) TableName() string {
	return "flats"
}

// ToDomain converts the model to a domain Flat
func (m *FlatModel) ToDomain() *residence.Flat {
	return &residence.Flat{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ApartmentID:       m.ApartmentID,
		BlockID:           m.BlockID,
		FlatNumber:        m.FlatNumber,
		Floor:             m.Floor,
		Type:              m.Type,
		SquareMeters:      m.SquareMeters,
		OwnerID:           m.OwnerID,
		TenantID:          m.TenantID,
		OccupancyStatus:   m.OccupancyStatus,
	}
}

// FlatModelFromDomain creates a new model from a domain Flat
func FlatModelFromDomain(f *residence.Flat) *FlatModel {
	m := &FlatModel{
		ApartmentID:     f.ApartmentID,
		BlockID:         f.BlockID,
		FlatNumber:      f.FlatNumber,
		Floor:           f.Floor,
		Type:            f.Type,
		SquareMeters:    f.SquareMeters,
		OwnerID:         f.OwnerID,
		TenantID:        f.TenantID,
		OccupancyStatus: f.OccupancyStatus,
	}
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	return m
}

// ResidentModel is the persistence model for the Resident aggregate
type ResidentModel struct {
	AggregateModel
	FirstName        string                 `gorm:"type:varchar(100);not null"`
	LastName         string                 `gorm:"type:varchar(100);not null"`
	Phone            string                 `gorm:"type:varchar(30)"`
	Email            string                 `gorm:"type:varchar(200)"`
	TCNo             string                 `gorm:"column:tc_no;type:char(11);not null;index"`
	Type             residence.ResidentType `gorm:"type:varchar(20);not null"`
	FlatID           uuid.UUID              `gorm:"type:uuid;not null;index"`
	BlockID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	ApartmentID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	MoveInDate       time.Time              `gorm:"not null"`
	MoveOutDate      *time.Time
	IsActive         bool   `gorm:"not null;default:true;index"`
	EmergencyContact string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ResidentModel) TableName() string {
	return "residents"
}

// ToDomain converts the model to a domain Resident
func (m *ResidentModel) ToDomain() *residence.Resident {
	return &residence.Resident{
		BaseAggregateRoot: m.ToAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Phone:             m.Phone,
		Email:             m.Email,
		TCNo:              valueobject.RestoreTCNo(m.TCNo),
		Type:              m.Type,
		FlatID:            m.FlatID,
		BlockID:           m.BlockID,
		ApartmentID:       m.ApartmentID,
		MoveInDate:        m.MoveInDate,
		MoveOutDate:       m.MoveOutDate,
		IsActive:          m.IsActive,
		EmergencyContact:  m.EmergencyContact,
	}
}

// ResidentModelFromDomain creates a new model from a domain Resident
func ResidentModelFromDomain(r *residence.Resident) *ResidentModel {
	m := &ResidentModel{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Phone:            r.Phone,
		Email:            r.Email,
		TCNo:             r.TCNo.String(),
		Type:             r.Type,
		FlatID:           r.FlatID,
		BlockID:          r.BlockID,
		ApartmentID:      r.ApartmentID,
		MoveInDate:       r.MoveInDate,
		MoveOutDate:      r.MoveOutDate,
		IsActive:         r.IsActive,
		EmergencyContact: r.EmergencyContact,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}
