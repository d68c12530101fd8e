package residence

import (
	"context"
	"errors"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/domain/shared/valueobject"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResidentService manages the people living in flats
type ResidentService struct {
	residentRepo residence.ResidentRepository
	flatRepo     residence.FlatRepository
	tx           TxRunner
	audit        audit.Emitter
	cache        CacheInvalidator
	logger       *zap.Logger
	now          func() time.Time
}

// NewResidentService creates a new ResidentService
func NewResidentService(
	residentRepo residence.ResidentRepository,
	flatRepo residence.FlatRepository,
	tx TxRunner,
	auditEmitter audit.Emitter,
	logger *zap.Logger,
) *ResidentService {
	return &ResidentService{
		residentRepo: residentRepo,
		flatRepo:     flatRepo,
		tx:           tx,
		audit:        auditEmitter,
		cache:        noopInvalidator{},
		logger:       logger,
		now:          time.Now,
	}
}

// SetCacheInvalidator wires the report cache
func (s *ResidentService) SetCacheInvalidator(c CacheInvalidator) {
	if c != nil {
		s.cache = c
	}
}

// CreateResident registers a resident and links them to the flat as owner or tenant
func (s *ResidentService) CreateResident(ctx context.Context, session shared.Session, req CreateResidentRequest) (*ResidentResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	tcNo, err := valueobject.NewTCNo(req.TCNo)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	residentType := residence.ResidentType(req.Type)
	if !residentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Resident type must be owner or tenant")
	}
	moveIn := s.now()
	if req.MoveInDate != nil {
		moveIn = *req.MoveInDate
	}

	var resident *residence.Resident
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.residentRepo.ExistsActiveByTCNo(ctx, tcNo.String())
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "An active resident with this national id already exists")
		}
		flat, err := s.flatRepo.FindByID(ctx, req.FlatID)
		if err != nil {
			return err
		}
		resident, err = residence.NewResident(flat, req.FirstName, req.LastName, tcNo, residentType, moveIn,
			residence.ResidentContact{
				Phone:            req.Phone,
				Email:            req.Email,
				EmergencyContact: req.EmergencyContact,
			})
		if err != nil {
			return err
		}
		if err := s.residentRepo.Save(ctx, resident); err != nil {
			return err
		}
		if residentType == residence.ResidentTypeOwner {
			err = flat.AssignOwner(resident.ID)
		} else {
			err = flat.AssignTenant(resident.ID)
		}
		if err != nil {
			return err
		}
		return s.flatRepo.Save(ctx, flat)
	})
	if err != nil {
		return nil, err
	}

	resp := toResidentResponse(resident)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityResident, resident.ID.String(),
		"Sakin eklendi: "+resident.FullName()).WithValues(nil, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// UpdateResident updates a resident's name and contact fields
func (s *ResidentService) UpdateResident(ctx context.Context, session shared.Session, id uuid.UUID, req UpdateResidentRequest) (*ResidentResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toResidentResponse(resident)
	if err := resident.UpdateContact(req.FirstName, req.LastName, residence.ResidentContact{
		Phone:            req.Phone,
		Email:            req.Email,
		EmergencyContact: req.EmergencyContact,
	}); err != nil {
		return nil, err
	}
	if err := s.residentRepo.Save(ctx, resident); err != nil {
		return nil, err
	}
	resp := toResidentResponse(resident)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityResident, id.String(),
		"Sakin güncellendi: "+resident.FullName()).WithValues(before, resp))
	return &resp, nil
}

// MoveOut deactivates a resident and clears the flat's reference to them
func (s *ResidentService) MoveOut(ctx context.Context, session shared.Session, id uuid.UUID, req MoveOutRequest) (*ResidentResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	at := s.now()
	if req.MoveOutDate != nil {
		at = *req.MoveOutDate
	}

	var (
		resident *residence.Resident
		before   ResidentResponse
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		resident, err = s.residentRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before = toResidentResponse(resident)
		if err := resident.MoveOut(at); err != nil {
			return err
		}
		if err := s.residentRepo.Save(ctx, resident); err != nil {
			return err
		}
		flat, err := s.flatRepo.FindByID(ctx, resident.FlatID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		if flat.Release(resident.ID) {
			return s.flatRepo.Save(ctx, flat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("resident moved out",
		zap.String("resident_id", id.String()),
		zap.String("flat_id", resident.FlatID.String()),
	)
	resp := toResidentResponse(resident)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityResident, id.String(),
		"Sakin taşındı: "+resident.FullName()).WithValues(before, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// DeleteResident soft deletes a resident who has already moved out
func (s *ResidentService) DeleteResident(ctx context.Context, session shared.Session, id uuid.UUID) error {
	if err := session.Validate(); err != nil {
		return err
	}
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if resident.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Move the resident out before deleting")
	}
	if err := s.residentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionDelete, audit.EntityResident, id.String(),
		"Sakin silindi: "+resident.FullName()).WithValues(toResidentResponse(resident), nil))
	s.cache.Invalidate(ctx)
	return nil
}

// GetResident returns a resident by id
func (s *ResidentService) GetResident(ctx context.Context, id uuid.UUID) (*ResidentResponse, error) {
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResidentResponse(resident)
	return &resp, nil
}

// ListResidents lists residents with filtering
func (s *ResidentService) ListResidents(ctx context.Context, filter ResidentListFilter) (shared.Paginated[ResidentResponse], error) {
	f := residence.ResidentFilter{
		Filter:      shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		ApartmentID: filter.ApartmentID,
		BlockID:     filter.BlockID,
		FlatID:      filter.FlatID,
		IsActive:    filter.IsActive,
	}
	if filter.OrderBy == "" {
		f.OrderBy = "last_name"
		f.OrderDir = "asc"
	}
	if filter.Type != "" {
		residentType := residence.ResidentType(filter.Type)
		if !residentType.IsValid() {
			return shared.Paginated[ResidentResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown resident type")
		}
		f.Type = &residentType
	}
	items, err := s.residentRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[ResidentResponse]{}, err
	}
	total, err := s.residentRepo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[ResidentResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(items, toResidentResponse), total, f.Page, f.PageSize), nil
}

// ListActive lists active residents, optionally limited to one apartment
func (s *ResidentService) ListActive(ctx context.Context, apartmentID *uuid.UUID, filter ResidentListFilter) (shared.Paginated[ResidentResponse], error) {
	active := true
	filter.IsActive = &active
	filter.ApartmentID = apartmentID
	return s.ListResidents(ctx, filter)
}

// ListByFlat returns the current residents of a flat
func (s *ResidentService) ListByFlat(ctx context.Context, flatID uuid.UUID) ([]ResidentResponse, error) {
	if _, err := s.flatRepo.FindByID(ctx, flatID); err != nil {
		return nil, err
	}
	items, err := s.residentRepo.FindActiveByFlat(ctx, flatID)
	if err != nil {
		return nil, err
	}
	return mapSlice(items, toResidentResponse), nil
}

// FlatHistory returns everyone who ever lived in a flat, newest move-in first
func (s *ResidentService) FlatHistory(ctx context.Context, flatID uuid.UUID) ([]ResidentResponse, error) {
	if _, err := s.flatRepo.FindByID(ctx, flatID); err != nil {
		return nil, err
	}
	items, err := s.residentRepo.FindHistoryByFlat(ctx, flatID)
	if err != nil {
		return nil, err
	}
	return mapSlice(items, toResidentResponse), nil
}
