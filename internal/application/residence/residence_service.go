package residence

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResidenceService manages apartments, blocks and flats
type ResidenceService struct {
	apartmentRepo residence.ApartmentRepository
	blockRepo     residence.BlockRepository
	flatRepo      residence.FlatRepository
	residentRepo  residence.ResidentRepository
	audit         audit.Emitter
	cache         CacheInvalidator
	logger        *zap.Logger
}

// NewResidenceService creates a new ResidenceService
func NewResidenceService(
	apartmentRepo residence.ApartmentRepository,
	blockRepo residence.BlockRepository,
	flatRepo residence.FlatRepository,
	residentRepo residence.ResidentRepository,
	auditEmitter audit.Emitter,
	logger *zap.Logger,
) *ResidenceService {
	return &ResidenceService{
		apartmentRepo: apartmentRepo,
		blockRepo:     blockRepo,
		flatRepo:      flatRepo,
		residentRepo:  residentRepo,
		audit:         auditEmitter,
		cache:         noopInvalidator{},
		logger:        logger,
	}
}

// SetCacheInvalidator wires the report cache
func (s *ResidenceService) SetCacheInvalidator(c CacheInvalidator) {
	if c != nil {
		s.cache = c
	}
}

// ===================== Apartments =====================

// CreateApartment creates an apartment complex
func (s *ResidenceService) CreateApartment(ctx context.Context, session shared.Session, req ApartmentRequest) (*ApartmentResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	apartment, err := residence.NewApartment(req.Name, req.Address, req.City, req.District)
	if err != nil {
		return nil, err
	}
	apartment.SetManager(req.ManagerName, req.ManagerPhone)
	if err := s.apartmentRepo.Save(ctx, apartment); err != nil {
		return nil, err
	}

	resp := toApartmentResponse(apartment)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityApartment, apartment.ID.String(),
		"Site oluşturuldu: "+apartment.Name).WithValues(nil, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// UpdateApartment updates an apartment complex
func (s *ResidenceService) UpdateApartment(ctx context.Context, session shared.Session, id uuid.UUID, req ApartmentRequest) (*ApartmentResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	apartment, err := s.apartmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toApartmentResponse(apartment)
	if err := apartment.Update(req.Name, req.Address, req.City, req.District); err != nil {
		return nil, err
	}
	apartment.SetManager(req.ManagerName, req.ManagerPhone)
	if err := s.apartmentRepo.Save(ctx, apartment); err != nil {
		return nil, err
	}

	resp := toApartmentResponse(apartment)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityApartment, id.String(),
		"Site güncellendi: "+apartment.Name).WithValues(before, resp))
	return &resp, nil
}

// DeleteApartment soft deletes an apartment complex
func (s *ResidenceService) DeleteApartment(ctx context.Context, session shared.Session, id uuid.UUID) error {
	if err := session.Validate(); err != nil {
		return err
	}
	apartment, err := s.apartmentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.apartmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionDelete, audit.EntityApartment, id.String(),
		"Site silindi: "+apartment.Name).WithValues(toApartmentResponse(apartment), nil))
	s.cache.Invalidate(ctx)
	return nil
}

// GetApartment returns an apartment complex by id
func (s *ResidenceService) GetApartment(ctx context.Context, id uuid.UUID) (*ApartmentResponse, error) {
	apartment, err := s.apartmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toApartmentResponse(apartment)
	return &resp, nil
}

// ListApartments lists apartment complexes
func (s *ResidenceService) ListApartments(ctx context.Context, filter ListFilter) (shared.Paginated[ApartmentResponse], error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.OrderBy == "" {
		f.OrderBy = "name"
		f.OrderDir = "asc"
	}
	items, err := s.apartmentRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[ApartmentResponse]{}, err
	}
	total, err := s.apartmentRepo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[ApartmentResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(items, toApartmentResponse), total, f.Page, f.PageSize), nil
}

// refreshCounts recomputes the denormalized block and flat totals of an apartment
func (s *ResidenceService) refreshCounts(ctx context.Context, apartmentID uuid.UUID) {
	log := logger.WithLogger(ctx, s.logger)
	apartment, err := s.apartmentRepo.FindByID(ctx, apartmentID)
	if err != nil {
		log.Warn("apartment count refresh skipped", zap.String("apartment_id", apartmentID.String()), zap.Error(err))
		return
	}
	blocks, err := s.blockRepo.FindByApartment(ctx, apartmentID)
	if err != nil {
		log.Warn("apartment count refresh skipped", zap.String("apartment_id", apartmentID.String()), zap.Error(err))
		return
	}
	flats, err := s.flatRepo.FindByApartment(ctx, apartmentID)
	if err != nil {
		log.Warn("apartment count refresh skipped", zap.String("apartment_id", apartmentID.String()), zap.Error(err))
		return
	}
	if err := apartment.SetCounts(len(blocks), len(flats)); err != nil {
		return
	}
	if err := s.apartmentRepo.Save(ctx, apartment); err != nil {
		log.Warn("apartment count refresh failed", zap.String("apartment_id", apartmentID.String()), zap.Error(err))
	}
}

// ===================== Blocks =====================

// CreateBlock creates a block inside an existing apartment
func (s *ResidenceService) CreateBlock(ctx context.Context, session shared.Session, req CreateBlockRequest) (*BlockResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.apartmentRepo.FindByID(ctx, req.ApartmentID); err != nil {
		return nil, err
	}
	block, err := residence.NewBlock(req.ApartmentID, req.Name, req.TotalFloors, req.TotalFlats)
	if err != nil {
		return nil, err
	}
	if err := s.blockRepo.Save(ctx, block); err != nil {
		return nil, err
	}
	s.refreshCounts(ctx, block.ApartmentID)

	resp := toBlockResponse(block)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityBlock, block.ID.String(),
		"Blok oluşturuldu: "+block.Name).WithValues(nil, resp))
	return &resp, nil
}

// UpdateBlock updates a block
func (s *ResidenceService) UpdateBlock(ctx context.Context, session shared.Session, id uuid.UUID, req UpdateBlockRequest) (*BlockResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	block, err := s.blockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toBlockResponse(block)
	if err := block.Update(req.Name, req.TotalFloors, req.TotalFlats); err != nil {
		return nil, err
	}
	if err := s.blockRepo.Save(ctx, block); err != nil {
		return nil, err
	}
	resp := toBlockResponse(block)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityBlock, id.String(),
		"Blok güncellendi: "+block.Name).WithValues(before, resp))
	return &resp, nil
}

// DeleteBlock soft deletes a block that has no live flats
func (s *ResidenceService) DeleteBlock(ctx context.Context, session shared.Session, id uuid.UUID) error {
	if err := session.Validate(); err != nil {
		return err
	}
	block, err := s.blockRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	flats, err := s.flatRepo.FindByBlock(ctx, id)
	if err != nil {
		return err
	}
	if len(flats) > 0 {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Block still has %d flats", len(flats)))
	}
	if err := s.blockRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshCounts(ctx, block.ApartmentID)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionDelete, audit.EntityBlock, id.String(),
		"Blok silindi: "+block.Name).WithValues(toBlockResponse(block), nil))
	return nil
}

// GetBlock returns a block by id
func (s *ResidenceService) GetBlock(ctx context.Context, id uuid.UUID) (*BlockResponse, error) {
	block, err := s.blockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toBlockResponse(block)
	return &resp, nil
}

// ListBlocks lists the blocks of an apartment
func (s *ResidenceService) ListBlocks(ctx context.Context, apartmentID uuid.UUID) ([]BlockResponse, error) {
	blocks, err := s.blockRepo.FindByApartment(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	return mapSlice(blocks, toBlockResponse), nil
}

// ===================== Flats =====================

// CreateFlat creates a flat in an existing block; the apartment is inherited from the block
func (s *ResidenceService) CreateFlat(ctx context.Context, session shared.Session, req CreateFlatRequest) (*FlatResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	block, err := s.blockRepo.FindByID(ctx, req.BlockID)
	if err != nil {
		return nil, err
	}
	flat, err := residence.NewFlat(block, req.FlatNumber, req.Floor, residence.FlatType(req.Type))
	if err != nil {
		return nil, err
	}
	if !req.SquareMeters.IsZero() {
		if err := flat.Update(flat.FlatNumber, flat.Floor, flat.Type, req.SquareMeters); err != nil {
			return nil, err
		}
	}
	if err := s.flatRepo.Save(ctx, flat); err != nil {
		return nil, err
	}
	s.refreshCounts(ctx, flat.ApartmentID)

	resp := toFlatResponse(flat)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityFlat, flat.ID.String(),
		fmt.Sprintf("Daire oluşturuldu: %s / %s", block.Name, flat.FlatNumber)).WithValues(nil, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// UpdateFlat updates a flat's descriptive fields
func (s *ResidenceService) UpdateFlat(ctx context.Context, session shared.Session, id uuid.UUID, req UpdateFlatRequest) (*FlatResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	flat, err := s.flatRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toFlatResponse(flat)
	if err := flat.Update(req.FlatNumber, req.Floor, residence.FlatType(req.Type), req.SquareMeters); err != nil {
		return nil, err
	}
	if req.OccupancyStatus != "" {
		if err := flat.SetOccupancy(residence.OccupancyStatus(req.OccupancyStatus)); err != nil {
			return nil, err
		}
	}
	if err := s.flatRepo.Save(ctx, flat); err != nil {
		return nil, err
	}
	resp := toFlatResponse(flat)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityFlat, id.String(),
		"Daire güncellendi: "+flat.FlatNumber).WithValues(before, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// DeleteFlat soft deletes a flat nobody lives in
func (s *ResidenceService) DeleteFlat(ctx context.Context, session shared.Session, id uuid.UUID) error {
	if err := session.Validate(); err != nil {
		return err
	}
	flat, err := s.flatRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	active, err := s.residentRepo.FindActiveByFlat(ctx, id)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return shared.NewDomainError("INVALID_STATE", "Flat still has active residents")
	}
	if err := s.flatRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshCounts(ctx, flat.ApartmentID)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionDelete, audit.EntityFlat, id.String(),
		"Daire silindi: "+flat.FlatNumber).WithValues(toFlatResponse(flat), nil))
	s.cache.Invalidate(ctx)
	return nil
}

// AssignOwner records an active resident of the flat as its owner
func (s *ResidenceService) AssignOwner(ctx context.Context, session shared.Session, flatID uuid.UUID, req AssignResidentRequest) (*FlatResponse, error) {
	return s.assign(ctx, session, flatID, req.ResidentID, residence.ResidentTypeOwner)
}

// AssignTenant records an active resident of the flat as its tenant
func (s *ResidenceService) AssignTenant(ctx context.Context, session shared.Session, flatID uuid.UUID, req AssignResidentRequest) (*FlatResponse, error) {
	return s.assign(ctx, session, flatID, req.ResidentID, residence.ResidentTypeTenant)
}

func (s *ResidenceService) assign(ctx context.Context, session shared.Session, flatID, residentID uuid.UUID, as residence.ResidentType) (*FlatResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	flat, err := s.flatRepo.FindByID(ctx, flatID)
	if err != nil {
		return nil, err
	}
	resident, err := s.residentRepo.FindByID(ctx, residentID)
	if err != nil {
		return nil, err
	}
	if resident.FlatID != flat.ID || !resident.IsActive {
		return nil, shared.NewDomainError("INVALID_INPUT", "Resident does not live in this flat")
	}

	before := toFlatResponse(flat)
	if as == residence.ResidentTypeOwner {
		err = flat.AssignOwner(resident.ID)
	} else {
		err = flat.AssignTenant(resident.ID)
	}
	if err != nil {
		return nil, err
	}
	if err := s.flatRepo.Save(ctx, flat); err != nil {
		return nil, err
	}

	resp := toFlatResponse(flat)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityFlat, flat.ID.String(),
		fmt.Sprintf("Daireye %s atandı: %s", as, resident.FullName())).WithValues(before, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// GetFlat returns a flat by id
func (s *ResidenceService) GetFlat(ctx context.Context, id uuid.UUID) (*FlatResponse, error) {
	flat, err := s.flatRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toFlatResponse(flat)
	return &resp, nil
}

// ListFlats lists flats with filtering
func (s *ResidenceService) ListFlats(ctx context.Context, filter FlatListFilter) (shared.Paginated[FlatResponse], error) {
	f := residence.FlatFilter{
		Filter:      shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		ApartmentID: filter.ApartmentID,
		BlockID:     filter.BlockID,
	}
	if filter.OrderBy == "" {
		f.OrderBy = "flat_number"
		f.OrderDir = "asc"
	}
	if filter.OccupancyStatus != "" {
		status := residence.OccupancyStatus(filter.OccupancyStatus)
		if !status.IsValid() {
			return shared.Paginated[FlatResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown occupancy status")
		}
		f.OccupancyStatus = &status
	}
	if filter.Type != "" {
		flatType := residence.FlatType(filter.Type)
		if !flatType.IsValid() {
			return shared.Paginated[FlatResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown flat type")
		}
		f.Type = &flatType
	}

	items, err := s.flatRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[FlatResponse]{}, err
	}
	total, err := s.flatRepo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[FlatResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(items, toFlatResponse), total, f.Page, f.PageSize), nil
}
