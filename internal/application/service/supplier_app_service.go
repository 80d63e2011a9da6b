package service

import (
	"context"
	"sort"
	"time"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/logger"
	"github.com/rosverk/rosreg/pkg/utils"
)

// SupplierAppService manages the external supplier register. Contract
// expiry dates recorded here drive the contract_expiring alert rule, so
// every write invalidates the cached dashboard.
type SupplierAppService interface {
	CreateSupplier(ctx context.Context, req *dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	GetSupplier(ctx context.Context, id string) (*dto.SupplierResponse, error)
	ListSuppliers(ctx context.Context, page, pageSize int) (*dto.SupplierListResponse, error)
	ListExpiringContracts(ctx context.Context, days int) (*dto.SupplierListResponse, error)
	UpdateSupplier(ctx context.Context, id string, req *dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	DeleteSupplier(ctx context.Context, id string) error
}

type supplierAppServiceImpl struct {
	supplierRepo repository.SupplierRepository
	audit        service.AuditService
	cache        service.CacheService
	logger       logger.Logger
}

// NewSupplierAppService creates the supplier application service.
func NewSupplierAppService(
	supplierRepo repository.SupplierRepository,
	audit service.AuditService,
	cache service.CacheService,
	log logger.Logger,
) SupplierAppService {
	return &supplierAppServiceImpl{
		supplierRepo: supplierRepo,
		audit:        audit,
		cache:        cache,
		logger:       log.WithComponent("supplier_service"),
	}
}

func (s *supplierAppServiceImpl) CreateSupplier(ctx context.Context, req *dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	supplier := models.NewSupplier(req.Name, req.Service, req.Criticality)
	supplier.ContractExpiry = req.ContractExpiry
	supplier.Contact = req.Contact
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeSupplierCreated, actorFromContext(ctx), "supplier registered").
		WithSubject(constants.SubjectTypeSupplier, supplier.ID))

	s.logger.Info(ctx, "Supplier registered",
		logger.String("supplier_id", supplier.ID.String()),
		logger.String("name", supplier.Name))

	return dto.NewSupplier(supplier), nil
}

func (s *supplierAppServiceImpl) GetSupplier(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	supplierID, err := parseUUID(id, "supplier_id")
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return dto.NewSupplier(supplier), nil
}

func (s *supplierAppServiceImpl) ListSuppliers(ctx context.Context, page, pageSize int) (*dto.SupplierListResponse, error) {
	limit, offset := utils.NormalizePagination(page, pageSize)
	suppliers, total, err := s.supplierRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SupplierResponse, 0, len(suppliers))
	for _, supplier := range suppliers {
		items = append(items, dto.NewSupplier(supplier))
	}
	return &dto.SupplierListResponse{
		Suppliers:  items,
		Pagination: dto.NewPagination(offset/limit+1, limit, total),
	}, nil
}

// ListExpiringContracts returns suppliers whose contract expires within
// the next days days, soonest first. Contracts already expired are
// excluded; those surface through the dashboard alerts instead.
func (s *supplierAppServiceImpl) ListExpiringContracts(ctx context.Context, days int) (*dto.SupplierListResponse, error) {
	if days <= 0 {
		days = 90
	}

	suppliers, err := s.supplierRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	window := time.Duration(days) * 24 * time.Hour
	expiring := make([]*models.Supplier, 0)
	for _, supplier := range suppliers {
		if supplier.ContractExpiresWithin(now, window) {
			expiring = append(expiring, supplier)
		}
	}
	sort.Slice(expiring, func(i, j int) bool {
		if expiring[i].ContractExpiry.Equal(*expiring[j].ContractExpiry) {
			return expiring[i].Name < expiring[j].Name
		}
		return expiring[i].ContractExpiry.Before(*expiring[j].ContractExpiry)
	})

	items := make([]*dto.SupplierResponse, 0, len(expiring))
	for _, supplier := range expiring {
		items = append(items, dto.NewSupplier(supplier))
	}
	return &dto.SupplierListResponse{
		Suppliers:  items,
		Pagination: dto.NewPagination(1, len(items), int64(len(items))),
	}, nil
}

func (s *supplierAppServiceImpl) UpdateSupplier(ctx context.Context, id string, req *dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	supplierID, err := parseUUID(id, "supplier_id")
	if err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Service != nil {
		supplier.Service = *req.Service
	}
	if req.Criticality != nil {
		supplier.Criticality = *req.Criticality
	}
	if req.ContractExpiry != nil {
		supplier.ContractExpiry = req.ContractExpiry
	}
	if req.ClearExpiry {
		supplier.ContractExpiry = nil
	}
	if req.Contact != nil {
		supplier.Contact = *req.Contact
	}
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeSupplierUpdated, actorFromContext(ctx), "supplier updated").
		WithSubject(constants.SubjectTypeSupplier, supplier.ID))

	return dto.NewSupplier(supplier), nil
}

func (s *supplierAppServiceImpl) DeleteSupplier(ctx context.Context, id string) error {
	supplierID, err := parseUUID(id, "supplier_id")
	if err != nil {
		return err
	}
	if _, err := s.supplierRepo.GetByID(ctx, supplierID); err != nil {
		return err
	}
	if err := s.supplierRepo.Delete(ctx, supplierID); err != nil {
		return err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeSupplierDeleted, actorFromContext(ctx), "supplier deleted").
		WithSubject(constants.SubjectTypeSupplier, supplierID))

	s.logger.Info(ctx, "Supplier deleted", logger.String("supplier_id", supplierID.String()))
	return nil
}
