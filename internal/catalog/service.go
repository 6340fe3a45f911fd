package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/enums"
	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/logger"
)

// Service manages the offer catalog and the supplier registry.
type Service interface {
	CreateOffer(ctx context.Context, input CreateOfferInput) (*models.Offer, error)
	UpdateOffer(ctx context.Context, id uuid.UUID, input UpdateOfferInput) (*models.Offer, error)
	DeleteOffer(ctx context.Context, id uuid.UUID) error
	Browse(ctx context.Context, cycleID, marketID uuid.UUID, query BrowseQuery) (*BrowseResult, error)
	ListByCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID) ([]models.Offer, error)
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, activeOnly bool) ([]models.Supplier, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo Repository, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, log: log}, nil
}

func (s *service) CreateOffer(ctx context.Context, input CreateOfferInput) (*models.Offer, error) {
	if input.CycleID == uuid.Nil || input.MarketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cycle id and market id required")
	}
	unit, err := enums.ParseOfferUnit(input.Unit)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	certification, err := enums.ParseCertification(input.Certification)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	farmingType, err := enums.ParseFarmingType(input.FarmingType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if input.AvailableQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
	}

	supplier, err := s.repo.FindSupplierByID(ctx, input.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load supplier")
	}
	if !supplier.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "supplier is inactive")
	}

	offer := &models.Offer{
		CycleID:       input.CycleID,
		MarketID:      input.MarketID,
		SupplierID:    supplier.ID,
		SupplierName:  supplier.Name,
		BaseProduct:   input.BaseProduct,
		DisplayName:   input.DisplayName,
		Unit:          unit,
		UnitPrice:     input.UnitPrice,
		AvailableQty:  input.AvailableQty,
		Certification: certification,
		FarmingType:   farmingType,
		Keywords:      pq.StringArray(input.Keywords),
	}
	created, err := s.repo.CreateOffer(ctx, offer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist offer")
	}
	return created, nil
}

func (s *service) UpdateOffer(ctx context.Context, id uuid.UUID, input UpdateOfferInput) (*models.Offer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id required")
	}

	updates := map[string]any{}
	if input.DisplayName != nil {
		updates["display_name"] = *input.DisplayName
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		updates["unit_price"] = *input.UnitPrice
	}
	if input.AvailableQty != nil {
		if *input.AvailableQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
		}
		updates["available_qty"] = *input.AvailableQty
	}
	if input.Keywords != nil {
		updates["keywords"] = pq.StringArray(input.Keywords)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.findOffer(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOffer(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update offer")
	}
	return s.findOffer(ctx, id)
}

func (s *service) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer id required")
	}
	if _, err := s.findOffer(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteOffer(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete offer")
	}
	return nil
}

func (s *service) Browse(ctx context.Context, cycleID, marketID uuid.UUID, query BrowseQuery) (*BrowseResult, error) {
	offers, err := s.ListByCycleMarket(ctx, cycleID, marketID)
	if err != nil {
		return nil, err
	}

	facets, err := parseFacets(query)
	if err != nil {
		return nil, err
	}

	groups := Filter(GroupAndSort(offers), query.Term, facets)

	result := &BrowseResult{Groups: make([]GroupView, 0, len(groups))}
	for _, group := range groups {
		result.Groups = append(result.Groups, GroupView{
			BaseProduct: group.BaseProduct,
			Offers:      group.Offers,
		})
		result.OfferCount += len(group.Offers)
	}
	result.GroupCount = len(result.Groups)
	return result, nil
}

func (s *service) ListByCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID) ([]models.Offer, error) {
	if cycleID == uuid.Nil || marketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cycle id and market id required")
	}
	offers, err := s.repo.ListByCycleMarket(ctx, cycleID, marketID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list offers")
	}
	return offers, nil
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error) {
	farmingType, err := enums.ParseFarmingType(input.FarmingType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	supplier := &models.Supplier{
		Name:        input.Name,
		Document:    input.Document,
		FarmingType: farmingType,
		City:        input.City,
		IsActive:    true,
	}
	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist supplier")
	}
	return created, nil
}

func (s *service) ListSuppliers(ctx context.Context, activeOnly bool) ([]models.Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list suppliers")
	}
	return suppliers, nil
}

func (s *service) findOffer(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.FindOfferByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offer")
	}
	return offer, nil
}

func parseFacets(query BrowseQuery) (Facets, error) {
	var facets Facets
	for _, raw := range query.Certifications {
		certification, err := enums.ParseCertification(raw)
		if err != nil {
			return Facets{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		facets.Certifications = append(facets.Certifications, certification)
	}
	for _, raw := range query.FarmingTypes {
		farmingType, err := enums.ParseFarmingType(raw)
		if err != nil {
			return Facets{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		facets.FarmingTypes = append(facets.FarmingTypes, farmingType)
	}
	return facets, nil
}
