package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/agrofeira/feira-backend/api/responses"
	"github.com/agrofeira/feira-backend/api/validators"
	catalogsvc "github.com/agrofeira/feira-backend/internal/catalog"
	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/logger"
)

type createSupplierRequest struct {
	Name        string `json:"name" validate:"required"`
	Document    string `json:"document" validate:"required"`
	FarmingType string `json:"farming_type" validate:"required"`
	City        string `json:"city,omitempty"`
}

// CreateSupplier registers a new supplier.
func CreateSupplier(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createSupplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.CreateSupplier(r.Context(), catalogsvc.CreateSupplierInput{
			Name:        payload.Name,
			Document:    payload.Document,
			FarmingType: payload.FarmingType,
			City:        payload.City,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

// ListSuppliers returns the supplier registry.
func ListSuppliers(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		activeOnly := r.URL.Query().Get("active") == "true"
		suppliers, err := svc.ListSuppliers(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suppliers)
	}
}

type createOfferRequest struct {
	SupplierID    string          `json:"supplier_id" validate:"required,uuid"`
	BaseProduct   string          `json:"base_product" validate:"required"`
	DisplayName   string          `json:"display_name" validate:"required"`
	Unit          string          `json:"unit" validate:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"required"`
	AvailableQty  int             `json:"available_qty" validate:"gte=0"`
	Certification string          `json:"certification" validate:"required"`
	FarmingType   string          `json:"farming_type" validate:"required"`
	Keywords      []string        `json:"keywords,omitempty"`
}

// CreateOffer adds an offer to a (cycle, market) catalog.
func CreateOffer(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		cycleID, marketID, err := cycleMarketParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplierID, err := validators.ParseUUIDParam(payload.SupplierID, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.CreateOffer(r.Context(), catalogsvc.CreateOfferInput{
			CycleID:       cycleID,
			MarketID:      marketID,
			SupplierID:    supplierID,
			BaseProduct:   payload.BaseProduct,
			DisplayName:   payload.DisplayName,
			Unit:          payload.Unit,
			UnitPrice:     payload.UnitPrice,
			AvailableQty:  payload.AvailableQty,
			Certification: payload.Certification,
			FarmingType:   payload.FarmingType,
			Keywords:      payload.Keywords,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

type updateOfferRequest struct {
	DisplayName  *string          `json:"display_name,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	AvailableQty *int             `json:"available_qty,omitempty" validate:"omitempty,gte=0"`
	Keywords     []string         `json:"keywords,omitempty"`
}

// UpdateOffer applies partial offer updates.
func UpdateOffer(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		offerID, err := validators.ParseUUIDParam(chi.URLParam(r, "offerId"), "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.UpdateOffer(r.Context(), offerID, catalogsvc.UpdateOfferInput{
			DisplayName:  payload.DisplayName,
			UnitPrice:    payload.UnitPrice,
			AvailableQty: payload.AvailableQty,
			Keywords:     payload.Keywords,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

// DeleteOffer removes an offer from the catalog.
func DeleteOffer(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		offerID, err := validators.ParseUUIDParam(chi.URLParam(r, "offerId"), "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOffer(r.Context(), offerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}

// BrowseOffers returns the grouped, filtered catalog for a (cycle, market).
func BrowseOffers(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		cycleID, marketID, err := cycleMarketParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Browse(r.Context(), cycleID, marketID, catalogsvc.BrowseQuery{
			Term:           r.URL.Query().Get("q"),
			Certifications: validators.ParseQueryList(r, "certifications"),
			FarmingTypes:   validators.ParseQueryList(r, "farming_types"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
