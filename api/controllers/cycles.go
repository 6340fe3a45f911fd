package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrofeira/feira-backend/api/responses"
	"github.com/agrofeira/feira-backend/api/validators"
	cyclesvc "github.com/agrofeira/feira-backend/internal/cycles"
	"github.com/agrofeira/feira-backend/pkg/db/models"
	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/logger"
)

type cycleMarketRequest struct {
	MarketID      string          `json:"market_id" validate:"required,uuid"`
	MarketName    string          `json:"market_name" validate:"required"`
	BudgetCeiling decimal.Decimal `json:"budget_ceiling" validate:"required"`
}

type createCycleRequest struct {
	Name     string               `json:"name" validate:"required"`
	StartsAt time.Time            `json:"starts_at" validate:"required"`
	EndsAt   time.Time            `json:"ends_at" validate:"required"`
	Markets  []cycleMarketRequest `json:"markets" validate:"required,min=1,dive"`
}

func (req createCycleRequest) toInput() (cyclesvc.CreateInput, error) {
	input := cyclesvc.CreateInput{
		Name:     req.Name,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}
	for _, market := range req.Markets {
		marketID, err := validators.ParseUUIDParam(market.MarketID, "market_id")
		if err != nil {
			return cyclesvc.CreateInput{}, err
		}
		input.Markets = append(input.Markets, cyclesvc.MarketInput{
			MarketID:      marketID,
			MarketName:    market.MarketName,
			BudgetCeiling: market.BudgetCeiling,
		})
	}
	return input, nil
}

// CreateCycle handles new sales cycle creation.
func CreateCycle(svc cyclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cycle service unavailable"))
			return
		}

		var payload createCycleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cycle, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cycle)
	}
}

// ListCycles returns cycles, optionally filtered by status.
func ListCycles(svc cyclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cycle service unavailable"))
			return
		}

		cycles, err := svc.List(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cycles)
	}
}

// GetCycle returns one cycle with its markets.
func GetCycle(svc cyclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cycle service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "cycleId"), "cycleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cycle, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cycle)
	}
}

// OpenCycle transitions a draft cycle to open.
func OpenCycle(svc cyclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cycleTransition(svc, logg, cyclesvc.Service.Open)
}

// CloseCycle transitions an open cycle to closed.
func CloseCycle(svc cyclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cycleTransition(svc, logg, cyclesvc.Service.Close)
}

func cycleTransition(
	svc cyclesvc.Service,
	logg *logger.Logger,
	apply func(cyclesvc.Service, context.Context, uuid.UUID) (*models.Cycle, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cycle service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "cycleId"), "cycleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cycle, err := apply(svc, r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cycle)
	}
}

type updateCeilingRequest struct {
	BudgetCeiling decimal.Decimal `json:"budget_ceiling" validate:"required"`
}

// UpdateCeiling replaces the budget ceiling for a (cycle, market) pair.
func UpdateCeiling(svc cyclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cycle service unavailable"))
			return
		}

		cycleID, err := validators.ParseUUIDParam(chi.URLParam(r, "cycleId"), "cycleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		marketID, err := validators.ParseUUIDParam(chi.URLParam(r, "marketId"), "marketId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCeilingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pair, err := svc.UpdateCeiling(r.Context(), cycleID, marketID, payload.BudgetCeiling)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pair)
	}
}
