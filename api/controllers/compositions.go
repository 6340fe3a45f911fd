package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrofeira/feira-backend/api/middleware"
	"github.com/agrofeira/feira-backend/api/responses"
	"github.com/agrofeira/feira-backend/api/validators"
	compositionsvc "github.com/agrofeira/feira-backend/internal/composition"
	"github.com/agrofeira/feira-backend/pkg/enums"
	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/logger"
)

type selectionGroupRequest struct {
	Key      string   `json:"key" validate:"required"`
	OfferIDs []string `json:"offer_ids" validate:"required,min=1,dive,uuid"`
}

type quantityEntryRequest struct {
	OfferID string `json:"offer_id" validate:"required,uuid"`
	// Quantity takes any integer; the session clamps it into [0, available].
	Quantity int `json:"quantity"`
}

func toSelection(groups []selectionGroupRequest, quantities []quantityEntryRequest) ([]compositionsvc.SelectionGroup, []compositionsvc.QuantityEntry, error) {
	outGroups := make([]compositionsvc.SelectionGroup, 0, len(groups))
	for _, group := range groups {
		converted := compositionsvc.SelectionGroup{Key: group.Key}
		for _, raw := range group.OfferIDs {
			id, err := validators.ParseUUIDParam(raw, "offer_ids")
			if err != nil {
				return nil, nil, err
			}
			converted.OfferIDs = append(converted.OfferIDs, id)
		}
		outGroups = append(outGroups, converted)
	}

	outQuantities := make([]compositionsvc.QuantityEntry, 0, len(quantities))
	for _, entry := range quantities {
		id, err := validators.ParseUUIDParam(entry.OfferID, "offer_id")
		if err != nil {
			return nil, nil, err
		}
		outQuantities = append(outQuantities, compositionsvc.QuantityEntry{
			OfferID:  id,
			Quantity: entry.Quantity,
		})
	}
	return outGroups, outQuantities, nil
}

type commitCompositionRequest struct {
	Kind              string                  `json:"kind" validate:"required"`
	Groups            []selectionGroupRequest `json:"groups" validate:"required,min=1,dive"`
	Quantities        []quantityEntryRequest  `json:"quantities" validate:"required,min=1,dive"`
	ConfirmOverBudget bool                    `json:"confirm_over_budget"`
}

// CommitComposition turns a selection into a persisted composition.
func CommitComposition(svc compositionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "composition service unavailable"))
			return
		}

		cycleID, marketID, err := cycleMarketParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload commitCompositionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseCompositionKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		groups, quantities, err := toSelection(payload.Groups, payload.Quantities)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		committed, err := svc.Commit(r.Context(), compositionsvc.CommitInput{
			CycleID:           cycleID,
			MarketID:          marketID,
			Kind:              kind,
			Groups:            groups,
			Quantities:        quantities,
			ConfirmOverBudget: payload.ConfirmOverBudget,
			CommittedBy:       middleware.ActorNameFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, committed)
	}
}

// ListCompositions returns committed compositions for a (cycle, market).
func ListCompositions(svc compositionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "composition service unavailable"))
			return
		}

		cycleID, marketID, err := cycleMarketParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), cycleID, marketID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetComposition returns one committed composition with its items.
func GetComposition(svc compositionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "composition service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "compositionId"), "compositionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		composition, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, composition)
	}
}

type saveDraftRequest struct {
	Groups     []selectionGroupRequest `json:"groups"`
	Quantities []quantityEntryRequest  `json:"quantities"`
}

// SaveDraft snapshots an in-progress composition.
func SaveDraft(svc compositionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "composition service unavailable"))
			return
		}

		cycleID, marketID, err := cycleMarketParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload saveDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groups, quantities, err := toSelection(payload.Groups, payload.Quantities)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SaveDraft(r.Context(), compositionsvc.DraftInput{
			CycleID:    cycleID,
			MarketID:   marketID,
			Groups:     groups,
			Quantities: quantities,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// GetDraft rehydrates the stored draft against the current catalog.
func GetDraft(svc compositionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "composition service unavailable"))
			return
		}

		cycleID, marketID, err := cycleMarketParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.LoadDraft(r.Context(), cycleID, marketID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// DiscardDraft deletes the stored draft.
func DiscardDraft(svc compositionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "composition service unavailable"))
			return
		}

		cycleID, marketID, err := cycleMarketParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DiscardDraft(r.Context(), cycleID, marketID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}
