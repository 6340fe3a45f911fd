package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agrofeira/feira-backend/api/validators"
	"github.com/agrofeira/feira-backend/pkg/pagination"
)

func cycleMarketParams(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	cycleID, err := validators.ParseUUIDParam(chi.URLParam(r, "cycleId"), "cycleId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	marketID, err := validators.ParseUUIDParam(chi.URLParam(r, "marketId"), "marketId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return cycleID, marketID, nil
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}
