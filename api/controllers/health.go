package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/agrofeira/feira-backend/api/responses"
	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Liveness reports process health only.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Readiness checks the database and redis connections.
func Readiness(db, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
