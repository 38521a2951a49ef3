package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/suruagyvieira/dropmasters-alpha/api/responses"
	"github.com/suruagyvieira/dropmasters-alpha/api/validators"
	"github.com/suruagyvieira/dropmasters-alpha/internal/discovery"
	"github.com/suruagyvieira/dropmasters-alpha/internal/pricing"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	pkgerrors "github.com/suruagyvieira/dropmasters-alpha/pkg/errors"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

type sourcingRequest struct {
	Query string `json:"query" validate:"required,min=3"`
	// Insert stages the quoted item as a catalog product. Honored only on
	// the admin route.
	Insert bool `json:"insert"`
}

type sourcingEstimator interface {
	EstimateCustom(ctx context.Context, query string) discovery.Estimate
}

type productInserter interface {
	Insert(ctx context.Context, products []models.Product) error
}

// Sourcing quotes an off-catalog product request. When repo is non-nil
// (the admin route) the quote can be staged directly into the catalog.
func Sourcing(estimator sourcingEstimator, repo productInserter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sourcingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		estimate := estimator.EstimateCustom(r.Context(), payload.Query)

		if payload.Insert {
			if repo == nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "catalog insertion requires the admin surface"))
				return
			}
			product := models.Product{
				ID:        "src_" + uuid.NewString(),
				Name:      estimate.Name,
				Category:  "Sourcing",
				BasePrice: estimate.OriginalBase,
				Price:     pricing.CharmPrice(estimate.EstimatedPrice),
				Stock:     5,
				IsActive:  true,
				Metadata: models.ProductMeta{
					Location: estimate.LocationSignal,
					Source:   "custom_sourcing",
				},
			}
			if err := repo.Insert(r.Context(), []models.Product{product}); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeConflict, err, "could not stage sourced product"))
				return
			}
		}

		responses.WriteRaw(w, http.StatusOK, estimate)
	}
}
