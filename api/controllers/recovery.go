package controllers

import (
	"net/http"

	"github.com/suruagyvieira/dropmasters-alpha/api/responses"
	"github.com/suruagyvieira/dropmasters-alpha/api/validators"
	"github.com/suruagyvieira/dropmasters-alpha/internal/notify"
	pkgerrors "github.com/suruagyvieira/dropmasters-alpha/pkg/errors"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

type recoveryRequest struct {
	Phone        string `json:"phone" validate:"required"`
	CustomerName string `json:"customer_name" validate:"required"`
	CartLink     string `json:"cart_link" validate:"required,url"`
	ProductName  string `json:"product_name" validate:"required"`
}

// Recovery sends the abandoned-checkout nudge to a customer. The catalog
// holds no cart state, so the operator supplies the checkout details.
func Recovery(composer *notify.Composer, messenger notify.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recoveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg := composer.RecoveryMessage(payload.CustomerName, payload.CartLink, payload.ProductName)
		if err := messenger.Dispatch(r.Context(), payload.Phone, msg); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recovery message dispatch failed"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "sent"})
	}
}
