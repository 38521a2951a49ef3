package controllers

import (
	"net/http"

	"github.com/suruagyvieira/dropmasters-alpha/api/responses"
	"github.com/suruagyvieira/dropmasters-alpha/api/validators"
	"github.com/suruagyvieira/dropmasters-alpha/internal/orders"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

type paymentCallbackRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Status        string `json:"status" validate:"required"`
}

// PaymentCallback receives the gateway notification. The gateway retries
// on anything but 200, so every settled decision, including "ignored" and
// replays, is acknowledged with 200.
func PaymentCallback(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload paymentCallbackRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.HandleCallback(r.Context(), payload.TransactionID, payload.Status)
		if err != nil && logg != nil {
			logg.Error(r.Context(), "payment callback settled with error", err)
		}
		responses.WriteRaw(w, http.StatusOK, map[string]string{"status": string(result)})
	}
}
