package controllers

import (
	"net/http"

	"github.com/suruagyvieira/dropmasters-alpha/api/responses"
	"github.com/suruagyvieira/dropmasters-alpha/api/validators"
	"github.com/suruagyvieira/dropmasters-alpha/internal/support"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

type supportChatRequest struct {
	// Query is optional: an empty query opens the session with a greeting.
	Query          string `json:"query"`
	ProductContext string `json:"product_context"`
}

// SupportChat answers a customer message with the concierge engine.
func SupportChat(engine *support.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload supportChatRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, engine.Chat(payload.Query, payload.ProductContext))
	}
}
