package controllers

import (
	"net/http"

	"github.com/suruagyvieira/dropmasters-alpha/api/responses"
	"github.com/suruagyvieira/dropmasters-alpha/internal/catalog"
)

// Products serves the cached storefront catalog. The payload is a bare
// array: the storefront predates the API envelope.
func Products(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteRaw(w, http.StatusOK, svc.List(r.Context()))
	}
}
