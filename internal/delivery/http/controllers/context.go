package controllers

import (
	"net/http"

	"sponsorregistration/internal/delivery/http/middleware"
	"sponsorregistration/internal/domain"
)

// accountFrom returns the authenticated account for the request, or nil.
func accountFrom(r *http.Request) *domain.Account {
	return middleware.AccountFromContext(r.Context())
}
