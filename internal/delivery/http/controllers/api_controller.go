package controllers

import (
	"log/slog"
	"net/http"

	h "sponsorregistration/internal/delivery/http/helpers"
	"sponsorregistration/internal/domain"
)

// AvailabilityResponse is the response envelope for GET /api/availability.
type AvailabilityResponse struct {
	Tiers []TierAvailability `json:"tiers"`
}

// TierAvailability is one tier's live availability for the public API.
type TierAvailability struct {
	Tier      string `json:"tier"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	Capped    bool   `json:"capped"`
	Remaining int    `json:"remaining,omitempty"`
}

// APIController serves the JSON endpoints consumed by the registration
// form's client-side availability check.
type APIController struct {
	availability domain.AvailabilityService
	logger       *slog.Logger
}

// NewAPIController creates a new API controller.
func NewAPIController(availability domain.AvailabilityService, logger *slog.Logger) *APIController {
	return &APIController{availability: availability, logger: logger}
}

// Availability godoc
// @Summary Package availability
// @Description Returns live availability for every sponsorship package. Capped packages report how many slots remain.
// @Tags availability
// @Produce json
// @Success 200 {object} AvailabilityResponse
// @Failure 500 {object} map[string]string
// @Router /api/availability [get]
func (c *APIController) Availability(w http.ResponseWriter, r *http.Request) {
	avail, err := c.availability.CheckAll(r.Context())
	if err != nil {
		c.logger.Error("failed to check availability", "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	resp := AvailabilityResponse{Tiers: make([]TierAvailability, 0, len(avail))}
	for _, a := range avail {
		resp.Tiers = append(resp.Tiers, TierAvailability{
			Tier:      a.Tier,
			Label:     domain.TierLabel(a.Tier),
			Available: a.Available,
			Capped:    a.Capped,
			Remaining: a.Remaining,
		})
	}
	h.WriteJSON(w, http.StatusOK, resp)
}
