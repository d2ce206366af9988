package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	h "sponsorregistration/internal/delivery/http/helpers"
	"sponsorregistration/internal/domain"
	"sponsorregistration/internal/services"
)

// DashboardController serves the admin-only pages: the dashboard, the
// registration detail view, the CSV export, and the bulk operations.
// Every handler assumes the admin gate has already run.
type DashboardController struct {
	registrations domain.RegistrationService
	reports       services.ReportService
	debug         bool
	renderer      *h.Renderer
	logger        *slog.Logger
	now           func() time.Time
}

// NewDashboardController creates a new dashboard controller. debug enables
// the test-data seeding endpoint.
func NewDashboardController(
	registrations domain.RegistrationService,
	reports services.ReportService,
	debug bool,
	renderer *h.Renderer,
	logger *slog.Logger,
) *DashboardController {
	return &DashboardController{
		registrations: registrations,
		reports:       reports,
		debug:         debug,
		renderer:      renderer,
		logger:        logger,
		now:           time.Now,
	}
}

type tierStat struct {
	Label string
	Count int
}

type registrationRow struct {
	ID               string
	CompanyName      string
	PackageTier      string
	TicketsAllocated int
	CreatedAt        time.Time
	Status           string
}

type dashboardPage struct {
	Total         int
	TotalMiles    float64
	Tiers         []tierStat
	Registrations []registrationRow
}

// Dashboard renders the admin overview with aggregates and all registrations.
func (c *DashboardController) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := c.reports.Summary(r.Context())
	if err != nil {
		c.logger.Error("failed to load summary", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	regs, err := c.registrations.List(r.Context())
	if err != nil {
		c.logger.Error("failed to list registrations", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := dashboardPage{Total: summary.Total, TotalMiles: summary.TotalMiles}
	for _, tier := range domain.Tiers {
		page.Tiers = append(page.Tiers, tierStat{Label: domain.TierLabel(tier), Count: summary.Counts[tier]})
	}
	now := c.now()
	for _, reg := range regs {
		page.Registrations = append(page.Registrations, registrationRow{
			ID:               reg.ID,
			CompanyName:      reg.CompanyName,
			PackageTier:      reg.PackageTier,
			TicketsAllocated: reg.TicketsAllocated,
			CreatedAt:        reg.CreatedAt,
			Status:           reg.PaymentStatus(now),
		})
	}
	c.renderer.Render(w, r, http.StatusOK, "dashboard", h.PageData{
		Title:   "Sponsorship Dashboard",
		Account: accountFrom(r),
		Data:    page,
	})
}

// ShowRegistration renders the admin detail view for one registration.
func (c *DashboardController) ShowRegistration(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	reg, err := c.registrations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			h.Redirect(w, r, "/dashboard", "error", "Registration not found.")
			return
		}
		c.logger.Error("failed to load registration", "id", id, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	c.renderer.Render(w, r, http.StatusOK, "registration_detail", h.PageData{
		Title:   reg.CompanyName,
		Account: accountFrom(r),
		Data:    reg,
	})
}

// ExportRegistrations streams every registration as a CSV attachment.
func (c *DashboardController) ExportRegistrations(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("sponsor_registrations_%s.csv", c.now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := c.reports.WriteCSV(r.Context(), w); err != nil {
		// Headers are already sent; all we can do is log.
		c.logger.Error("failed to export registrations", "err", err)
	}
}

// ResetRegistrations deletes every registration. Accounts are untouched.
func (c *DashboardController) ResetRegistrations(w http.ResponseWriter, r *http.Request) {
	if err := c.registrations.Reset(r.Context()); err != nil {
		c.logger.Error("failed to reset registrations", "err", err)
		h.Redirect(w, r, "/dashboard", "error", "Reset failed. Please try again.")
		return
	}
	c.logger.Info("all registrations deleted", "by", accountEmail(r))
	h.Redirect(w, r, "/dashboard", "success", "All registrations have been deleted.")
}

// LoadTestData seeds sample registrations. Only available in debug mode.
func (c *DashboardController) LoadTestData(w http.ResponseWriter, r *http.Request) {
	if !c.debug {
		h.Redirect(w, r, "/dashboard", "error", "Test data loading is disabled.")
		return
	}
	if err := c.registrations.SeedTestData(r.Context()); err != nil {
		c.logger.Error("failed to seed test data", "err", err)
		h.Redirect(w, r, "/dashboard", "error", "Could not load test data.")
		return
	}
	h.Redirect(w, r, "/dashboard", "success", "Test data loaded.")
}

func accountEmail(r *http.Request) string {
	if account := accountFrom(r); account != nil {
		return account.Email
	}
	return ""
}
