package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "sponsorregistration/internal/delivery/http/helpers"
	"sponsorregistration/internal/domain"
	"sponsorregistration/internal/services"
)

// RegistrationController serves the public pages: the landing page, the
// registration form, the confirmation page, and the sponsor profile.
type RegistrationController struct {
	registrations domain.RegistrationService
	availability  domain.AvailabilityService
	reports       services.ReportService
	renderer      *h.Renderer
	logger        *slog.Logger
}

// NewRegistrationController creates a new registration controller.
func NewRegistrationController(
	registrations domain.RegistrationService,
	availability domain.AvailabilityService,
	reports services.ReportService,
	renderer *h.Renderer,
	logger *slog.Logger,
) *RegistrationController {
	return &RegistrationController{
		registrations: registrations,
		availability:  availability,
		reports:       reports,
		renderer:      renderer,
		logger:        logger,
	}
}

type indexPage struct {
	Tiers      []TierOption
	Total      int
	TotalMiles float64
}

// Index renders the public landing page with per-tier counts.
func (c *RegistrationController) Index(w http.ResponseWriter, r *http.Request) {
	summary, err := c.reports.Summary(r.Context())
	if err != nil {
		c.logger.Error("failed to load summary", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	avail, err := c.availability.CheckAll(r.Context())
	if err != nil {
		c.logger.Error("failed to check availability", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	c.render(w, r, http.StatusOK, "index", "Sponsor a Mile", indexPage{
		Tiers:      tierOptions(avail, summary.Counts),
		Total:      summary.Total,
		TotalMiles: summary.TotalMiles,
	})
}

type registerPage struct {
	Form    RegistrationForm
	Errors  []string
	Options []TierOption
}

// ShowRegisterForm renders the registration form with live tier availability.
func (c *RegistrationController) ShowRegisterForm(w http.ResponseWriter, r *http.Request) {
	c.renderRegisterForm(w, r, http.StatusOK, RegistrationForm{PackageTier: domain.TierOneMile}, nil)
}

// SubmitRegistration handles the registration form POST. Validation and
// business failures re-render the form with the submitted values; success
// redirects to the confirmation page.
func (c *RegistrationController) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	form, photo, err := parseRegistrationForm(r)
	if err != nil {
		h.Redirect(w, r, "/register", "error", "Could not read the submitted form.")
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		c.renderRegisterForm(w, r, http.StatusBadRequest, form, errs)
		return
	}

	reg, err := c.registrations.Register(r.Context(), form.input(photo))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateRegistration):
			c.renderRegisterForm(w, r, http.StatusConflict, form,
				[]string{"A registration with this company email already exists."})
		case errors.Is(err, domain.ErrCapacityExceeded):
			c.renderRegisterForm(w, r, http.StatusConflict, form,
				[]string{"Sorry, the Black Friday Special is sold out. Please choose another package."})
		case errors.Is(err, domain.ErrUnsupportedFileType):
			c.renderRegisterForm(w, r, http.StatusBadRequest, form,
				[]string{"Photo must be a PNG, JPG, JPEG, or GIF file."})
		case errors.Is(err, domain.ErrInvalidDateFormat):
			c.renderRegisterForm(w, r, http.StatusBadRequest, form,
				[]string{"Payment date must be in YYYY-MM-DD format."})
		default:
			c.logger.Error("failed to register sponsor", "err", err)
			h.Redirect(w, r, "/register", "error", "Something went wrong. Please try again.")
		}
		return
	}
	h.Redirect(w, r, "/confirmation?id="+reg.ID, "success", "Registration successful!")
}

// ShowConfirmation renders the post-registration confirmation page.
// Missing or unknown IDs redirect home instead of erroring.
func (c *RegistrationController) ShowConfirmation(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.Redirect(w, r, "/", "error", "Registration not found.")
		return
	}
	reg, err := c.registrations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			h.Redirect(w, r, "/", "error", "Registration not found.")
			return
		}
		c.logger.Error("failed to load registration", "id", id, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	c.render(w, r, http.StatusOK, "confirmation", "Registration Confirmed", reg)
}

// ShowSponsor renders the public sponsor profile page.
func (c *RegistrationController) ShowSponsor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	reg, err := c.registrations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			h.Redirect(w, r, "/", "error", "Sponsor not found.")
			return
		}
		c.logger.Error("failed to load sponsor", "id", id, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	c.render(w, r, http.StatusOK, "sponsor", reg.CompanyName, reg)
}

func (c *RegistrationController) renderRegisterForm(w http.ResponseWriter, r *http.Request, status int, form RegistrationForm, errs []string) {
	avail, err := c.availability.CheckAll(r.Context())
	if err != nil {
		c.logger.Error("failed to check availability", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	counts := make(domain.TierCounts)
	c.render(w, r, status, "register", "Sponsorship Registration", registerPage{
		Form:    form,
		Errors:  errs,
		Options: tierOptions(avail, counts),
	})
}

func (c *RegistrationController) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	c.renderer.Render(w, r, status, name, h.PageData{
		Title:   title,
		Account: accountFrom(r),
		Data:    data,
	})
}
