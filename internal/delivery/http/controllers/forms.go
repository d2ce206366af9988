package controllers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"sponsorregistration/internal/domain"
)

const maxUploadBytes = 16 << 20 // matches the form's photo size limit

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegistrationForm holds the submitted registration fields so the form
// can be re-rendered with the user's input on validation failure.
type RegistrationForm struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	PackageTier    string
	PaymentDate    string
}

// parseRegistrationForm reads the multipart form body. The returned photo
// is nil when no file was attached.
func parseRegistrationForm(r *http.Request) (RegistrationForm, *domain.PhotoUpload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return RegistrationForm{}, nil, fmt.Errorf("failed to parse form: %w", err)
	}
	form := RegistrationForm{
		CompanyName:    r.FormValue("company_name"),
		CompanyAddress: r.FormValue("company_address"),
		CompanyEmail:   r.FormValue("company_email"),
		CompanyPhone:   r.FormValue("company_phone"),
		ContactName:    r.FormValue("contact_name"),
		ContactEmail:   r.FormValue("contact_email"),
		ContactPhone:   r.FormValue("contact_phone"),
		PackageTier:    r.FormValue("package_tier"),
		PaymentDate:    strings.TrimSpace(r.FormValue("payment_date")),
	}
	var photo *domain.PhotoUpload
	file, header, err := r.FormFile("contact_photo")
	if err == nil && header != nil && header.Filename != "" {
		photo = &domain.PhotoUpload{Filename: header.Filename, Content: file}
	}
	return form, photo, nil
}

// Validate returns field-level error messages; nil means valid.
func (f RegistrationForm) Validate() []string {
	var errs []string
	checkLen := func(label, value string, min, max int) {
		v := strings.TrimSpace(value)
		if v == "" {
			errs = append(errs, label+" is required")
		} else if len(v) < min || len(v) > max {
			errs = append(errs, fmt.Sprintf("%s must be between %d and %d characters", label, min, max))
		}
	}
	checkLen("Company Name", f.CompanyName, 2, 200)
	if strings.TrimSpace(f.CompanyAddress) == "" {
		errs = append(errs, "Company Address is required")
	}
	if !emailRegexp.MatchString(strings.TrimSpace(f.CompanyEmail)) {
		errs = append(errs, "a valid Company Email is required")
	}
	checkLen("Company Phone", f.CompanyPhone, 7, 20)
	checkLen("Contact Person Name", f.ContactName, 2, 100)
	if !emailRegexp.MatchString(strings.TrimSpace(f.ContactEmail)) {
		errs = append(errs, "a valid Contact Email is required")
	}
	checkLen("Contact Phone", f.ContactPhone, 7, 20)
	if !domain.ValidTier(f.PackageTier) {
		errs = append(errs, "please choose a sponsorship package")
	}
	return errs
}

// input converts the form into the service-level registration input.
func (f RegistrationForm) input(photo *domain.PhotoUpload) domain.RegistrationInput {
	return domain.RegistrationInput{
		CompanyName:    f.CompanyName,
		CompanyAddress: f.CompanyAddress,
		CompanyEmail:   f.CompanyEmail,
		CompanyPhone:   f.CompanyPhone,
		ContactName:    f.ContactName,
		ContactEmail:   f.ContactEmail,
		ContactPhone:   f.ContactPhone,
		PackageTier:    f.PackageTier,
		PaymentDate:    f.PaymentDate,
		Photo:          photo,
	}
}

// LoginForm holds the submitted login fields.
type LoginForm struct {
	Email    string
	Password string
}

// Validate implements the same contract as RegistrationForm.Validate.
func (f LoginForm) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.Email) == "" {
		errs = append(errs, "email is required")
	}
	if f.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// TierOption is one selectable package with its current availability.
type TierOption struct {
	Code      string
	Label     string
	Available bool
	Capped    bool
	Remaining int
	Count     int
}

func tierOptions(avail []domain.Availability, counts domain.TierCounts) []TierOption {
	options := make([]TierOption, 0, len(avail))
	for _, a := range avail {
		options = append(options, TierOption{
			Code:      a.Tier,
			Label:     domain.TierLabel(a.Tier),
			Available: a.Available,
			Capped:    a.Capped,
			Remaining: a.Remaining,
			Count:     counts[a.Tier],
		})
	}
	return options
}
