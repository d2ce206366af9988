package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"sponsorregistration/internal/domain"
)

// Summary is the read-side aggregation shown on the dashboard and the
// public landing page.
type Summary struct {
	Total                int
	Counts               domain.TierCounts
	TotalMiles           float64
	BlackFridayRemaining int
}

// ReportService computes dashboard aggregates and the CSV export.
type ReportService interface {
	Summary(ctx context.Context) (*Summary, error)
	WriteCSV(ctx context.Context, w io.Writer) error
}

type reportService struct {
	regRepo domain.RegistrationRepository
	now     func() time.Time
}

// NewReportService creates a ReportService over the registration repository.
func NewReportService(regRepo domain.RegistrationRepository) ReportService {
	return &reportService{regRepo: regRepo, now: time.Now}
}

func (s *reportService) Summary(ctx context.Context) (*Summary, error) {
	counts, err := s.regRepo.CountsByTier(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tier counts: %w", err)
	}
	sum := &Summary{Counts: make(domain.TierCounts, len(domain.Tiers))}
	for _, tier := range domain.Tiers {
		n := counts[tier]
		sum.Counts[tier] = n
		sum.Total += n
		sum.TotalMiles += float64(n) * domain.TierMiles(tier)
	}
	sum.BlackFridayRemaining = domain.BlackFridayCapacity - sum.Counts[domain.TierBlackFriday]
	if sum.BlackFridayRemaining < 0 {
		sum.BlackFridayRemaining = 0
	}
	return sum, nil
}

// csvHeader is the exact export column set; the header row is written
// even when there are no registrations.
var csvHeader = []string{
	"Company Name", "Company Address", "Company Email", "Company Phone",
	"Package Tier", "Black Friday Special", "Event Tickets",
	"Contact Name", "Contact Email", "Contact Phone",
	"Registration Date", "Payment Date", "Status",
}

func (s *reportService) WriteCSV(ctx context.Context, w io.Writer) error {
	regs, err := s.regRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list registrations: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	now := s.now()
	for _, reg := range regs {
		blackFriday := "No"
		if reg.IsBlackFriday {
			blackFriday = "Yes"
		}
		paymentDate := "Not set"
		if reg.PaymentDate != nil {
			paymentDate = reg.PaymentDate.Format("2006-01-02")
		}
		record := []string{
			reg.CompanyName, reg.CompanyAddress, reg.CompanyEmail, reg.CompanyPhone,
			domain.TierLabel(reg.PackageTier), blackFriday, fmt.Sprintf("%d", reg.TicketsAllocated),
			reg.ContactName, reg.ContactEmail, reg.ContactPhone,
			reg.CreatedAt.Format("2006-01-02"), paymentDate, reg.PaymentStatus(now),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
