package services

import (
	"context"
	"fmt"

	"sponsorregistration/internal/domain"
)

type availabilityService struct {
	regRepo domain.RegistrationRepository
}

// NewAvailabilityService creates an AvailabilityService over the given
// registration repository. Check is a pure read; the authoritative cap
// enforcement lives in the repository's Create.
func NewAvailabilityService(regRepo domain.RegistrationRepository) domain.AvailabilityService {
	return &availabilityService{regRepo: regRepo}
}

func (s *availabilityService) Check(ctx context.Context, tier string) (domain.Availability, error) {
	if !domain.ValidTier(tier) {
		return domain.Availability{}, fmt.Errorf("%w: %q", domain.ErrUnknownTier, tier)
	}
	if tier != domain.TierBlackFriday {
		return domain.Availability{Tier: tier, Available: true}, nil
	}
	count, err := s.regRepo.CountByTier(ctx, tier)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("failed to count %s registrations: %w", tier, err)
	}
	remaining := domain.BlackFridayCapacity - count
	if remaining < 0 {
		remaining = 0
	}
	return domain.Availability{
		Tier:      tier,
		Available: count < domain.BlackFridayCapacity,
		Capped:    true,
		Remaining: remaining,
	}, nil
}

func (s *availabilityService) CheckAll(ctx context.Context) ([]domain.Availability, error) {
	out := make([]domain.Availability, 0, len(domain.Tiers))
	for _, tier := range domain.Tiers {
		a, err := s.Check(ctx, tier)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
