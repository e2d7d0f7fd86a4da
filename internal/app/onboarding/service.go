package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"cribbage/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// DisplayName is the generated name applied to the account.
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// StatsInitialized is false when the account already had a stats record.
	StatsInitialized bool
}

// Service handles post-auth onboarding for new cribbage players.
type Service struct {
	accounts ports.AccountPort
	stats    ports.StatsInitPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/stats must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, stats ports.StatsInitPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		stats:    stats,
		rng:      rng,
	}
}

// OnboardNewUser names a newly created account and creates its empty stats record.
// Returns a Result with any non-fatal issues and an error if the stats record cannot be written.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.stats == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if err := s.accounts.UpdateProfile(ctx, userID, "", result.DisplayName); err != nil {
		// A missing friendly name is cosmetic; the table falls back to the seat label.
		result.ProfileUpdateErr = err
	}

	created, err := s.stats.InitStatsOnce(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to initialize stats: %w", err)
	}
	result.StatsInitialized = created

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Lucky", "Sharp", "Steady", "Clever", "Swift", "Calm", "Bold", "Witty", "Sly", "Quiet"}
	nouns := []string{"Pegger", "Knave", "Dealer", "Skunk", "Cutter", "Crib", "Nob", "Runner", "Jack", "Deuce"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(90) + 10

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
