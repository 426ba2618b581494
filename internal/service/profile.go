package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// ProfileParams carries the caller-supplied fields for saving a profile.
type ProfileParams struct {
	Age          int
	DisplayName  string
	Gender       string
	BaseCurrency string
	RiskAppetite models.RiskAppetite
}

// GetProfile returns the user's profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// SaveProfile creates or replaces the user's profile. Users are identified
// by the external auth provider, so the user row is upserted on first
// contact.
func (s *Service) SaveProfile(ctx context.Context, userID string, params ProfileParams) (*models.Profile, error) {
	if err := s.repo.UpsertUser(ctx, userID); err != nil {
		return nil, err
	}

	baseCurrency := params.BaseCurrency
	if baseCurrency == "" {
		baseCurrency = s.config.BaseCurrency
	}
	appetite := params.RiskAppetite
	if appetite == "" {
		appetite = models.AppetiteModerate
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		ID:           uuid.NewString(),
		UserID:       userID,
		Age:          params.Age,
		DisplayName:  params.DisplayName,
		Gender:       params.Gender,
		BaseCurrency: baseCurrency,
		RiskAppetite: appetite,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Infof("Profile saved for user %s (appetite=%s)", userID, profile.RiskAppetite)
	return profile, nil
}
