package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
)

// GoalParams carries the caller-supplied fields for creating a goal.
// TargetDate may be zero; undated goals are stored but skipped by the
// prognosis engine.
type GoalParams struct {
	Name           string
	TargetAmount   decimal.Decimal
	TargetCurrency string
	TargetDate     time.Time
	Priority       models.GoalPriority
}

// GoalUpdateParams carries the optional fields of a goal update.
type GoalUpdateParams struct {
	Name           *string
	TargetAmount   *decimal.Decimal
	TargetCurrency *string
	TargetDate     *time.Time
	Priority       *models.GoalPriority
}

// ListGoals returns all goals owned by the user.
func (s *Service) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

// GetGoal returns a single goal owned by the user.
func (s *Service) GetGoal(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	return s.repo.GetGoal(ctx, goalID, userID)
}

// CreateGoal creates a savings goal for the authenticated user.
func (s *Service) CreateGoal(ctx context.Context, userID string, params GoalParams) (*models.Goal, error) {
	if err := s.repo.UpsertUser(ctx, userID); err != nil {
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now().UTC()
	goal := &models.Goal{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           params.Name,
		TargetAmount:   params.TargetAmount,
		TargetCurrency: params.TargetCurrency,
		TargetDate:     params.TargetDate,
		Priority:       priority,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}

	s.log.Infof("Goal %s created for user %s: %s by %s", goal.ID, userID, goal.TargetAmount, goal.TargetDate.Format("2006-01-02"))
	return goal, nil
}

// UpdateGoal applies the provided fields to an existing goal.
func (s *Service) UpdateGoal(ctx context.Context, userID, goalID string, params GoalUpdateParams) (*models.Goal, error) {
	goal, err := s.repo.GetGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		goal.Name = *params.Name
	}
	if params.TargetAmount != nil {
		goal.TargetAmount = *params.TargetAmount
	}
	if params.TargetCurrency != nil {
		goal.TargetCurrency = *params.TargetCurrency
	}
	if params.TargetDate != nil {
		goal.TargetDate = *params.TargetDate
	}
	if params.Priority != nil {
		goal.Priority = *params.Priority
	}
	goal.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal.
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID string) error {
	return s.repo.DeleteGoal(ctx, goalID, userID)
}
