package services

import (
	"context"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
)

// GoalsRepository defines persistence operations for daily goals.
type GoalsRepository interface {
	GetByUser(ctx context.Context, userID int) (types.DailyGoals, error)
	Replace(ctx context.Context, goals types.DailyGoals) (types.DailyGoals, error)
}

// GoalsInput is a full replacement of the four targets.
type GoalsInput struct {
	Calories *int
	Protein  *int
	Carbs    *int
	Fat      *int
}

// GoalsService encapsulates goals use-cases.
type GoalsService struct {
	repo   GoalsRepository
	events EventPublisher
}

func NewGoalsService(repo GoalsRepository, events EventPublisher) *GoalsService {
	return &GoalsService{repo: repo, events: publisherOrNoop(events)}
}

func (s *GoalsService) Get(ctx context.Context, userID int) (types.DailyGoals, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Replace overwrites all four targets.
func (s *GoalsService) Replace(ctx context.Context, userID int, in GoalsInput) (types.DailyGoals, error) {
	if in.Calories == nil || in.Protein == nil || in.Carbs == nil || in.Fat == nil {
		return types.DailyGoals{}, invalid("", "All goal fields are required")
	}
	goals, err := s.repo.Replace(ctx, types.DailyGoals{
		UserID:   userID,
		Calories: *in.Calories,
		Protein:  *in.Protein,
		Carbs:    *in.Carbs,
		Fat:      *in.Fat,
	})
	if err != nil {
		return types.DailyGoals{}, err
	}
	s.events.Publish(ctx, EventGoalsUpdated, userID, goals.Macros())
	return goals, nil
}
