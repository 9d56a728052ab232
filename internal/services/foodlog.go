package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
)

// FoodLogRepository defines persistence operations for food logs.
type FoodLogRepository interface {
	Create(ctx context.Context, log types.FoodLog) (types.FoodLog, error)
	ListByDate(ctx context.Context, userID int, day types.Date) ([]types.FoodLog, error)
	ListByUser(ctx context.Context, userID int) ([]types.FoodLog, error)
	Totals(ctx context.Context, userID int, day types.Date) (types.Macros, error)
	DailyTotals(ctx context.Context, userID int, since types.Date) ([]types.DayTotals, error)
	Delete(ctx context.Context, userID, id int) (types.FoodLog, error)
}

// FoodLogInput is one consumption entry. Nil macros are missing fields.
type FoodLogInput struct {
	FoodName string
	Calories *int
	Protein  *int
	Carbs    *int
	Fat      *int
	MealType string
}

// FoodLogService records and lists food consumption.
type FoodLogService struct {
	repo   FoodLogRepository
	clock  Clock
	events EventPublisher
}

func NewFoodLogService(repo FoodLogRepository, clock Clock, events EventPublisher) *FoodLogService {
	return &FoodLogService{repo: repo, clock: clock, events: publisherOrNoop(events)}
}

// Log records an entry against today's date.
func (s *FoodLogService) Log(ctx context.Context, userID int, in FoodLogInput) (types.FoodLog, error) {
	name := strings.TrimSpace(in.FoodName)
	if name == "" || in.Calories == nil || in.Protein == nil || in.Carbs == nil || in.Fat == nil {
		return types.FoodLog{}, invalid("", "All nutrition fields are required")
	}
	mealType := strings.TrimSpace(in.MealType)
	if mealType == "" {
		mealType = types.DefaultMealType
	}

	created, err := s.repo.Create(ctx, types.FoodLog{
		UserID:   userID,
		FoodName: name,
		Calories: *in.Calories,
		Protein:  *in.Protein,
		Carbs:    *in.Carbs,
		Fat:      *in.Fat,
		MealType: mealType,
		LogDate:  s.clock.Today(),
	})
	if err != nil {
		return types.FoodLog{}, fmt.Errorf("create food log: %w", err)
	}
	s.events.Publish(ctx, EventFoodLogged, userID, created)
	return created, nil
}

// Today lists today's entries, newest first.
func (s *FoodLogService) Today(ctx context.Context, userID int) ([]types.FoodLog, error) {
	return s.repo.ListByDate(ctx, userID, s.clock.Today())
}

// Delete removes an entry owned by userID. Entries of other users are reported as not found.
func (s *FoodLogService) Delete(ctx context.Context, userID, id int) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	s.events.Publish(ctx, EventFoodDeleted, userID, deleted)
	return nil
}
