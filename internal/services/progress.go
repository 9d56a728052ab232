package services

import (
	"context"
	"math"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
)

// HistoryDays is the window covered by the progress history.
const HistoryDays = 30

// ProgressHistory pairs the current goals with per-day totals.
type ProgressHistory struct {
	Goals   types.DailyGoals  `json:"goals"`
	History []types.DayTotals `json:"history"`
}

// ProgressService derives intake views from goals and food logs.
type ProgressService struct {
	goals GoalsRepository
	logs  FoodLogRepository
	clock Clock
}

func NewProgressService(goals GoalsRepository, logs FoodLogRepository, clock Clock) *ProgressService {
	return &ProgressService{goals: goals, logs: logs, clock: clock}
}

// Today compares today's consumption against the user's goals.
func (s *ProgressService) Today(ctx context.Context, userID int) (types.Progress, error) {
	goals, err := s.goals.GetByUser(ctx, userID)
	if err != nil {
		return types.Progress{}, err
	}
	consumed, err := s.logs.Totals(ctx, userID, s.clock.Today())
	if err != nil {
		return types.Progress{}, err
	}
	return BuildProgress(goals.Macros(), consumed), nil
}

// Remaining returns goals minus today's consumption. Values may be negative.
func (s *ProgressService) Remaining(ctx context.Context, userID int) (types.Macros, error) {
	progress, err := s.Today(ctx, userID)
	if err != nil {
		return types.Macros{}, err
	}
	return progress.Remaining, nil
}

// History returns the per-day totals of the last HistoryDays days, newest first.
func (s *ProgressService) History(ctx context.Context, userID int) (ProgressHistory, error) {
	goals, err := s.goals.GetByUser(ctx, userID)
	if err != nil {
		return ProgressHistory{}, err
	}
	today := s.clock.Today()
	since := types.Date{Time: today.AddDate(0, 0, -(HistoryDays - 1))}
	days, err := s.logs.DailyTotals(ctx, userID, since)
	if err != nil {
		return ProgressHistory{}, err
	}
	if days == nil {
		days = []types.DayTotals{}
	}
	return ProgressHistory{Goals: goals, History: days}, nil
}

// BuildProgress derives remaining and percentage views.
func BuildProgress(goals, consumed types.Macros) types.Progress {
	return types.Progress{
		Goals:     goals,
		Consumed:  consumed,
		Remaining: goals.Sub(consumed),
		Percentages: types.Percentages{
			Calories: percentOf(consumed.Calories, goals.Calories),
			Protein:  percentOf(consumed.Protein, goals.Protein),
			Carbs:    percentOf(consumed.Carbs, goals.Carbs),
			Fat:      percentOf(consumed.Fat, goals.Fat),
		},
	}
}

// percentOf is nil when the goal is not positive.
func percentOf(consumed, goal int) *int {
	if goal <= 0 {
		return nil
	}
	v := int(math.Round(float64(consumed) / float64(goal) * 100))
	return &v
}
