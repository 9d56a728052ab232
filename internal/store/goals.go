package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
)

const goalsColumns = `id, user_id, calories, protein, carbs, fat, updated_at`

// GoalsRepository handles persistence for daily goals.
type GoalsRepository struct {
	db *sqlx.DB
}

func NewGoalsRepository(db *sqlx.DB) *GoalsRepository {
	return &GoalsRepository{db: db}
}

func (r *GoalsRepository) GetByUser(ctx context.Context, userID int) (types.DailyGoals, error) {
	var goals types.DailyGoals
	err := r.db.GetContext(ctx, &goals, `SELECT `+goalsColumns+` FROM daily_goals WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.DailyGoals{}, ErrNotFound
		}
		return types.DailyGoals{}, err
	}
	return goals, nil
}

// Replace overwrites all four targets of the user's goals row.
func (r *GoalsRepository) Replace(ctx context.Context, goals types.DailyGoals) (types.DailyGoals, error) {
	const query = `
		UPDATE daily_goals
		SET calories = $1,
			protein = $2,
			carbs = $3,
			fat = $4,
			updated_at = NOW()
		WHERE user_id = $5
		RETURNING ` + goalsColumns
	var updated types.DailyGoals
	err := r.db.QueryRowxContext(ctx, query, goals.Calories, goals.Protein, goals.Carbs, goals.Fat, goals.UserID).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.DailyGoals{}, ErrNotFound
		}
		return types.DailyGoals{}, err
	}
	return updated, nil
}
