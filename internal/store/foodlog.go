package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
)

const foodLogColumns = `id, user_id, food_name, calories, protein, carbs, fat, meal_type, log_date, created_at`

// FoodLogRepository handles persistence for food log entries.
type FoodLogRepository struct {
	db *sqlx.DB
}

func NewFoodLogRepository(db *sqlx.DB) *FoodLogRepository {
	return &FoodLogRepository{db: db}
}

func (r *FoodLogRepository) Create(ctx context.Context, log types.FoodLog) (types.FoodLog, error) {
	const query = `
		INSERT INTO food_logs (user_id, food_name, calories, protein, carbs, fat, meal_type, log_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + foodLogColumns
	var created types.FoodLog
	if err := r.db.QueryRowxContext(
		ctx,
		query,
		log.UserID,
		log.FoodName,
		log.Calories,
		log.Protein,
		log.Carbs,
		log.Fat,
		log.MealType,
		log.LogDate,
	).StructScan(&created); err != nil {
		return types.FoodLog{}, err
	}
	return created, nil
}

// ListByDate returns the user's entries for day, newest first.
func (r *FoodLogRepository) ListByDate(ctx context.Context, userID int, day types.Date) ([]types.FoodLog, error) {
	const query = `
		SELECT ` + foodLogColumns + `
		FROM food_logs
		WHERE user_id = $1 AND log_date = $2
		ORDER BY created_at DESC, id DESC`
	logs := []types.FoodLog{}
	if err := r.db.SelectContext(ctx, &logs, query, userID, day); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListByUser returns every entry the user owns, newest first.
func (r *FoodLogRepository) ListByUser(ctx context.Context, userID int) ([]types.FoodLog, error) {
	const query = `
		SELECT ` + foodLogColumns + `
		FROM food_logs
		WHERE user_id = $1
		ORDER BY log_date DESC, created_at DESC, id DESC`
	logs := []types.FoodLog{}
	if err := r.db.SelectContext(ctx, &logs, query, userID); err != nil {
		return nil, err
	}
	return logs, nil
}

// Totals sums the user's macros for day. Days without entries sum to zero.
func (r *FoodLogRepository) Totals(ctx context.Context, userID int, day types.Date) (types.Macros, error) {
	const query = `
		SELECT
			COALESCE(SUM(calories), 0) AS calories,
			COALESCE(SUM(protein), 0) AS protein,
			COALESCE(SUM(carbs), 0) AS carbs,
			COALESCE(SUM(fat), 0) AS fat
		FROM food_logs
		WHERE user_id = $1 AND log_date = $2`
	var totals types.Macros
	err := r.db.QueryRowxContext(ctx, query, userID, day).Scan(&totals.Calories, &totals.Protein, &totals.Carbs, &totals.Fat)
	if err != nil {
		return types.Macros{}, err
	}
	return totals, nil
}

// DailyTotals returns per-day sums for days on or after since, newest first.
func (r *FoodLogRepository) DailyTotals(ctx context.Context, userID int, since types.Date) ([]types.DayTotals, error) {
	const query = `
		SELECT
			log_date,
			COALESCE(SUM(calories), 0) AS total_calories,
			COALESCE(SUM(protein), 0) AS total_protein,
			COALESCE(SUM(carbs), 0) AS total_carbs,
			COALESCE(SUM(fat), 0) AS total_fat
		FROM food_logs
		WHERE user_id = $1 AND log_date >= $2
		GROUP BY log_date
		ORDER BY log_date DESC`
	days := []types.DayTotals{}
	if err := r.db.SelectContext(ctx, &days, query, userID, since); err != nil {
		return nil, err
	}
	return days, nil
}

// Delete removes the entry only when it belongs to userID.
func (r *FoodLogRepository) Delete(ctx context.Context, userID, id int) (types.FoodLog, error) {
	const query = `DELETE FROM food_logs WHERE id = $1 AND user_id = $2 RETURNING ` + foodLogColumns
	var deleted types.FoodLog
	err := r.db.QueryRowxContext(ctx, query, id, userID).StructScan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.FoodLog{}, ErrNotFound
		}
		return types.FoodLog{}, err
	}
	return deleted, nil
}
