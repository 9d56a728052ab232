package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
)

const userColumns = `id, email, password_hash, name, country, age, gender, height, weight, bmi, created_at`

// UserRepository handles persistence for users and their BMI history.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	var user types.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	var user types.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// CreateWithGoals inserts the user and its goals row in one transaction.
func (r *UserRepository) CreateWithGoals(ctx context.Context, user types.User, goals types.DailyGoals) (types.User, types.DailyGoals, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return types.User{}, types.DailyGoals{}, err
	}
	defer tx.Rollback()

	const insertUser = `
		INSERT INTO users (email, password_hash, name, country, age, gender, height, weight, bmi)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns
	var created types.User
	if err := tx.QueryRowxContext(
		ctx,
		insertUser,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Country,
		user.Age,
		user.Gender,
		user.Height,
		user.Weight,
		user.BMI,
	).StructScan(&created); err != nil {
		return types.User{}, types.DailyGoals{}, translate(err)
	}

	goals.UserID = created.ID
	const insertGoals = `
		INSERT INTO daily_goals (user_id, calories, protein, carbs, fat)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + goalsColumns
	var createdGoals types.DailyGoals
	if err := tx.QueryRowxContext(ctx, insertGoals, goals.UserID, goals.Calories, goals.Protein, goals.Carbs, goals.Fat).StructScan(&createdGoals); err != nil {
		return types.User{}, types.DailyGoals{}, fmt.Errorf("create default goals: %w", translate(err))
	}

	if err := tx.Commit(); err != nil {
		return types.User{}, types.DailyGoals{}, err
	}
	return created, createdGoals, nil
}

// ProfileChange derives the next profile row from the locked current one.
// A non-nil record is appended to the BMI history.
type ProfileChange func(current types.User) (next types.User, record *types.BmiRecord, err error)

// UpdateProfile locks the user row, applies change to it and writes the result
// in one transaction, so concurrent partial updates cannot overwrite each other.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, change ProfileChange) (types.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return types.User{}, err
	}
	defer tx.Rollback()

	var current types.User
	err = tx.GetContext(ctx, &current, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}

	next, record, err := change(current)
	if err != nil {
		return types.User{}, err
	}

	const query = `
		UPDATE users
		SET name = $1,
			country = $2,
			age = $3,
			gender = $4,
			height = $5,
			weight = $6,
			bmi = $7
		WHERE id = $8
		RETURNING ` + userColumns
	var updated types.User
	err = tx.QueryRowxContext(
		ctx,
		query,
		next.Name,
		next.Country,
		next.Age,
		next.Gender,
		next.Height,
		next.Weight,
		next.BMI,
		current.ID,
	).StructScan(&updated)
	if err != nil {
		return types.User{}, err
	}

	if record != nil {
		const insertHistory = `
			INSERT INTO bmi_history (user_id, height, weight, bmi)
			VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, insertHistory, current.ID, record.Height, record.Weight, record.BMI); err != nil {
			return types.User{}, fmt.Errorf("append bmi history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.User{}, err
	}
	return updated, nil
}

// ListBmiHistory returns up to limit history rows, newest first.
func (r *UserRepository) ListBmiHistory(ctx context.Context, userID, limit int) ([]types.BmiRecord, error) {
	const query = `
		SELECT id, user_id, height, weight, bmi, recorded_at
		FROM bmi_history
		WHERE user_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2`
	records := []types.BmiRecord{}
	if err := r.db.SelectContext(ctx, &records, query, userID, limit); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the user. Goals, food logs and BMI history cascade.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
