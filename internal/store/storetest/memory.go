// Package storetest provides in-memory repositories with the same contracts
// as the SQL repositories in package store.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/store"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
)

// DB is the shared in-memory state behind the repositories.
type DB struct {
	mu      sync.Mutex
	nextID  int
	tick    time.Time
	users   map[int]types.User
	goals   map[int]types.DailyGoals
	logs    map[int]types.FoodLog
	history []types.BmiRecord

	// FailGoalsInsert makes CreateWithGoals fail after inserting the user,
	// to exercise the signup rollback path.
	FailGoalsInsert error
}

func New() *DB {
	return &DB{
		tick:  time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
		users: map[int]types.User{},
		goals: map[int]types.DailyGoals{},
		logs:  map[int]types.FoodLog{},
	}
}

func (d *DB) id() int {
	d.nextID++
	return d.nextID
}

// now returns strictly increasing timestamps so ordering is deterministic.
func (d *DB) now() time.Time {
	d.tick = d.tick.Add(time.Second)
	return d.tick
}

// Users returns a repository over d.
func (d *DB) Users() *UserRepository { return &UserRepository{d} }

// Goals returns a repository over d.
func (d *DB) Goals() *GoalsRepository { return &GoalsRepository{d} }

// FoodLogs returns a repository over d.
func (d *DB) FoodLogs() *FoodLogRepository { return &FoodLogRepository{d} }

// UserCount reports how many users are stored.
func (d *DB) UserCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.users)
}

// GoalsCount reports how many goals rows belong to userID.
func (d *DB) GoalsCount(userID int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.goals[userID]; ok {
		return 1
	}
	return 0
}

// DeleteGoals removes the goals row of userID.
func (d *DB) DeleteGoals(userID int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.goals, userID)
}

type UserRepository struct{ d *DB }

func (r *UserRepository) GetByID(_ context.Context, id int) (types.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (types.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.Email == email {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *UserRepository) CreateWithGoals(_ context.Context, user types.User, goals types.DailyGoals) (types.User, types.DailyGoals, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.Email == user.Email {
			return types.User{}, types.DailyGoals{}, store.ErrDuplicate
		}
	}
	if r.d.FailGoalsInsert != nil {
		return types.User{}, types.DailyGoals{}, r.d.FailGoalsInsert
	}
	user.ID = r.d.id()
	user.CreatedAt = r.d.now()
	goals.ID = r.d.id()
	goals.UserID = user.ID
	goals.UpdatedAt = user.CreatedAt
	r.d.users[user.ID] = user
	r.d.goals[user.ID] = goals
	return user, goals, nil
}

// UpdateProfile applies change while holding the database lock.
func (r *UserRepository) UpdateProfile(_ context.Context, id int, change store.ProfileChange) (types.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	current, ok := r.d.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	next, record, err := change(current)
	if err != nil {
		return types.User{}, err
	}
	next.ID = current.ID
	next.Email = current.Email
	next.PasswordHash = current.PasswordHash
	next.CreatedAt = current.CreatedAt
	r.d.users[id] = next
	if record != nil {
		rec := *record
		rec.ID = r.d.id()
		rec.UserID = id
		rec.RecordedAt = r.d.now()
		r.d.history = append(r.d.history, rec)
	}
	return next, nil
}

func (r *UserRepository) ListBmiHistory(_ context.Context, userID, limit int) ([]types.BmiRecord, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []types.BmiRecord{}
	for i := len(r.d.history) - 1; i >= 0 && len(out) < limit; i-- {
		if r.d.history[i].UserID == userID {
			out = append(out, r.d.history[i])
		}
	}
	return out, nil
}

// Delete removes the user and everything it owns.
func (r *UserRepository) Delete(_ context.Context, id int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.d.users, id)
	delete(r.d.goals, id)
	for logID, l := range r.d.logs {
		if l.UserID == id {
			delete(r.d.logs, logID)
		}
	}
	kept := r.d.history[:0]
	for _, rec := range r.d.history {
		if rec.UserID != id {
			kept = append(kept, rec)
		}
	}
	r.d.history = kept
	return nil
}

type GoalsRepository struct{ d *DB }

func (r *GoalsRepository) GetByUser(_ context.Context, userID int) (types.DailyGoals, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	g, ok := r.d.goals[userID]
	if !ok {
		return types.DailyGoals{}, store.ErrNotFound
	}
	return g, nil
}

func (r *GoalsRepository) Replace(_ context.Context, goals types.DailyGoals) (types.DailyGoals, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	current, ok := r.d.goals[goals.UserID]
	if !ok {
		return types.DailyGoals{}, store.ErrNotFound
	}
	goals.ID = current.ID
	goals.UpdatedAt = r.d.now()
	r.d.goals[goals.UserID] = goals
	return goals, nil
}

type FoodLogRepository struct{ d *DB }

func (r *FoodLogRepository) Create(_ context.Context, log types.FoodLog) (types.FoodLog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.users[log.UserID]; !ok {
		return types.FoodLog{}, store.ErrNotFound
	}
	log.ID = r.d.id()
	log.CreatedAt = r.d.now()
	r.d.logs[log.ID] = log
	return log, nil
}

func (r *FoodLogRepository) ListByDate(_ context.Context, userID int, day types.Date) ([]types.FoodLog, error) {
	return r.filter(func(l types.FoodLog) bool {
		return l.UserID == userID && l.LogDate.Equal(day.Time)
	}), nil
}

func (r *FoodLogRepository) ListByUser(_ context.Context, userID int) ([]types.FoodLog, error) {
	return r.filter(func(l types.FoodLog) bool { return l.UserID == userID }), nil
}

func (r *FoodLogRepository) Totals(ctx context.Context, userID int, day types.Date) (types.Macros, error) {
	logs, _ := r.ListByDate(ctx, userID, day)
	var totals types.Macros
	for _, l := range logs {
		totals.Calories += l.Calories
		totals.Protein += l.Protein
		totals.Carbs += l.Carbs
		totals.Fat += l.Fat
	}
	return totals, nil
}

func (r *FoodLogRepository) DailyTotals(_ context.Context, userID int, since types.Date) ([]types.DayTotals, error) {
	byDay := map[string]*types.DayTotals{}
	for _, l := range r.filter(func(l types.FoodLog) bool {
		return l.UserID == userID && !l.LogDate.Before(since.Time)
	}) {
		key := l.LogDate.String()
		day, ok := byDay[key]
		if !ok {
			day = &types.DayTotals{LogDate: l.LogDate}
			byDay[key] = day
		}
		day.TotalCalories += l.Calories
		day.TotalProtein += l.Protein
		day.TotalCarbs += l.Carbs
		day.TotalFat += l.Fat
	}
	out := make([]types.DayTotals, 0, len(byDay))
	for _, day := range byDay {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogDate.After(out[j].LogDate.Time) })
	return out, nil
}

func (r *FoodLogRepository) Delete(_ context.Context, userID, id int) (types.FoodLog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	l, ok := r.d.logs[id]
	if !ok || l.UserID != userID {
		return types.FoodLog{}, store.ErrNotFound
	}
	delete(r.d.logs, id)
	return l, nil
}

func (r *FoodLogRepository) filter(keep func(types.FoodLog) bool) []types.FoodLog {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []types.FoodLog{}
	for _, l := range r.d.logs {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LogDate.Equal(out[j].LogDate.Time) {
			return out[i].LogDate.After(out[j].LogDate.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
