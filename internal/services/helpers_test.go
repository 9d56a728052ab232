package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/store/storetest"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newFakeClock() (*fakeClock, Clock) {
	fc := &fakeClock{now: testNow}
	return fc, Clock{Now: fc.Now, Location: time.UTC}
}

type recordedEvent struct {
	Type   string
	UserID int
	Data   any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Publish(_ context.Context, eventType string, userID int, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: eventType, UserID: userID, Data: data})
}

func (r *eventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func validSignup(email string) SignupInput {
	return SignupInput{
		Email:    email,
		Password: "hunter2",
		Name:     "Ada",
		Country:  "UK",
		Gender:   "female",
		Age:      intPtr(30),
		Height:   floatPtr(180),
		Weight:   floatPtr(75),
	}
}

// fixture bundles the services over one in-memory database.
type fixture struct {
	db       *storetest.DB
	clock    *fakeClock
	events   *eventRecorder
	auth     *AuthService
	profile  *ProfileService
	goals    *GoalsService
	logs     *FoodLogService
	progress *ProgressService
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()
	db := storetest.New()
	fc, clock := newFakeClock()
	events := &eventRecorder{}
	return &fixture{
		db:       db,
		clock:    fc,
		events:   events,
		auth:     NewAuthService(db.Users(), "test-secret", 0, clock, events),
		profile:  NewProfileService(db.Users(), policy, events),
		goals:    NewGoalsService(db.Goals(), events),
		logs:     NewFoodLogService(db.FoodLogs(), clock, events),
		progress: NewProgressService(db.Goals(), db.FoodLogs(), clock),
	}
}

func (f *fixture) signup(t *testing.T, email string) types.User {
	t.Helper()
	user, _, err := f.auth.Signup(context.Background(), validSignup(email))
	require.NoError(t, err)
	return user
}

func (f *fixture) logFood(t *testing.T, userID int, name string, m types.Macros) types.FoodLog {
	t.Helper()
	entry, err := f.logs.Log(context.Background(), userID, FoodLogInput{
		FoodName: name,
		Calories: intPtr(m.Calories),
		Protein:  intPtr(m.Protein),
		Carbs:    intPtr(m.Carbs),
		Fat:      intPtr(m.Fat),
	})
	require.NoError(t, err)
	return entry
}
