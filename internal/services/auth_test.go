package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/config"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupCreatesUserWithDefaultGoals(t *testing.T) {
	f := newFixture(t, config.BMIHistoryBothSupplied)
	ctx := context.Background()

	user, token, err := f.auth.Signup(ctx, validSignup("  Ada@Example.com "))
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, 23.15, user.BMI)
	assert.NotEqual(t, "hunter2", user.PasswordHash)
	assert.NotEmpty(t, token)

	assert.Equal(t, 1, f.db.GoalsCount(user.ID))
	goals, err := f.goals.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Macros{Calories: 2000, Protein: 150, Carbs: 250, Fat: 65}, goals.Macros())

	identity, err := f.auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: user.ID, Email: "ada@example.com"}, identity)
	assert.Equal(t, []string{EventUserRegistered}, f.events.Types())
}

func TestSignupAgeBounds(t *testing.T) {
	f := newFixture(t, config.BMIHistoryBothSupplied)
	ctx := context.Background()

	in := validSignup("old@example.com")
	in.Age = intPtr(151)
	_, _, err := f.auth.Signup(ctx, in)
	require.True(t, IsValidation(err))
	assert.EqualError(t, err, "Invalid age")
	assert.Equal(t, 0, f.db.UserCount())

	in.Age = intPtr(150)
	_, _, err = f.auth.Signup(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, f.db.UserCount())
}

func TestSignupRoundsMeasures(t *testing.T) {
	f := newFixture(t, config.BMIHistoryBothSupplied)
	in := validSignup("round@example.com")
	in.Height = floatPtr(50)
	in.Weight = floatPtr(499.996)

	user, _, err := f.auth.Signup(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 50.0, user.Height)
	assert.Equal(t, 500.0, user.Weight)
	assert.Equal(t, 2000.0, user.BMI)
}

func TestSignupRangeChecks(t *testing.T) {
	f := newFixture(t, config.BMIHistoryBothSupplied)

	cases := []struct {
		name   string
		mutate func(*SignupInput)
		msg    string
	}{
		{"age zero", func(in *SignupInput) { in.Age = intPtr(0) }, "Invalid age"},
		{"short", func(in *SignupInput) { in.Height = floatPtr(49.9) }, "Invalid height (cm)"},
		{"tall", func(in *SignupInput) { in.Height = floatPtr(300.1) }, "Invalid height (cm)"},
		{"light", func(in *SignupInput) { in.Weight = floatPtr(19) }, "Invalid weight (kg)"},
		{"heavy", func(in *SignupInput) { in.Weight = floatPtr(501) }, "Invalid weight (kg)"},
		{"missing name", func(in *SignupInput) { in.Name = "  " }, "All fields are required"},
		{"missing weight", func(in *SignupInput) { in.Weight = nil }, "All fields are required"},
		{"missing password", func(in *SignupInput) { in.Password = "" }, "All fields are required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSignup("range@example.com")
			tc.mutate(&in)
			_, _, err := f.auth.Signup(context.Background(), in)
			require.True(t, IsValidation(err), "got %v", err)
			assert.EqualError(t, err, tc.msg)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t, config.BMIHistoryBothSupplied)
	f.signup(t, "dup@example.com")

	_, _, err := f.auth.Signup(context.Background(), validSignup("DUP@example.com"))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, f.db.UserCount())
}

func TestSignupLeavesNothingWhenGoalsFail(t *testing.T) {
	f := newFixture(t, config.BMIHistoryBothSupplied)
	f.db.FailGoalsInsert = errors.New("goals insert failed")

	_, _, err := f.auth.Signup(context.Background(), validSignup("tx@example.com"))
	require.Error(t, err)
	assert.Equal(t, 0, f.db.UserCount())
	assert.Empty(t, f.events.Types())
}

func TestLogin(t *testing.T) {
	f := newFixture(t, config.BMIHistoryBothSupplied)
	created := f.signup(t, "login@example.com")
	ctx := context.Background()

	user, token, err := f.auth.Login(ctx, " LOGIN@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	identity, err := f.auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, identity.UserID)

	_, _, err = f.auth.Login(ctx, "login@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = f.auth.Login(ctx, "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = f.auth.Login(ctx, "", "hunter2")
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "Email and password are required")
}

func TestTokenLifetime(t *testing.T) {
	f := newFixture(t, config.BMIHistoryBothSupplied)
	_, token, err := f.auth.Signup(context.Background(), validSignup("ttl@example.com"))
	require.NoError(t, err)

	f.clock.Set(testNow.Add(6 * 24 * time.Hour))
	_, err = f.auth.Verify(token)
	assert.NoError(t, err)

	f.clock.Set(testNow.Add(8 * 24 * time.Hour))
	_, err = f.auth.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	f := newFixture(t, config.BMIHistoryBothSupplied)

	_, err := f.auth.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = f.auth.Verify(foreign)
	assert.ErrorIs(t, err, ErrUnauthorized)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "1",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = f.auth.Verify(noExpiry)
	assert.ErrorIs(t, err, ErrUnauthorized)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = f.auth.Verify(unsigned)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
