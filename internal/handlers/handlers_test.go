package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/config"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/services"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	t      *testing.T
	db     *storetest.DB
	router http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := storetest.New()
	logger := zap.NewNop()
	clock := services.SystemClock(time.UTC)
	events := services.NoopPublisher()

	authService := services.NewAuthService(db.Users(), "handler-secret", 0, clock, events)
	profileService := services.NewProfileService(db.Users(), config.BMIHistoryBothSupplied, events)
	goalsService := services.NewGoalsService(db.Goals(), events)
	logService := services.NewFoodLogService(db.FoodLogs(), clock, events)
	progressService := services.NewProgressService(db.Goals(), db.FoodLogs(), clock)
	recipeService := services.NewRecipeService(progressService, nil, logger)
	exportService := services.NewExportService(db.Users(), db.Goals(), db.FoodLogs(), nil, clock, logger)
	authMiddleware := RequireAuth(authService)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health)
		r.Route("/auth", func(r chi.Router) {
			AuthRouter(r, authService, profileService, exportService, authMiddleware, logger)
		})
		r.Route("/nutrition", func(r chi.Router) {
			NutritionRouter(r, goalsService, logService, progressService, authMiddleware, logger)
		})
		r.Route("/recipes", func(r chi.Router) {
			RecipesRouter(r, recipeService, authMiddleware, logger)
		})
	})
	return &testAPI{t: t, db: db, router: r}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func signupBody(email string) map[string]any {
	return map[string]any{
		"email":    email,
		"password": "secret",
		"name":     "Sam",
		"country":  "NZ",
		"gender":   "other",
		"age":      "28",
		"height":   "180",
		"weight":   "75",
	}
}

func (a *testAPI) signup(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/signup", "", signupBody(email))
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[AuthResponse](a.t, rec).Token
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Server is running"}`, rec.Body.String())
}

func TestSignupAndLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/auth/signup", "", signupBody("Sam@Example.com"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[AuthResponse](t, rec)
	assert.Equal(t, "User created successfully", created.Message)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "sam@example.com", created.User.Email)
	assert.Equal(t, "Sam", created.User.Name)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "sam@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[AuthResponse](t, rec)
	assert.Equal(t, "Login successful", login.Message)
	assert.Equal(t, created.User.ID, login.User.ID)

	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "sam@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "sam@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email and password are required"}`, rec.Body.String())
}

func TestSignupErrors(t *testing.T) {
	api := newTestAPI(t)
	api.signup("taken@example.com")

	old := signupBody("old@example.com")
	old["age"] = 151
	cases := []struct {
		name string
		body any
		msg  string
	}{
		{"age out of range", old, "Invalid age"},
		{"duplicate", signupBody("taken@example.com"), "Email already registered"},
		{"missing fields", map[string]any{"email": "x@example.com", "password": "p"}, "All fields are required"},
		{"blank number", map[string]any{"email": "x@example.com", "password": "p", "name": "n", "country": "c", "gender": "g", "age": "", "height": 170, "weight": 70}, "All fields are required"},
		{"not a number", map[string]any{"email": "x@example.com", "age": "abc"}, "Invalid request body"},
		{"malformed", `{"email":`, "Invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/auth/signup", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.msg, decode[ErrorResponse](t, rec).Error)
		})
	}
	assert.Equal(t, 1, api.db.UserCount())
}

func TestRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Access token required"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/nutrition/goals", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Basic abc")
	out := httptest.NewRecorder()
	api.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code)
}

func TestProfileFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("profile@example.com")

	rec := api.do(http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[map[string]any](t, rec)
	assert.Equal(t, 23.15, profile["bmi"])
	assert.Equal(t, "Normal", profile["bmi_category"])
	assert.Equal(t, float64(28), profile["age"])

	rec = api.do(http.MethodPut, "/api/auth/profile", token, map[string]any{"height": 180, "weight": "80"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[ProfileUpdateResponse](t, rec)
	assert.Equal(t, "Profile updated successfully", updated.Message)
	assert.Equal(t, 24.69, updated.User.BMI)
	assert.Equal(t, "Sam", updated.User.Name)

	rec = api.do(http.MethodPut, "/api/auth/profile", token, map[string]any{"weight": 600})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid weight (kg)"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/auth/bmi-history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]map[string]any](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, 24.69, history[0]["bmi"])
	assert.Contains(t, history[0], "recorded_at")
	assert.NotContains(t, history[0], "user_id")
}

func TestGoalsEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("goals@example.com")

	rec := api.do(http.MethodGet, "/api/nutrition/goals", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	goals := decode[map[string]any](t, rec)
	assert.Equal(t, float64(2000), goals["calories"])
	assert.Equal(t, float64(65), goals["fat"])

	rec = api.do(http.MethodPut, "/api/nutrition/goals", token, map[string]any{"calories": 1800, "protein": 140, "carbs": 180, "fat": 60})
	require.Equal(t, http.StatusOK, rec.Code)
	goals = decode[map[string]any](t, rec)
	assert.Equal(t, float64(1800), goals["calories"])

	rec = api.do(http.MethodPut, "/api/nutrition/goals", token, map[string]any{"calories": 1800})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFoodLogFlow(t *testing.T) {
	api := newTestAPI(t)
	owner := api.signup("owner@example.com")
	other := api.signup("other@example.com")

	rec := api.do(http.MethodPost, "/api/nutrition/log", owner, map[string]any{
		"food_name": "Chicken", "calories": 300, "protein": 30, "carbs": 0, "fat": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[map[string]any](t, rec)
	assert.Equal(t, "other", first["meal_type"])
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), first["log_date"])

	rec = api.do(http.MethodPost, "/api/nutrition/log", owner, map[string]any{
		"food_name": "Rice", "calories": 200, "protein": 4, "carbs": 45, "fat": 1, "meal_type": "lunch",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/api/nutrition/log", owner, map[string]any{"food_name": "Air"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"All nutrition fields are required"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/nutrition/logs/today", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	today := decode[[]map[string]any](t, rec)
	require.Len(t, today, 2)
	assert.Equal(t, "Rice", today[0]["food_name"])

	rec = api.do(http.MethodGet, "/api/nutrition/progress/today", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"goals": {"calories": 2000, "protein": 150, "carbs": 250, "fat": 65},
		"consumed": {"calories": 500, "protein": 34, "carbs": 45, "fat": 11},
		"remaining": {"calories": 1500, "protein": 116, "carbs": 205, "fat": 54},
		"percentages": {"calories": 25, "protein": 23, "carbs": 18, "fat": 17}
	}`, rec.Body.String())

	id := int(first["id"].(float64))
	path := fmt.Sprintf("/api/nutrition/log/%d", id)

	rec = api.do(http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Food log not found"}`, rec.Body.String())

	for _, bad := range []string{"abc", "0", "-3"} {
		rec = api.do(http.MethodDelete, "/api/nutrition/log/"+bad, owner, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, bad)
		assert.JSONEq(t, `{"error":"Food log not found"}`, rec.Body.String(), bad)
	}

	rec = api.do(http.MethodDelete, path, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Food log deleted successfully"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/nutrition/history", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[map[string]any](t, rec)
	days := history["history"].([]any)
	require.Len(t, days, 1)
	assert.Equal(t, float64(200), days[0].(map[string]any)["total_calories"])
}

func TestEmptyTodayIsArray(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("empty@example.com")

	rec := api.do(http.MethodGet, "/api/nutrition/logs/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProgressWithoutGoals(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("nogoals@example.com")
	api.db.DeleteGoals(1)

	rec := api.do(http.MethodGet, "/api/nutrition/progress/today", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Goals not found"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/recipes/recommendations", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendationsTemplates(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("recipes@example.com")

	rec := api.do(http.MethodPost, "/api/recipes/recommendations", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Recipes   []map[string]any `json:"recipes"`
		Remaining map[string]int   `json:"remaining"`
		Source    string           `json:"source"`
		Note      string           `json:"note"`
	}](t, rec)
	assert.Len(t, body.Recipes, 3)
	assert.Equal(t, 2000, body.Remaining["calories"])
	assert.Equal(t, "template", body.Source)
	assert.Equal(t, "Configure AI_API_KEY in .env for AI-generated recommendations", body.Note)
}

func TestExportAndDeleteAccount(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("leaver@example.com")

	rec := api.do(http.MethodGet, "/api/auth/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode[map[string]any](t, rec)
	assert.Equal(t, "leaver@example.com", snapshot["profile"].(map[string]any)["email"])
	assert.Equal(t, []any{}, snapshot["food_logs"])
	assert.NotContains(t, snapshot, "object_key")

	rec = api.do(http.MethodDelete, "/api/auth/account", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Account deleted successfully"}`, rec.Body.String())
	assert.Equal(t, 0, api.db.UserCount())

	rec = api.do(http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
}
