package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/services"
	"go.uber.org/zap"
)

// NutritionHandler provides goals, food log and progress endpoints.
type NutritionHandler struct {
	goals    *services.GoalsService
	logs     *services.FoodLogService
	progress *services.ProgressService
	logger   *zap.Logger
}

// NewNutritionHandler constructs a NutritionHandler with the provided services.
func NewNutritionHandler(goals *services.GoalsService, logs *services.FoodLogService, progress *services.ProgressService, logger *zap.Logger) *NutritionHandler {
	return &NutritionHandler{goals: goals, logs: logs, progress: progress, logger: logger}
}

// NutritionRouter registers nutrition routes on the given router. Every route requires auth.
func NutritionRouter(
	r chi.Router,
	goals *services.GoalsService,
	logs *services.FoodLogService,
	progress *services.ProgressService,
	authMiddleware func(http.Handler) http.Handler,
	logger *zap.Logger,
) {
	handler := NewNutritionHandler(goals, logs, progress, logger)

	r.Use(authMiddleware)
	r.Get("/goals", handler.GetGoals)
	r.Put("/goals", handler.ReplaceGoals)
	r.Post("/log", handler.LogFood)
	r.Delete("/log/{logID}", handler.DeleteLog)
	r.Get("/logs/today", handler.TodayLogs)
	r.Get("/progress/today", handler.TodayProgress)
	r.Get("/history", handler.History)
}

func (h *NutritionHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	goals, err := h.goals.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Goals not found")
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *NutritionHandler) ReplaceGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GoalsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goals, err := h.goals.Replace(r.Context(), userID, services.GoalsInput{
		Calories: req.Calories.Int(),
		Protein:  req.Protein.Int(),
		Carbs:    req.Carbs.Int(),
		Fat:      req.Fat.Int(),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Goals not found")
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *NutritionHandler) LogFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req FoodLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.logs.Log(r.Context(), userID, services.FoodLogInput{
		FoodName: req.FoodName,
		Calories: req.Calories.Int(),
		Protein:  req.Protein.Int(),
		Carbs:    req.Carbs.Int(),
		Fat:      req.Fat.Int(),
		MealType: req.MealType,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err, "User not found")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *NutritionHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	logID, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "logID")))
	if err != nil || logID < 1 {
		writeError(w, http.StatusNotFound, "Food log not found")
		return
	}

	if err := h.logs.Delete(r.Context(), userID, logID); err != nil {
		writeServiceError(w, r, h.logger, err, "Food log not found")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Food log deleted successfully"})
}

func (h *NutritionHandler) TodayLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	logs, err := h.logs.Today(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *NutritionHandler) TodayProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	progress, err := h.progress.Today(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Goals not found")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *NutritionHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	history, err := h.progress.History(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Goals not found")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

type GoalsRequest struct {
	Calories optionalNumber `json:"calories"`
	Protein  optionalNumber `json:"protein"`
	Carbs    optionalNumber `json:"carbs"`
	Fat      optionalNumber `json:"fat"`
}

type FoodLogRequest struct {
	FoodName string         `json:"food_name"`
	Calories optionalNumber `json:"calories"`
	Protein  optionalNumber `json:"protein"`
	Carbs    optionalNumber `json:"carbs"`
	Fat      optionalNumber `json:"fat"`
	MealType string         `json:"meal_type"`
}
