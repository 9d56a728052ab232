package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/services"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
	"go.uber.org/zap"
)

// RecipeHandler serves recipe recommendations.
type RecipeHandler struct {
	recipes *services.RecipeService
	logger  *zap.Logger
}

func NewRecipeHandler(recipes *services.RecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, logger: logger}
}

// RecipesRouter registers recipe routes on the given router.
func RecipesRouter(r chi.Router, recipes *services.RecipeService, authMiddleware func(http.Handler) http.Handler, logger *zap.Logger) {
	handler := NewRecipeHandler(recipes, logger)

	r.With(authMiddleware).Post("/recommendations", handler.Recommendations)
}

func (h *RecipeHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	outcome, err := h.recipes.Recommend(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Goals not found")
		return
	}

	writeJSON(w, http.StatusOK, RecommendationsResponse{
		Recipes:   outcome.Recipes,
		Remaining: outcome.Remaining,
		Source:    string(outcome.Kind),
		Note:      outcome.Note,
	})
}

type RecommendationsResponse struct {
	Recipes   json.RawMessage `json:"recipes"`
	Remaining types.Macros    `json:"remaining"`
	Source    string          `json:"source"`
	Note      string          `json:"note,omitempty"`
}
