package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
	"go.uber.org/zap"
)

// RecipeGenerator produces a free-text completion for a system and user prompt.
type RecipeGenerator interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// RecipeKind tells which path produced a recommendation.
type RecipeKind string

const (
	// RecipesGenerated means the list came from the generator verbatim.
	RecipesGenerated RecipeKind = "generated"
	// RecipesTemplate means no generator is configured.
	RecipesTemplate RecipeKind = "template"
	// RecipesFallback means the generator failed or returned unusable content.
	RecipesFallback RecipeKind = "fallback"
)

const (
	templateNote = "Configure AI_API_KEY in .env for AI-generated recommendations"
	fallbackNote = "Using fallback recommendations. Check AI API configuration."

	recipeSystemPrompt = "You are a helpful nutrition expert that provides recipe recommendations in JSON format."
)

// RecipeOutcome is the result of a recommendation request.
type RecipeOutcome struct {
	Kind      RecipeKind
	Recipes   json.RawMessage
	Remaining types.Macros
	Note      string
	// Reason is set for RecipesFallback only.
	Reason error
}

// RemainingSource computes what is left of today's goals.
type RemainingSource interface {
	Remaining(ctx context.Context, userID int) (types.Macros, error)
}

// RecipeService suggests recipes for the remaining macros of the day.
type RecipeService struct {
	progress  RemainingSource
	generator RecipeGenerator
	logger    *zap.Logger
}

// NewRecipeService builds the service. A nil generator selects the template path.
func NewRecipeService(progress RemainingSource, generator RecipeGenerator, logger *zap.Logger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{progress: progress, generator: generator, logger: logger}
}

// Recommend never fails because of the generator; only loading goals can fail.
func (s *RecipeService) Recommend(ctx context.Context, userID int) (RecipeOutcome, error) {
	remaining, err := s.progress.Remaining(ctx, userID)
	if err != nil {
		return RecipeOutcome{}, err
	}

	if s.generator == nil {
		return RecipeOutcome{
			Kind:      RecipesTemplate,
			Recipes:   mustMarshal(TemplateRecipes(remaining)),
			Remaining: remaining,
			Note:      templateNote,
		}, nil
	}

	recipes, err := s.generate(ctx, remaining)
	if err != nil {
		s.logger.Warn("recipe generation failed, using fallback",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return RecipeOutcome{
			Kind:      RecipesFallback,
			Recipes:   mustMarshal(FallbackRecipes(remaining)),
			Remaining: remaining,
			Note:      fallbackNote,
			Reason:    err,
		}, nil
	}

	return RecipeOutcome{Kind: RecipesGenerated, Recipes: recipes, Remaining: remaining}, nil
}

func (s *RecipeService) generate(ctx context.Context, remaining types.Macros) (json.RawMessage, error) {
	content, err := s.generator.Complete(ctx, recipeSystemPrompt, recipePrompt(remaining))
	if err != nil {
		return nil, err
	}
	return ExtractRecipeArray(content)
}

// ExtractRecipeArray locates the JSON array in a model reply and returns it unchanged.
// The reply may wrap the array in prose or a markdown fence.
func ExtractRecipeArray(content string) (json.RawMessage, error) {
	candidate := content
	if start, end := strings.Index(content, "["), strings.LastIndex(content, "]"); start >= 0 && end > start {
		candidate = content[start : end+1]
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, fmt.Errorf("invalid JSON response from AI: %w", err)
	}
	if items == nil {
		return nil, errors.New("invalid JSON response from AI: null")
	}
	return json.RawMessage(candidate), nil
}

func recipePrompt(remaining types.Macros) string {
	return fmt.Sprintf(`You are a nutrition expert. Based on the following remaining daily nutrition goals, suggest 3 healthy recipe recommendations:

Remaining Goals:
- Calories: %d kcal
- Protein: %dg
- Carbohydrates: %dg
- Fat: %dg

Please provide 3 recipe suggestions that would help meet these remaining goals. For each recipe, include:
1. Recipe name
2. Brief description
3. Estimated nutrition values (calories, protein, carbs, fat)
4. Simple preparation instructions

Format your response as a JSON array of recipes with the following structure:
[
  {
    "name": "Recipe Name",
    "description": "Brief description",
    "nutrition": {
      "calories": 500,
      "protein": 30,
      "carbs": 40,
      "fat": 15
    },
    "instructions": ["Step 1", "Step 2", "Step 3"]
  }
]`, remaining.Calories, remaining.Protein, remaining.Carbs, remaining.Fat)
}

// share is one macro of a template: a fraction of the remaining value with a lower bound.
type share struct {
	floor int
	ratio float64
}

func (s share) of(remaining int) int {
	return max(s.floor, scaled(remaining, s.ratio))
}

func scaled(v int, ratio float64) int {
	return int(math.Floor(float64(v) * ratio))
}

type recipeTemplate struct {
	name, description             string
	calories, protein, carbs, fat share
	instructions                  []string
}

var recipeTemplates = []recipeTemplate{
	{
		name:        "Grilled Chicken Salad",
		description: "A high-protein, low-carb salad with grilled chicken breast, mixed greens, and light vinaigrette",
		calories:    share{400, 0.3},
		protein:     share{35, 0.4},
		carbs:       share{20, 0.2},
		fat:         share{15, 0.3},
		instructions: []string{
			"Season chicken breast with salt, pepper, and herbs",
			"Grill chicken for 6-8 minutes per side until cooked through",
			"Mix salad greens, cherry tomatoes, cucumber",
			"Slice chicken and place on salad",
			"Drizzle with olive oil and balsamic vinegar",
		},
	},
	{
		name:        "Salmon with Quinoa",
		description: "Omega-3 rich salmon with protein-packed quinoa and roasted vegetables",
		calories:    share{450, 0.35},
		protein:     share{40, 0.45},
		carbs:       share{35, 0.25},
		fat:         share{18, 0.35},
		instructions: []string{
			"Cook quinoa according to package directions",
			"Season salmon with lemon, garlic, and dill",
			"Bake salmon at 400°F for 12-15 minutes",
			"Roast vegetables (broccoli, bell peppers) at 425°F for 20 minutes",
			"Serve salmon over quinoa with vegetables",
		},
	},
	{
		name:        "Greek Yogurt Protein Bowl",
		description: "High-protein breakfast or snack with Greek yogurt, berries, and nuts",
		calories:    share{300, 0.2},
		protein:     share{25, 0.3},
		carbs:       share{30, 0.2},
		fat:         share{10, 0.2},
		instructions: []string{
			"Add 1 cup Greek yogurt to a bowl",
			"Top with mixed berries (strawberries, blueberries)",
			"Add a handful of almonds or walnuts",
			"Drizzle with honey (optional)",
			"Sprinkle with chia seeds for extra nutrition",
		},
	},
}

// TemplateRecipes returns the three static suggestions sized to the remaining macros.
func TemplateRecipes(remaining types.Macros) []types.Recipe {
	out := make([]types.Recipe, 0, len(recipeTemplates))
	for _, t := range recipeTemplates {
		out = append(out, types.Recipe{
			Name:        t.name,
			Description: t.description,
			Nutrition: types.Macros{
				Calories: t.calories.of(remaining.Calories),
				Protein:  t.protein.of(remaining.Protein),
				Carbs:    t.carbs.of(remaining.Carbs),
				Fat:      t.fat.of(remaining.Fat),
			},
			Instructions: append([]string(nil), t.instructions...),
		})
	}
	return out
}

// FallbackRecipes returns the single suggestion used when generation fails.
func FallbackRecipes(remaining types.Macros) []types.Recipe {
	return []types.Recipe{{
		Name:        "Grilled Chicken Salad",
		Description: "A high-protein, low-carb salad with grilled chicken breast",
		Nutrition: types.Macros{
			Calories: max(0, scaled(remaining.Calories, 0.3)),
			Protein:  max(0, scaled(remaining.Protein, 0.4)),
			Carbs:    max(0, scaled(remaining.Carbs, 0.2)),
			Fat:      max(0, scaled(remaining.Fat, 0.3)),
		},
		Instructions: []string{"Grill chicken", "Mix salad", "Add dressing"},
	}}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
