package types

import "time"

// Default macro targets assigned at signup.
const (
	DefaultCaloriesGoal = 2000
	DefaultProteinGoal  = 150
	DefaultCarbsGoal    = 250
	DefaultFatGoal      = 65
)

// DefaultMealType is used when a food log omits its meal type.
const DefaultMealType = "other"

// Macros holds the four tracked nutrient values.
type Macros struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// Sub returns m - o per macro. Results may be negative.
func (m Macros) Sub(o Macros) Macros {
	return Macros{
		Calories: m.Calories - o.Calories,
		Protein:  m.Protein - o.Protein,
		Carbs:    m.Carbs - o.Carbs,
		Fat:      m.Fat - o.Fat,
	}
}

// DailyGoals is the single per-user macro target row.
type DailyGoals struct {
	// ID is the unique identifier of the goals row.
	ID int `json:"id" db:"id"`

	// UserID identifies the owning user; unique across the table.
	UserID int `json:"user_id" db:"user_id"`

	Calories int `json:"calories" db:"calories"`
	Protein  int `json:"protein" db:"protein"`
	Carbs    int `json:"carbs" db:"carbs"`
	Fat      int `json:"fat" db:"fat"`

	// UpdatedAt is the timestamp of the last replacement.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultGoals returns the goals assigned to a new user.
func DefaultGoals(userID int) DailyGoals {
	return DailyGoals{
		UserID:   userID,
		Calories: DefaultCaloriesGoal,
		Protein:  DefaultProteinGoal,
		Carbs:    DefaultCarbsGoal,
		Fat:      DefaultFatGoal,
	}
}

func (g DailyGoals) Macros() Macros {
	return Macros{Calories: g.Calories, Protein: g.Protein, Carbs: g.Carbs, Fat: g.Fat}
}

// FoodLog is an immutable record of one food-consumption event.
type FoodLog struct {
	// ID is the unique identifier of the log entry.
	ID int `json:"id" db:"id"`

	// UserID identifies the owning user.
	UserID int `json:"user_id" db:"user_id"`

	// FoodName is the free-form name of the food eaten.
	FoodName string `json:"food_name" db:"food_name"`

	Calories int `json:"calories" db:"calories"`
	Protein  int `json:"protein" db:"protein"`
	Carbs    int `json:"carbs" db:"carbs"`
	Fat      int `json:"fat" db:"fat"`

	// MealType tags the entry (breakfast, lunch, dinner, snack, other).
	MealType string `json:"meal_type" db:"meal_type"`

	// LogDate is the calendar day the entry counts towards.
	LogDate Date `json:"log_date" db:"log_date"`

	// CreatedAt is the timestamp when the entry was recorded.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (f FoodLog) Macros() Macros {
	return Macros{Calories: f.Calories, Protein: f.Protein, Carbs: f.Carbs, Fat: f.Fat}
}

// DayTotals is the per-day macro sum used by the progress history.
type DayTotals struct {
	LogDate       Date `json:"log_date" db:"log_date"`
	TotalCalories int  `json:"total_calories" db:"total_calories"`
	TotalProtein  int  `json:"total_protein" db:"total_protein"`
	TotalCarbs    int  `json:"total_carbs" db:"total_carbs"`
	TotalFat      int  `json:"total_fat" db:"total_fat"`
}

// Percentages holds consumed/goal ratios rounded to whole percents.
// A nil value means the goal is not positive and no ratio is defined.
type Percentages struct {
	Calories *int `json:"calories"`
	Protein  *int `json:"protein"`
	Carbs    *int `json:"carbs"`
	Fat      *int `json:"fat"`
}

// Progress is the derived view of today's intake against goals.
type Progress struct {
	Goals       Macros      `json:"goals"`
	Consumed    Macros      `json:"consumed"`
	Remaining   Macros      `json:"remaining"`
	Percentages Percentages `json:"percentages"`
}
