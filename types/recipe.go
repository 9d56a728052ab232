package types

// Recipe is a suggested dish with its estimated nutrition.
type Recipe struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Nutrition    Macros   `json:"nutrition"`
	Instructions []string `json:"instructions"`
}
