package types

import (
	"math"
	"time"
)

// BmiRecord is an append-only snapshot of a user's biometrics.
type BmiRecord struct {
	ID         int       `json:"-" db:"id"`
	UserID     int       `json:"-" db:"user_id"`
	Height     float64   `json:"height" db:"height"`
	Weight     float64   `json:"weight" db:"weight"`
	BMI        float64   `json:"bmi" db:"bmi"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// RoundMeasure rounds a height or weight to the two decimals the schema stores.
func RoundMeasure(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeBMI returns weight / (height in meters)^2 rounded to two decimals.
func ComputeBMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*100) / 100
}

// BMICategory classifies a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return ""
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
