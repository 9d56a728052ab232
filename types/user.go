package types

import (
	"strings"
	"time"
)

// User represents an account together with its biometric profile.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the unique login address of the user.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// Country is the user's country of residence.
	Country string `json:"country" db:"country"`

	// Age is expressed in whole years.
	Age int `json:"age" db:"age"`

	// Gender is a free-form value chosen by the user.
	Gender string `json:"gender" db:"gender"`

	// Height is expressed in centimeters.
	Height float64 `json:"height" db:"height"`

	// Weight is expressed in kilograms.
	Weight float64 `json:"weight" db:"weight"`

	// BMI is derived from Height and Weight and stored for convenience.
	// It is recomputed on every biometric update.
	BMI float64 `json:"bmi" db:"bmi"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Profile is the public view of a user returned by the profile endpoints.
type Profile struct {
	ID          int     `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Age         int     `json:"age"`
	Gender      string  `json:"gender"`
	Height      float64 `json:"height"`
	Weight      float64 `json:"weight"`
	BMI         float64 `json:"bmi"`
	BMICategory string  `json:"bmi_category"`
}

// Profile builds the public profile view of the user.
func (u User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Country:     u.Country,
		Age:         u.Age,
		Gender:      u.Gender,
		Height:      u.Height,
		Weight:      u.Weight,
		BMI:         u.BMI,
		BMICategory: BMICategory(u.BMI),
	}
}

// UserSummary is the short user view returned alongside auth tokens.
type UserSummary struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

// ProfilePatch is a sparse profile update. Nil fields keep their stored value.
type ProfilePatch struct {
	Name    *string  `json:"name"`
	Country *string  `json:"country"`
	Age     *int     `json:"age"`
	Gender  *string  `json:"gender"`
	Height  *float64 `json:"height"`
	Weight  *float64 `json:"weight"`
}

// Normalize drops blank string fields so they are treated as not supplied.
func (p ProfilePatch) Normalize() ProfilePatch {
	p.Name = trimmedOrNil(p.Name)
	p.Country = trimmedOrNil(p.Country)
	p.Gender = trimmedOrNil(p.Gender)
	return p
}

// TouchesBiometrics reports whether height or weight is supplied.
func (p ProfilePatch) TouchesBiometrics() bool {
	return p.Height != nil || p.Weight != nil
}

// Apply merges the patch onto u and returns the next state.
// BMI is recomputed when height or weight is supplied.
func (p ProfilePatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Country != nil {
		u.Country = *p.Country
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Height != nil {
		u.Height = RoundMeasure(*p.Height)
	}
	if p.Weight != nil {
		u.Weight = RoundMeasure(*p.Weight)
	}
	if p.TouchesBiometrics() && u.Height > 0 && u.Weight > 0 {
		u.BMI = ComputeBMI(u.Height, u.Weight)
	}
	return u
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
