package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/store"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the lifetime of issued bearer tokens.
const DefaultTokenTTL = 7 * 24 * time.Hour

// UserRepository defines persistence operations for users and their BMI history.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	CreateWithGoals(ctx context.Context, user types.User, goals types.DailyGoals) (types.User, types.DailyGoals, error)
	UpdateProfile(ctx context.Context, id int, change store.ProfileChange) (types.User, error)
	ListBmiHistory(ctx context.Context, userID, limit int) ([]types.BmiRecord, error)
	Delete(ctx context.Context, id int) error
}

// Identity is the authenticated caller bound to a token.
type Identity struct {
	UserID int
	Email  string
}

// SignupInput carries the registration form. Nil numbers are missing fields.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Country  string
	Gender   string
	Age      *int
	Height   *float64
	Weight   *float64
}

type tokenClaims struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService registers users, checks credentials and issues bearer tokens.
type AuthService struct {
	users  UserRepository
	secret []byte
	ttl    time.Duration
	clock  Clock
	events EventPublisher
}

func NewAuthService(users UserRepository, jwtSecret string, ttl time.Duration, clock Clock, events EventPublisher) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		users:  users,
		secret: []byte(jwtSecret),
		ttl:    ttl,
		clock:  clock,
		events: publisherOrNoop(events),
	}
}

// Signup creates the user with default goals and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (types.User, string, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	country := strings.TrimSpace(in.Country)
	gender := strings.TrimSpace(in.Gender)
	if email == "" || in.Password == "" || name == "" || country == "" || gender == "" ||
		in.Age == nil || in.Height == nil || in.Weight == nil {
		return types.User{}, "", invalid("", "All fields are required")
	}
	if err := validateBiometrics(in.Age, in.Height, in.Weight); err != nil {
		return types.User{}, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	height, weight := types.RoundMeasure(*in.Height), types.RoundMeasure(*in.Weight)
	user, _, err := s.users.CreateWithGoals(ctx, types.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		Country:      country,
		Age:          *in.Age,
		Gender:       gender,
		Height:       height,
		Weight:       weight,
		BMI:          types.ComputeBMI(height, weight),
	}, types.DefaultGoals(0))
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, "", ErrConflict
		}
		return types.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return types.User{}, "", err
	}
	s.events.Publish(ctx, EventUserRegistered, user.ID, user.Summary())
	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (types.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return types.User{}, "", invalid("", "Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, "", ErrUnauthorized
		}
		return types.User{}, "", fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, "", ErrUnauthorized
	}

	token, err := s.issueToken(user)
	if err != nil {
		return types.User{}, "", err
	}
	return user, token, nil
}

// Verify validates a bearer token and returns the identity it binds.
func (s *AuthService) Verify(tokenString string) (Identity, error) {
	claims := tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrUnauthorized
	}

	id := claims.ID
	if id < 1 {
		parsed, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
		if err != nil || parsed < 1 {
			return Identity{}, ErrUnauthorized
		}
		id = parsed
	}
	return Identity{UserID: id, Email: claims.Email}, nil
}

func (s *AuthService) issueToken(user types.User) (string, error) {
	now := s.clock.now()
	claims := tokenClaims{
		ID:    user.ID,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Accepted biometric ranges.
const (
	minAge, maxAge       = 1, 150
	minHeight, maxHeight = 50.0, 300.0
	minWeight, maxWeight = 20.0, 500.0
)

func validateBiometrics(age *int, height, weight *float64) error {
	if age != nil && (*age < minAge || *age > maxAge) {
		return invalid("age", "Invalid age")
	}
	if height != nil && (*height < minHeight || *height > maxHeight) {
		return invalid("height", "Invalid height (cm)")
	}
	if weight != nil && (*weight < minWeight || *weight > maxWeight) {
		return invalid("weight", "Invalid weight (kg)")
	}
	return nil
}
