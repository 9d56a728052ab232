package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/services"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
	"go.uber.org/zap"
)

// TokenVerifier resolves a bearer token to the identity it binds.
type TokenVerifier interface {
	Verify(token string) (services.Identity, error)
}

// AuthHandler provides account, profile and BMI history endpoints.
type AuthHandler struct {
	auth    *services.AuthService
	profile *services.ProfileService
	export  *services.ExportService
	logger  *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(auth *services.AuthService, profile *services.ProfileService, export *services.ExportService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, profile: profile, export: export, logger: logger}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(
	r chi.Router,
	auth *services.AuthService,
	profile *services.ProfileService,
	export *services.ExportService,
	authMiddleware func(http.Handler) http.Handler,
	logger *zap.Logger,
) {
	handler := NewAuthHandler(auth, profile, export, logger)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/profile", handler.GetProfile)
		r.Put("/profile", handler.UpdateProfile)
		r.Get("/bmi-history", handler.BmiHistory)
		r.Get("/export", handler.Export)
		r.Delete("/account", handler.DeleteAccount)
	})
}

// RequireAuth enforces bearer token authentication and injects the identity into context.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			identity, err := verifier.Verify(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
		})
	}
}

// Signup creates a new account with default goals and returns a token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.auth.Signup(r.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Country:  req.Country,
		Gender:   req.Gender,
		Age:      req.Age.Int(),
		Height:   req.Height.Float(),
		Weight:   req.Weight.Float(),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err, "User not found")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user.Summary(),
	})
}

// Login verifies credentials and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Summary(),
	})
}

// GetProfile returns the caller's profile.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.profile.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}

// UpdateProfile applies a partial profile update.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ProfileUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.profile.Update(r.Context(), userID, types.ProfilePatch{
		Name:    req.Name,
		Country: req.Country,
		Gender:  req.Gender,
		Age:     req.Age.Int(),
		Height:  req.Height.Float(),
		Weight:  req.Weight.Float(),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, ProfileUpdateResponse{
		Message: "Profile updated successfully",
		User:    user.Profile(),
	})
}

// BmiHistory lists the caller's most recent BMI records.
func (h *AuthHandler) BmiHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	records, err := h.profile.BmiHistory(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Export returns a snapshot of everything the caller owns.
func (h *AuthHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.export.Export(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// DeleteAccount removes the caller and all owned rows.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.profile.Delete(r.Context(), userID); err != nil {
		writeServiceError(w, r, h.logger, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}

type SignupRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Name     string         `json:"name"`
	Country  string         `json:"country"`
	Gender   string         `json:"gender"`
	Age      optionalNumber `json:"age"`
	Height   optionalNumber `json:"height"`
	Weight   optionalNumber `json:"weight"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdateRequest struct {
	Name    *string        `json:"name"`
	Country *string        `json:"country"`
	Gender  *string        `json:"gender"`
	Age     optionalNumber `json:"age"`
	Height  optionalNumber `json:"height"`
	Weight  optionalNumber `json:"weight"`
}

type AuthResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    types.UserSummary `json:"user"`
}

type ProfileUpdateResponse struct {
	Message string        `json:"message"`
	User    types.Profile `json:"user"`
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
