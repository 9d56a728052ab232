package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/config"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
)

// BmiHistoryLimit caps the number of history rows returned.
const BmiHistoryLimit = 30

// ProfileService reads and updates the biometric profile of a user.
type ProfileService struct {
	users  UserRepository
	policy string
	events EventPublisher
}

// NewProfileService builds the service. policy is one of config.BMIHistoryBothSupplied
// or config.BMIHistoryAnyChange; anything else behaves as BMIHistoryBothSupplied.
func NewProfileService(users UserRepository, policy string, events EventPublisher) *ProfileService {
	if policy != config.BMIHistoryAnyChange {
		policy = config.BMIHistoryBothSupplied
	}
	return &ProfileService{users: users, policy: policy, events: publisherOrNoop(events)}
}

func (s *ProfileService) Get(ctx context.Context, userID int) (types.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Update applies a sparse patch. The merge runs against the row as locked by the
// repository and a BMI history row is appended according to the configured policy
// in the same unit of work.
func (s *ProfileService) Update(ctx context.Context, userID int, patch types.ProfilePatch) (types.User, error) {
	patch = patch.Normalize()
	if err := validateBiometrics(patch.Age, patch.Height, patch.Weight); err != nil {
		return types.User{}, err
	}
	if patch == (types.ProfilePatch{}) {
		return s.users.GetByID(ctx, userID)
	}

	var record *types.BmiRecord
	updated, err := s.users.UpdateProfile(ctx, userID, func(current types.User) (types.User, *types.BmiRecord, error) {
		next := patch.Apply(current)
		record = nil
		if s.recordsHistory(patch) && next.Height > 0 && next.Weight > 0 {
			record = &types.BmiRecord{
				UserID: userID,
				Height: next.Height,
				Weight: next.Weight,
				BMI:    next.BMI,
			}
		}
		return next, record, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return types.User{}, err
		}
		return types.User{}, fmt.Errorf("update profile: %w", err)
	}

	s.events.Publish(ctx, EventProfileUpdated, userID, updated.Profile())
	if record != nil {
		s.events.Publish(ctx, EventBmiRecorded, userID, record)
	}
	return updated, nil
}

func (s *ProfileService) recordsHistory(patch types.ProfilePatch) bool {
	if s.policy == config.BMIHistoryAnyChange {
		return patch.TouchesBiometrics()
	}
	return patch.Height != nil && patch.Weight != nil
}

// BmiHistory returns the most recent history rows, newest first.
func (s *ProfileService) BmiHistory(ctx context.Context, userID int) ([]types.BmiRecord, error) {
	return s.users.ListBmiHistory(ctx, userID, BmiHistoryLimit)
}

// Delete removes the account and, through cascading keys, everything it owns.
func (s *ProfileService) Delete(ctx context.Context, userID int) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.events.Publish(ctx, EventUserDeleted, userID, nil)
	return nil
}
