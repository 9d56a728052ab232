package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
	"go.uber.org/zap"
)

const exportHistoryLimit = 10000

// Archiver stores encoded export documents.
type Archiver interface {
	PutJSON(ctx context.Context, key string, data []byte) error
}

// Export is a full snapshot of the data owned by one user.
type Export struct {
	ExportedAt time.Time         `json:"exported_at"`
	Profile    types.Profile     `json:"profile"`
	Goals      *types.DailyGoals `json:"goals"`
	FoodLogs   []types.FoodLog   `json:"food_logs"`
	BmiHistory []types.BmiRecord `json:"bmi_history"`
	ObjectKey  string            `json:"object_key,omitempty"`
}

// ExportService assembles user snapshots and archives them when storage is configured.
type ExportService struct {
	users   UserRepository
	goals   GoalsRepository
	logs    FoodLogRepository
	archive Archiver
	clock   Clock
	logger  *zap.Logger
}

// NewExportService builds the service. A nil archive keeps exports inline only.
func NewExportService(users UserRepository, goals GoalsRepository, logs FoodLogRepository, archive Archiver, clock Clock, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{users: users, goals: goals, logs: logs, archive: archive, clock: clock, logger: logger}
}

// Export returns the snapshot. Archive failures are logged and leave ObjectKey empty.
func (s *ExportService) Export(ctx context.Context, userID int) (Export, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Export{}, err
	}

	out := Export{
		ExportedAt: s.clock.now().UTC(),
		Profile:    user.Profile(),
	}

	goals, err := s.goals.GetByUser(ctx, userID)
	switch {
	case err == nil:
		out.Goals = &goals
	case !errors.Is(err, ErrNotFound):
		return Export{}, fmt.Errorf("load goals: %w", err)
	}

	if out.FoodLogs, err = s.logs.ListByUser(ctx, userID); err != nil {
		return Export{}, fmt.Errorf("load food logs: %w", err)
	}
	if out.BmiHistory, err = s.users.ListBmiHistory(ctx, userID, exportHistoryLimit); err != nil {
		return Export{}, fmt.Errorf("load bmi history: %w", err)
	}
	if out.FoodLogs == nil {
		out.FoodLogs = []types.FoodLog{}
	}
	if out.BmiHistory == nil {
		out.BmiHistory = []types.BmiRecord{}
	}

	if s.archive != nil {
		out.ObjectKey = s.store(ctx, userID, out)
	}
	return out, nil
}

func (s *ExportService) store(ctx context.Context, userID int, snapshot Export) string {
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("encode export", zap.Int("user_id", userID), zap.Error(err))
		return ""
	}
	key := ExportKey(userID)
	if err := s.archive.PutJSON(ctx, key, data); err != nil {
		s.logger.Warn("archive export", zap.Int("user_id", userID), zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

// ExportKey returns a fresh object key for an export of userID.
func ExportKey(userID int) string {
	return fmt.Sprintf("exports/%d/%s.json", userID, uuid.NewString())
}
