package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kairo-health/kairo-server/internal/common"
	"github.com/kairo-health/kairo-server/internal/server/models"
	"github.com/kairo-health/kairo-server/internal/server/repositories/repomanager"
)

// WellbeingService records mood scores and completed activities.
type WellbeingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWellbeingService(db *sql.DB, m repomanager.RepositoryManager) *WellbeingService {
	return &WellbeingService{db: db, repomanager: m}
}

var validActivityTypes = map[string]struct{}{
	models.ActivityMeditation: {},
	models.ActivityExercise:   {},
	models.ActivityJournaling: {},
	models.ActivityOther:      {},
}

// LogMood stores one mood score. Score must be within 0–100.
func (s *WellbeingService) LogMood(ctx context.Context, userID string, score int, note string) (*models.MoodEntry, error) {
	if userID == "" || score < 0 || score > 100 {
		return nil, common.ErrValidation
	}

	entry := &models.MoodEntry{UserID: userID, Score: score, Note: note}
	if err := s.repomanager.Wellbeing(s.db).CreateMood(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording mood: %w", err)
	}

	return entry, nil
}

func (s *WellbeingService) ListMoods(ctx context.Context, userID string) ([]*models.MoodEntry, error) {
	if userID == "" {
		return nil, common.ErrValidation
	}
	return s.repomanager.Wellbeing(s.db).ListMoods(ctx, userID)
}

// LogActivity stores one activity entry. Type must be one of the known
// activity kinds and the name must be non-empty.
func (s *WellbeingService) LogActivity(ctx context.Context, userID, activityType, name string, durationMinutes int, description string) (*models.ActivityEntry, error) {
	name = strings.TrimSpace(name)
	if userID == "" || name == "" || durationMinutes < 0 {
		return nil, common.ErrValidation
	}
	if _, ok := validActivityTypes[activityType]; !ok {
		return nil, common.ErrValidation
	}

	entry := &models.ActivityEntry{
		UserID:          userID,
		Type:            activityType,
		Name:            name,
		DurationMinutes: durationMinutes,
		Description:     description,
	}
	if err := s.repomanager.Wellbeing(s.db).CreateActivity(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording activity: %w", err)
	}

	return entry, nil
}

func (s *WellbeingService) ListActivities(ctx context.Context, userID string) ([]*models.ActivityEntry, error) {
	if userID == "" {
		return nil, common.ErrValidation
	}
	return s.repomanager.Wellbeing(s.db).ListActivities(ctx, userID)
}
