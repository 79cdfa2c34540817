// Package wellbeing stores mood scores and completed activities, scoped to
// the owning user.
package wellbeing

import (
	"context"

	"github.com/kairo-health/kairo-server/internal/server/models"
)

type Repository interface {
	CreateMood(ctx context.Context, entry *models.MoodEntry) error
	ListMoods(ctx context.Context, userID string) ([]*models.MoodEntry, error)

	CreateActivity(ctx context.Context, entry *models.ActivityEntry) error
	ListActivities(ctx context.Context, userID string) ([]*models.ActivityEntry, error)
}
