package models

import "time"

// Activity types accepted by LogActivity.
const (
	ActivityMeditation = "meditation"
	ActivityExercise   = "exercise"
	ActivityJournaling = "journaling"
	ActivityOther      = "other"
)

// MoodEntry is one self-reported mood score on a 0–100 scale.
type MoodEntry struct {
	ID        int64
	UserID    string
	Score     int
	Note      string
	CreatedAt time.Time
}

// ActivityEntry records a wellbeing activity the user completed.
type ActivityEntry struct {
	ID              int64
	UserID          string
	Type            string
	Name            string
	DurationMinutes int
	Description     string
	CreatedAt       time.Time
}
