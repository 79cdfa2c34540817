package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kairo-health/kairo-server/internal/common"
	"github.com/kairo-health/kairo-server/internal/server/models"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Name, Email: u.Email}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	user, err := s.users.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.logger.Info(ctx, "User registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, struct {
		Message string       `json:"message"`
		User    userResponse `json:"user"`
	}{
		Message: "User registered successfully",
		User:    toUserResponse(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	token, user, err := s.users.Login(ctx, req.Email, req.Password, r.UserAgent())
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.logger.Info(ctx, "User logged in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, struct {
		Message string       `json:"message"`
		Token   string       `json:"token"`
		User    userResponse `json:"user"`
	}{
		Message: "Login successful",
		Token:   token,
		User:    toUserResponse(user),
	})
}

func (s *HTTPServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		s.writeError(ctx, w, common.ErrInvalidToken)
		return
	}

	sessionID, err := s.chats.CreateSession(ctx, userID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		SessionID string `json:"sessionId"`
	}{SessionID: sessionID})
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

func (s *HTTPServer) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		s.writeError(ctx, w, common.ErrInvalidToken)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	reply, err := s.chats.SendTurn(ctx, r.PathValue("sessionId"), userID, req.Message)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Response string `json:"response"`
	}{Response: reply})
}

type logMoodRequest struct {
	Score int    `json:"score"`
	Note  string `json:"note"`
}

type moodResponse struct {
	ID        int64     `json:"id"`
	Score     int       `json:"score"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMoodResponse(m *models.MoodEntry) moodResponse {
	return moodResponse{ID: m.ID, Score: m.Score, Note: m.Note, CreatedAt: m.CreatedAt}
}

func (s *HTTPServer) handleLogMood(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		s.writeError(ctx, w, common.ErrInvalidToken)
		return
	}

	var req logMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	entry, err := s.wellbeing.LogMood(ctx, userID, req.Score, req.Note)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMoodResponse(entry))
}

func (s *HTTPServer) handleListMoods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		s.writeError(ctx, w, common.ErrInvalidToken)
		return
	}

	entries, err := s.wellbeing.ListMoods(ctx, userID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	moods := make([]moodResponse, 0, len(entries))
	for _, m := range entries {
		moods = append(moods, toMoodResponse(m))
	}

	writeJSON(w, http.StatusOK, struct {
		Moods []moodResponse `json:"moods"`
	}{Moods: moods})
}

type logActivityRequest struct {
	Type            string `json:"type"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Description     string `json:"description"`
}

type activityResponse struct {
	ID              int64     `json:"id"`
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toActivityResponse(a *models.ActivityEntry) activityResponse {
	return activityResponse{
		ID:              a.ID,
		Type:            a.Type,
		Name:            a.Name,
		DurationMinutes: a.DurationMinutes,
		Description:     a.Description,
		CreatedAt:       a.CreatedAt,
	}
}

func (s *HTTPServer) handleLogActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		s.writeError(ctx, w, common.ErrInvalidToken)
		return
	}

	var req logActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	entry, err := s.wellbeing.LogActivity(ctx, userID, req.Type, req.Name, req.DurationMinutes, req.Description)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toActivityResponse(entry))
}

func (s *HTTPServer) handleListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		s.writeError(ctx, w, common.ErrInvalidToken)
		return
	}

	entries, err := s.wellbeing.ListActivities(ctx, userID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	activities := make([]activityResponse, 0, len(entries))
	for _, a := range entries {
		activities = append(activities, toActivityResponse(a))
	}

	writeJSON(w, http.StatusOK, struct {
		Activities []activityResponse `json:"activities"`
	}{Activities: activities})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status    string `json:"status"`
		Uptime    string `json:"uptime"`
		Timestamp string `json:"timestamp"`
	}{
		Status:    "ok",
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
