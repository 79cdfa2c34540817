package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairo-health/kairo-server/internal/common"
	"github.com/kairo-health/kairo-server/internal/logging"
	"github.com/kairo-health/kairo-server/internal/server/auth"
	"github.com/kairo-health/kairo-server/internal/server/models"
)

const testSecret = "test-secret"

type stubUsers struct {
	registerUser *models.User
	registerErr  error
	loginToken   string
	loginUser    *models.User
	loginErr     error
	activeTokens map[string]bool
}

func (s *stubUsers) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.registerUser, s.registerErr
}

func (s *stubUsers) Login(ctx context.Context, email, password, clientInfo string) (string, *models.User, error) {
	return s.loginToken, s.loginUser, s.loginErr
}

func (s *stubUsers) IsTokenActive(ctx context.Context, token string) (bool, error) {
	return s.activeTokens[token], nil
}

type stubChats struct {
	sessionID  string
	createErr  error
	reply      string
	sendErr    error
	gotSession string
	gotUserID  string
	gotText    string
}

func (s *stubChats) CreateSession(ctx context.Context, userID string) (string, error) {
	s.gotUserID = userID
	return s.sessionID, s.createErr
}

func (s *stubChats) SendTurn(ctx context.Context, sessionID, userID, text string) (string, error) {
	s.gotSession = sessionID
	s.gotUserID = userID
	s.gotText = text
	return s.reply, s.sendErr
}

type stubWellbeing struct {
	mood       *models.MoodEntry
	moodErr    error
	moods      []*models.MoodEntry
	activity   *models.ActivityEntry
	activities []*models.ActivityEntry
}

func (s *stubWellbeing) LogMood(ctx context.Context, userID string, score int, note string) (*models.MoodEntry, error) {
	return s.mood, s.moodErr
}

func (s *stubWellbeing) ListMoods(ctx context.Context, userID string) ([]*models.MoodEntry, error) {
	return s.moods, nil
}

func (s *stubWellbeing) LogActivity(ctx context.Context, userID, activityType, name string, durationMinutes int, description string) (*models.ActivityEntry, error) {
	return s.activity, nil
}

func (s *stubWellbeing) ListActivities(ctx context.Context, userID string) ([]*models.ActivityEntry, error) {
	return s.activities, nil
}

func newTestServer(t *testing.T, users *stubUsers, chats *stubChats, wellbeing *stubWellbeing) *HTTPServer {
	t.Helper()
	if users == nil {
		users = &stubUsers{activeTokens: map[string]bool{}}
	}
	if chats == nil {
		chats = &stubChats{}
	}
	if wellbeing == nil {
		wellbeing = &stubWellbeing{}
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv, err := NewHTTPServer(":0", logger, users, chats, wellbeing, testSecret)
	require.NoError(t, err)
	return srv
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewHTTPServer_NoSecret(t *testing.T) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := NewHTTPServer(":0", logger, &stubUsers{}, &stubChats{}, &stubWellbeing{}, "")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		err        error
		wantStatus int
	}{
		{"created", &models.User{ID: "u1", Name: "alice", Email: "a@b.c"}, nil, http.StatusCreated},
		{"duplicate email", nil, common.ErrEmailExists, http.StatusConflict},
		{"validation", nil, common.ErrValidation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubUsers{registerUser: tt.user, registerErr: tt.err}
			srv := newTestServer(t, users, nil, nil)

			rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/auth/register", "",
				map[string]string{"username": "alice", "email": "a@b.c", "password": "pw"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				body := decodeBody(t, rec)
				user := body["user"].(map[string]any)
				assert.Equal(t, "u1", user["id"])
				assert.Equal(t, "alice", user["username"])
				assert.NotContains(t, rec.Body.String(), "password")
			}
		})
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	t.Run("success returns token and user", func(t *testing.T) {
		users := &stubUsers{
			loginToken: "tok-123",
			loginUser:  &models.User{ID: "u1", Name: "alice", Email: "a@b.c"},
		}
		srv := newTestServer(t, users, nil, nil)

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "a@b.c", "password": "pw"})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "tok-123", body["token"])
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		users := &stubUsers{loginErr: common.ErrInvalidCredentials}
		srv := newTestServer(t, users, nil, nil)

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "a@b.c", "password": "wrong"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	userID := "u1"
	validToken := bearerToken(t, userID)

	tests := []struct {
		name       string
		header     string
		active     bool
		wantStatus int
	}{
		{"missing header", "", false, http.StatusUnauthorized},
		{"not bearer", "Basic abc", false, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", false, http.StatusUnauthorized},
		{"valid signature but revoked", "Bearer " + validToken, false, http.StatusUnauthorized},
		{"valid and active", "Bearer " + validToken, true, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubUsers{activeTokens: map[string]bool{}}
			if tt.active {
				users.activeTokens[validToken] = true
			}
			chats := &stubChats{sessionID: "s1"}
			srv := newTestServer(t, users, chats, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/chat/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, userID, chats.gotUserID)
			}
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	expired, err := auth.GenerateToken("u1", []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	users := &stubUsers{activeTokens: map[string]bool{expired: true}}
	srv := newTestServer(t, users, nil, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat/session", expired, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSession(t *testing.T) {
	token := bearerToken(t, "u1")
	users := &stubUsers{activeTokens: map[string]bool{token: true}}
	chats := &stubChats{sessionID: "sess-42"}
	srv := newTestServer(t, users, chats, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat/session", token, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "sess-42", body["sessionId"])
}

func TestSendMessage(t *testing.T) {
	token := bearerToken(t, "u1")

	tests := []struct {
		name       string
		reply      string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"ok", "hello there", nil, http.StatusOK, "hello there"},
		{"unknown session", "", common.ErrNotFound, http.StatusNotFound, ""},
		{"empty message", "", common.ErrValidation, http.StatusBadRequest, ""},
		{"provider down", "", common.ErrProviderUnavailable, http.StatusServiceUnavailable, common.ProviderFallbackMessage},
		{"provider not configured", "", common.ErrNotConfigured, http.StatusServiceUnavailable, common.ProviderFallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubUsers{activeTokens: map[string]bool{token: true}}
			chats := &stubChats{reply: tt.reply, sendErr: tt.err}
			srv := newTestServer(t, users, chats, nil)

			rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/chat/sess-1/message", token,
				map[string]string{"message": "hi"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			switch {
			case tt.wantStatus == http.StatusOK:
				assert.Equal(t, tt.wantBody, body["response"])
				assert.Equal(t, "sess-1", chats.gotSession)
				assert.Equal(t, "u1", chats.gotUserID)
				assert.Equal(t, "hi", chats.gotText)
			case tt.wantBody != "":
				assert.Equal(t, tt.wantBody, body["message"])
			}
		})
	}
}

func TestWellbeingEndpoints(t *testing.T) {
	token := bearerToken(t, "u1")
	users := &stubUsers{activeTokens: map[string]bool{token: true}}
	wellbeing := &stubWellbeing{
		mood: &models.MoodEntry{ID: 1, UserID: "u1", Score: 70, CreatedAt: time.Now()},
		moods: []*models.MoodEntry{
			{ID: 2, UserID: "u1", Score: 55, CreatedAt: time.Now()},
		},
		activity: &models.ActivityEntry{ID: 3, UserID: "u1", Type: models.ActivityExercise, Name: "run", DurationMinutes: 30, CreatedAt: time.Now()},
		activities: []*models.ActivityEntry{
			{ID: 3, UserID: "u1", Type: models.ActivityExercise, Name: "run", DurationMinutes: 30, CreatedAt: time.Now()},
		},
	}
	srv := newTestServer(t, users, nil, wellbeing)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/moods", token, map[string]any{"score": 70})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/moods", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["moods"], 1)

	rec = doJSON(t, h, http.MethodPost, "/api/activities", token,
		map[string]any{"type": "exercise", "name": "run", "durationMinutes": 30})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/activities", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["activities"], 1)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}
