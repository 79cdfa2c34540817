package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/kairo-health/kairo-server/internal/common"
	"github.com/kairo-health/kairo-server/internal/dbx"
	"github.com/kairo-health/kairo-server/internal/server/models"
	"github.com/kairo-health/kairo-server/internal/server/repositories/authsessions"
	"github.com/kairo-health/kairo-server/internal/server/repositories/chats"
	"github.com/kairo-health/kairo-server/internal/server/repositories/users"
	"github.com/kairo-health/kairo-server/internal/server/repositories/wellbeing"
	"github.com/kairo-health/kairo-server/internal/server/responder"
)

// newTestDB returns an empty sqlite handle. The fakes ignore it; it exists
// so dbx.WithTx has a real transaction to begin and commit.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// -------- users --------

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, common.ErrEmailExists
		}
	}
	f.nextID++
	u.ID = "user-" + string(rune('0'+f.nextID))
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

// -------- chats --------

type fakeChatsRepo struct {
	mu       sync.Mutex
	nextSeq  int64
	sessions map[string]*models.ChatSession
	messages map[string][]*models.ChatMessage
}

func newFakeChatsRepo() *fakeChatsRepo {
	return &fakeChatsRepo{
		sessions: make(map[string]*models.ChatSession),
		messages: make(map[string][]*models.ChatMessage),
	}
}

func (f *fakeChatsRepo) CreateSession(ctx context.Context, s *models.ChatSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeChatsRepo) GetSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, common.ErrNotFound
	}
	return s, nil
}

func (f *fakeChatsRepo) ListMessages(ctx context.Context, sessionID string) ([]*models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[sessionID]
	out := make([]*models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (f *fakeChatsRepo) AppendMessage(ctx context.Context, m *models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSeq++
	m.Seq = f.nextSeq
	m.CreatedAt = time.Now()
	f.messages[m.SessionID] = append(f.messages[m.SessionID], m)
	return nil
}

func (f *fakeChatsRepo) TouchSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[sessionID]; ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeChatsRepo) messageCount(sessionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[sessionID])
}

// -------- wellbeing --------

type fakeWellbeingRepo struct {
	mu         sync.Mutex
	nextID     int64
	moods      []*models.MoodEntry
	activities []*models.ActivityEntry
}

func newFakeWellbeingRepo() *fakeWellbeingRepo { return &fakeWellbeingRepo{} }

func (f *fakeWellbeingRepo) CreateMood(ctx context.Context, e *models.MoodEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now()
	f.moods = append(f.moods, e)
	return nil
}

func (f *fakeWellbeingRepo) ListMoods(ctx context.Context, userID string) ([]*models.MoodEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MoodEntry
	for i := len(f.moods) - 1; i >= 0; i-- {
		if f.moods[i].UserID == userID {
			out = append(out, f.moods[i])
		}
	}
	return out, nil
}

func (f *fakeWellbeingRepo) CreateActivity(ctx context.Context, e *models.ActivityEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now()
	f.activities = append(f.activities, e)
	return nil
}

func (f *fakeWellbeingRepo) ListActivities(ctx context.Context, userID string) ([]*models.ActivityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ActivityEntry
	for i := len(f.activities) - 1; i >= 0; i-- {
		if f.activities[i].UserID == userID {
			out = append(out, f.activities[i])
		}
	}
	return out, nil
}

// -------- manager --------

type fakeRepoManager struct {
	users     *fakeUsersRepo
	chats     *fakeChatsRepo
	wellbeing *fakeWellbeingRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:     newFakeUsersRepo(),
		chats:     newFakeChatsRepo(),
		wellbeing: newFakeWellbeingRepo(),
	}
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.users }
func (m *fakeRepoManager) AuthSessions(db dbx.DBTX) authsessions.Repository {
	return authsessions.NewMemoryRepository()
}
func (m *fakeRepoManager) Chats(db dbx.DBTX) chats.Repository           { return m.chats }
func (m *fakeRepoManager) Wellbeing(db dbx.DBTX) wellbeing.Repository   { return m.wellbeing }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

// -------- responder --------

type stubResponder struct {
	mu           sync.Mutex
	reply        string
	err          error
	delay        time.Duration
	gotHistory   []responder.Turn
	gotHistories [][]responder.Turn
	gotNewTexts  []string
}

func (s *stubResponder) Generate(ctx context.Context, history []responder.Turn, newText string) (string, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gotHistory = append([]responder.Turn(nil), history...)
	s.gotHistories = append(s.gotHistories, s.gotHistory)
	s.gotNewTexts = append(s.gotNewTexts, newText)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// observedHistoryLens returns the length of the history each Generate call
// was given, in call order.
func (s *stubResponder) observedHistoryLens() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	lens := make([]int, len(s.gotHistories))
	for i, h := range s.gotHistories {
		lens[i] = len(h)
	}
	return lens
}
