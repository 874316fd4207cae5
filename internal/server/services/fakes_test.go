package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskmanager/internal/common"
	"github.com/dmitrijs2005/taskmanager/internal/dbx"
	"github.com/dmitrijs2005/taskmanager/internal/logging"
	"github.com/dmitrijs2005/taskmanager/internal/server/config"
	"github.com/dmitrijs2005/taskmanager/internal/server/models"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/avatars"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- in-memory store backing every repository ---

type memStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	tokens  map[string][]string
	tasks   map[string]*models.Task
	avatars map[string][]byte
	seq     int

	failTasksDelete error
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*models.User{},
		tokens:  map[string][]string{},
		tasks:   map[string]*models.Task{},
		avatars: map[string][]byte{},
	}
}

func (m *memStore) now() time.Time {
	m.seq++
	return time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
}

type memUsers struct{ *memStore }

func (r memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = r.now()
	cp.UpdatedAt = cp.CreatedAt
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) Update(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return common.ErrorNotFound
	}
	for id, existing := range r.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return common.ErrorAlreadyExists
		}
	}
	u.UpdatedAt = r.now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r memUsers) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}

type memTokens struct{ *memStore }

func (r memTokens) Create(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID] = append(r.tokens[userID], token)
	return nil
}

func (r memTokens) Exists(ctx context.Context, userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

func (r memTokens) Delete(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tokens[userID][:0]
	for _, t := range r.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	r.tokens[userID] = kept
	return nil
}

func (r memTokens) DeleteAll(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.tokens[userID]))
	delete(r.tokens, userID)
	return n, nil
}

type memTasks struct{ *memStore }

func (r memTasks) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	cp.ID = uuid.NewString()
	cp.CreatedAt = r.now()
	cp.UpdatedAt = cp.CreatedAt
	r.tasks[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memTasks) List(ctx context.Context, ownerID string, q models.TaskQuery) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Task{}
	for _, t := range r.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memTasks) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTasks) Update(ctx context.Context, t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[t.ID]
	if !ok || existing.OwnerID != t.OwnerID {
		return common.ErrorNotFound
	}
	t.UpdatedAt = r.now()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r memTasks) Delete(ctx context.Context, ownerID, id string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	delete(r.tasks, id)
	return t, nil
}

func (r memTasks) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTasksDelete != nil {
		return 0, r.failTasksDelete
	}
	var n int64
	for id, t := range r.tasks {
		if t.OwnerID == ownerID {
			delete(r.tasks, id)
			n++
		}
	}
	return n, nil
}

type memAvatars struct{ *memStore }

func (r memAvatars) Put(ctx context.Context, userID string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return common.ErrorNotFound
	}
	r.avatars[userID] = data
	return nil
}

func (r memAvatars) Get(ctx context.Context, userID string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.avatars[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (r memAvatars) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.avatars, userID)
	return nil
}

// fakeManager hands out the in-memory repositories regardless of the DBTX.
type fakeManager struct{ store *memStore }

func (f fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f fakeManager) Users(dbx.DBTX) users.Repository { return memUsers{f.store} }
func (f fakeManager) Tokens(dbx.DBTX) tokens.Repository { return memTokens{f.store} }
func (f fakeManager) Tasks(dbx.DBTX) tasks.Repository { return memTasks{f.store} }
func (f fakeManager) Avatars(dbx.DBTX) avatars.Repository { return memAvatars{f.store} }

// --- mailer ---

type sentMail struct {
	Kind, Email, Name string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) record(kind, email, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{kind, email, name})
	return f.err
}

func (f *fakeMailer) SendWelcome(ctx context.Context, email, name string) error {
	return f.record("welcome", email, name)
}

func (f *fakeMailer) SendCancellation(ctx context.Context, email, name string) error {
	return f.record("cancellation", email, name)
}

func (f *fakeMailer) Sent() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMail(nil), f.sent...)
}

// --- wiring helpers ---

func testLogger(w io.Writer) logging.Logger {
	if w == nil {
		w = io.Discard
	}
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

type userFixture struct {
	svc    *UserService
	store  *memStore
	mailer *fakeMailer
	mock   sqlmock.Sqlmock
	logs   *bytes.Buffer
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := newMemStore()
	ml := &fakeMailer{}
	logs := &bytes.Buffer{}
	cfg := &config.Config{SecretKey: "k", BcryptCost: 4}
	svc := NewUserService(db, fakeManager{store}, memAvatars{store}, ml, cfg, testLogger(logs))
	return &userFixture{svc: svc, store: store, mailer: ml, mock: mock, logs: logs}
}

// register creates a user through the service, expecting one transaction.
func (f *userFixture) register(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	u, tok, err := f.svc.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "abc1234",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u, tok
}
